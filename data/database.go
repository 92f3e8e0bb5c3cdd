package data

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3" // Драйвер SQLite, регистрируется при импорте

	"zdm_server_go/errors"
	"zdm_server_go/logger"
)

const memoryPath = ":memory:"

// Open подключается к базе SQLite по пути path и применяет схему.
// Внешние ключи включены; ":memory:" ограничивается одним соединением,
// иначе каждое соединение получило бы свою пустую базу.
func Open(path string) (*sqlx.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.NewInvalidRequestError("database path is empty")
	}
	dsn := path + "?_foreign_keys=on&_busy_timeout=5000"

	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "Open: connect to %s", path)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
	}
	logger.Logger.Infow("connected to database", "path", path)

	if err := Migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate применяет схему. Все операторы идемпотентны.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range Schema() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "Migrate: apply %q", firstLine(stmt))
		}
	}
	logger.Logger.Debugw("database schema applied", "statements", len(Schema()))
	return nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// isUniqueViolation сообщает, является ли err нарушением UNIQUE или PRIMARY KEY.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// isForeignKeyViolation сообщает, является ли err нарушением внешнего ключа.
func isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

// classify помечает нарушения ограничений драйвера ошибками домена
// и оборачивает любую ошибку сообщением msg.
func classify(err error, msg string) error {
	switch {
	case isUniqueViolation(err):
		return errors.Mark(errors.Wrap(err, msg), errors.ErrConflict)
	case isForeignKeyViolation(err):
		return errors.Mark(errors.Wrap(err, msg), errors.ErrInvalidRequest)
	default:
		return errors.Wrap(err, msg)
	}
}
