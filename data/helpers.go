package data

import (
	"database/sql"
	"strconv"

	"zdm_server_go/errors"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

// requireAffected turns a zero-row UPDATE/DELETE into ErrNotFound.
func requireAffected(res sql.Result, format string, args ...interface{}) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return errors.NewNotFoundError(format, args...)
	}
	return nil
}
