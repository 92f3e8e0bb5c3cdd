package data

// Таблицы создаются в порядке внешних ключей.

const usersTable = `
CREATE TABLE IF NOT EXISTS Users (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    Email TEXT NOT NULL UNIQUE,
    DisplayName TEXT NOT NULL,
    PasswordHash TEXT NOT NULL,
    CreatedAt DATETIME NOT NULL,
    UpdatedAt DATETIME NOT NULL
);`

const centersTable = `
CREATE TABLE IF NOT EXISTS Centers (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    Name TEXT NOT NULL UNIQUE,
    Description TEXT NOT NULL DEFAULT '',
    CreatedAt DATETIME NOT NULL
);`

const serversTable = `
CREATE TABLE IF NOT EXISTS Servers (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    CenterId INTEGER NOT NULL,
    Name TEXT NOT NULL,
    OS INTEGER NOT NULL,
    IPAddress TEXT NOT NULL DEFAULT '',
    CreatedAt DATETIME NOT NULL,
    UNIQUE (CenterId, Name),
    FOREIGN KEY (CenterId) REFERENCES Centers(Id) ON DELETE CASCADE
);`

// Schedules.Id назначает приложение (случайный, с проверкой коллизий),
// а не SQLite.
const schedulesTable = `
CREATE TABLE IF NOT EXISTS Schedules (
    Id INTEGER PRIMARY KEY,
    OwnerUserId INTEGER NOT NULL,
    CenterId INTEGER NOT NULL,
    Type INTEGER NOT NULL,
    Status INTEGER NOT NULL,
    Year TEXT NOT NULL DEFAULT '',
    Month TEXT NOT NULL DEFAULT '',
    Day TEXT NOT NULL DEFAULT '',
    Time TEXT NOT NULL DEFAULT '',
    PeriodHours INTEGER NOT NULL DEFAULT 0,
    PeriodMinutes INTEGER NOT NULL DEFAULT 0,
    WeekdayMask TEXT NOT NULL DEFAULT '',
    WeekOfMonthMask TEXT NOT NULL DEFAULT '',
    DateMask TEXT NOT NULL DEFAULT '',
    MonthMask TEXT NOT NULL DEFAULT '',
    LastRunTime DATETIME,
    JobName TEXT NOT NULL,
    CreatedAt DATETIME NOT NULL,
    FOREIGN KEY (CenterId) REFERENCES Centers(Id) ON DELETE CASCADE
);`

const schedulesByCenterIndex = `
CREATE INDEX IF NOT EXISTS IX_Schedules_CenterId ON Schedules (CenterId);`

const backupJobsTable = `
CREATE TABLE IF NOT EXISTS BackupJobs (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    CenterId INTEGER NOT NULL,
    ServerId INTEGER NOT NULL,
    Name TEXT NOT NULL,
    FullScheduleId INTEGER NOT NULL DEFAULT 0,
    IncrementScheduleId INTEGER NOT NULL DEFAULT 0,
    CreatedAt DATETIME NOT NULL,
    UNIQUE (CenterId, Name),
    FOREIGN KEY (CenterId) REFERENCES Centers(Id) ON DELETE CASCADE,
    FOREIGN KEY (ServerId) REFERENCES Servers(Id) ON DELETE CASCADE
);`

const jobRequestsTable = `
CREATE TABLE IF NOT EXISTS JobInteractiveRequests (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    CorrelationId INTEGER NOT NULL UNIQUE,
    OwnerUserId INTEGER NOT NULL,
    CenterId INTEGER NOT NULL,
    SystemName TEXT NOT NULL DEFAULT '',
    JobType INTEGER NOT NULL,
    JobStatus INTEGER NOT NULL,
    Payload TEXT NOT NULL DEFAULT '',
    Result TEXT NOT NULL DEFAULT '',
    Description TEXT NOT NULL DEFAULT '',
    LastUpdateTime DATETIME NOT NULL
);`

const licensesTable = `
CREATE TABLE IF NOT EXISTS Licenses (
    Id INTEGER PRIMARY KEY AUTOINCREMENT,
    CenterId INTEGER NOT NULL,
    LicenseKey TEXT NOT NULL,
    AddedBy INTEGER NOT NULL,
    CreatedAt DATETIME NOT NULL,
    UNIQUE (CenterId, LicenseKey),
    FOREIGN KEY (CenterId) REFERENCES Centers(Id) ON DELETE CASCADE
);`

// Schema возвращает операторы схемы в порядке применения.
func Schema() []string {
	return []string{
		usersTable,
		centersTable,
		serversTable,
		schedulesTable,
		schedulesByCenterIndex,
		backupJobsTable,
		jobRequestsTable,
		licensesTable,
	}
}
