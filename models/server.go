package models

import "time"

// Server is a protected machine registered under a center.
type Server struct {
	Id int64 `json:"id" db:"Id"`
	CenterEntity
	Name      string    `json:"name" db:"Name"`
	OS        ServerOS  `json:"os" db:"OS"`
	IPAddress string    `json:"ipAddress" db:"IPAddress"`
	CreatedAt time.Time `json:"createdAt" db:"CreatedAt"`
}
