package models

import "time"

// Center is a ZDM center (site). API references accept its id or its name.
type Center struct {
	Id          int64     `json:"id" db:"Id"`
	Name        string    `json:"name" db:"Name"`
	Description string    `json:"description,omitempty" db:"Description"`
	CreatedAt   time.Time `json:"createdAt" db:"CreatedAt"`
}

// CreateCenterRequest is the body of POST /api/centers.
type CreateCenterRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
