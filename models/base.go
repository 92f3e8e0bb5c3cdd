package models

// CenterEntity is embedded by rows that belong to one ZDM center.
type CenterEntity struct {
	CenterId int64 `json:"centerId" db:"CenterId"`
}
