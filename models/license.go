package models

import "time"

// License is a license key accepted by the worker for a center.
type License struct {
	Id int64 `json:"id" db:"Id"`
	CenterEntity
	LicenseKey string    `json:"licenseKey" db:"LicenseKey"`
	AddedBy    int64     `json:"addedBy" db:"AddedBy"`
	CreatedAt  time.Time `json:"createdAt" db:"CreatedAt"`
}

// LicenseRequest is the body of POST /api/licenses and /api/licenses/verify.
type LicenseRequest struct {
	Center     string `json:"center"`
	User       string `json:"user,omitempty"`
	LicenseKey string `json:"licenseKey"`
}

// LicenseResult reports a worker-confirmed license operation.
type LicenseResult struct {
	Result        bool     `json:"result"`
	CorrelationID int64    `json:"correlationId"`
	License       *License `json:"license,omitempty"`
}
