package domain

import (
	"time"
)

// Consent records a user's last decision on the terms of service. Approval
// is sticky per version: a new version requires fresh consent.
type Consent struct {
	UserID          int64      `json:"user_id"`
	ApprovedVersion *string    `json:"approved_version,omitempty"`
	DeniedVersion   *string    `json:"denied_version,omitempty"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatedAt       time.Time  `json:"created_at"`
	DeniedAt        *time.Time `json:"denied_at,omitempty"`
}

// Covers reports whether the recorded approval satisfies the currently
// required version.
func (c *Consent) Covers(version string) bool {
	return c != nil && c.ApprovedVersion != nil && *c.ApprovedVersion == version
}
