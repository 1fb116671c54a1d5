// Package models defines client-side data models used by the PropKeeper
// data layer.
package models

import "time"

// User is the backend-issued identity, distinct from the third-party identity
// result used to obtain it.
type User struct {
	ID              string
	Email           string
	Name            string
	ProfileImageURL string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
