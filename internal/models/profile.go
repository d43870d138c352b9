// Package models defines data structures and domain types.
package models

import "time"

// Credentials are the portal login for one named profile.
// The JSON shape matches the profiles file: {"username": ..., "password": ...}.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Profile is a named set of credentials.
type Profile struct {
	Name string
	Credentials
}

// MaskedPassword returns the password replaced by asterisks of equal length.
func (p Profile) MaskedPassword() string {
	n := len([]rune(p.Password))
	out := make([]byte, n)
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}

// ProfileStatus is the outcome of the last fetch made for a profile (DB model).
type ProfileStatus struct {
	LastUpdated  time.Time
	QuotaPercent *float64
	Profile      string
	Username     string
	Status       string
	LastError    string
	TotalBytes   uint64
}
