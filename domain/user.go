package domain

import "strings"

// MumbleUser is the application profile owned by the backend.
type MumbleUser struct {
	ID        string
	FirstName string
	LastName  string
	UserName  string
	AvatarURL string
}

// FullName joins first and last name with a single space.
func (u MumbleUser) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
