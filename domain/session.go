package domain

import "time"

// Session combines identity-provider fields with the enriched profile.
// It is a value: enrichment produces a new Session instead of mutating one.
type Session struct {
	AccessToken string
	ExpiresAt   time.Time

	FullName  string
	UserName  string
	AvatarURL string
	FirstName string
	LastName  string
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// Enriched reports whether profile fields have been merged in.
func (s Session) Enriched() bool {
	return s.UserName != ""
}

// Expired reports whether the identity provider's expiry has passed.
// A zero expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// WithUser returns a copy of the session with the profile merged in.
func (s Session) WithUser(u MumbleUser) Session {
	s.FullName = u.FullName()
	s.UserName = u.UserName
	s.AvatarURL = u.AvatarURL
	s.FirstName = u.FirstName
	s.LastName = u.LastName
	return s
}

// Identity is the partial user record derived from the session. It stands in
// for the creator data the backend does not return for a freshly created reply.
func (s Session) Identity() MumbleUser {
	return MumbleUser{
		FirstName: s.FirstName,
		LastName:  s.LastName,
		UserName:  s.UserName,
		AvatarURL: s.AvatarURL,
	}
}

// Equal compares sessions field by field.
func (s Session) Equal(o Session) bool {
	return s.AccessToken == o.AccessToken &&
		s.ExpiresAt.Equal(o.ExpiresAt) &&
		s.FullName == o.FullName &&
		s.UserName == o.UserName &&
		s.AvatarURL == o.AvatarURL &&
		s.FirstName == o.FirstName &&
		s.LastName == o.LastName
}
