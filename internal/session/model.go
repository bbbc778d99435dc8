package session

import "time"

// Session is the client-side login record: who is signed in and until when.
// Username and Expiry are always set or cleared together.
type Session struct {
	Username string
	Expiry   time.Time
}

func (s Session) IsZero() bool {
	return s.Username == "" && s.Expiry.IsZero()
}

// ExpiredAt reports whether the session has lapsed at the given instant.
// The zero session is not expired, it is simply absent.
func (s Session) ExpiredAt(now time.Time) bool {
	return !s.Expiry.IsZero() && now.After(s.Expiry)
}
