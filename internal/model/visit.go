package model

import "time"

// Visit describes a single recorded hit on a short link. RemoteAddr and
// UserAgent are carried for the visit gate; nothing in the core keys on them.
type Visit struct {
	ShortCode  string
	RemoteAddr string
	UserAgent  string
	At         time.Time
}

// Reset clears the visit so the event can be pooled and reused.
func (v *Visit) Reset() {
	*v = Visit{}
}
