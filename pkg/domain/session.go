package domain

import "time"

// MaxPending is the number of list texts a compare session accumulates before comparing.
const MaxPending = 2

// Session is the per-user record owned by the router.
// The transformation engine never sees it; the router hands it the relevant texts explicitly.
type Session struct {
	// ID identifies the session, usually the chat or user identifier of the platform.
	ID string `json:"id"`

	// Mode is the transformation applied to the next text.
	Mode Mode `json:"mode"`

	// Pending holds the list texts received so far in compare mode (at most MaxPending).
	Pending []string `json:"pending,omitempty"`

	// UpdatedAt records the last time the router changed the session.
	UpdatedAt time.Time `json:"updated_at"`

	// Sealed holds the encrypted session when the store sits behind an encryption layer.
	// Mode and Pending are empty in that case.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a clean session without a mode.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Mode:      ModeNone,
		UpdatedAt: time.Now(),
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	if s.Pending != nil {
		c.Pending = append([]string(nil), s.Pending...)
	}
	return &c
}

// SwitchMode sets the mode and drops any pending compare input.
func (s *Session) SwitchMode(m Mode) {
	s.Mode = m
	s.Pending = nil
	s.UpdatedAt = time.Now()
}

// Reset returns the session to the state of a fresh session.
func (s *Session) Reset() {
	s.SwitchMode(ModeNone)
}
