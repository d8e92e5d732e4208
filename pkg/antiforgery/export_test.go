package antiforgery

import "time"

// SetNow replaces the clock of m.
func SetNow(m *Manager, now func() time.Time) {
	m.now = now
}
