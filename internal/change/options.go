package change

import "github.com/dshills/shiftplan/internal/logging"

// Option configures a Manager during creation.
type Option func(*Manager)

// WithLogger sets the logger for subsumption and plan diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l.WithComponent("change")
		}
	}
}

// WithFirstSequence sets the sequence number assigned to the first scheduled
// action. Negative values are ignored.
func WithFirstSequence(seq int64) Option {
	return func(m *Manager) {
		if seq >= 0 {
			m.nextSeq = seq
		}
	}
}
