package act

import "time"

// Meta identifies the administrative act (portaria, decreto, etc.) backing a
// status change. Recorded verbatim; the engine never interprets it.
type Meta struct {
	Kind   string
	Number string
	Date   time.Time
}

func (m Meta) IsZero() bool {
	return m.Kind == "" && m.Number == "" && m.Date.IsZero()
}
