package models

import "database/sql"

// Session is a persisted web session row. Payload is the serialized session
// data; ExpiresAt may be NULL after a once-bad write, in which case the
// store rehydrates it instead of failing the read.
type Session struct {
	ID        string
	Payload   []byte
	ExpiresAt sql.NullTime
}
