// Package sessions implements the relational-backed session store, its
// periodic cleanup scheduler, and the callback-shaped adapter consumed by
// the host framework's session middleware.
package sessions

import (
	"encoding/json"

	"github.com/aquavo/authcore/internal/timex"
)

// Data is the session payload persisted in the sess column. MaxAge is the
// sliding window used to compute the row expiry on every Set/Touch; when
// zero, the store's default TTL applies.
type Data struct {
	Values map[string]any `json:"values,omitempty"`
	MaxAge timex.Duration `json:"maxAge,omitempty"`
}

func encodeData(d *Data) ([]byte, error) {
	if d == nil {
		d = &Data{}
	}
	return json.Marshal(d)
}

func decodeData(b []byte) (*Data, error) {
	d := &Data{}
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	return d, nil
}
