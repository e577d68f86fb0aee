package sink

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
)

// Entry is one record together with where it came from.
type Entry struct {
	Feed       string
	Record     reconcile.Record
	Page       int
	ReceivedAt time.Time
}

// keyFields are tried in order when deriving a record key.
var keyFields = []string{"order_id", "id"}

// Key returns a stable identity for the record: its order_id, else its id,
// else the hex SHA-256 of its JSON encoding.
func (e Entry) Key() string {
	for _, f := range keyFields {
		if k := scalar(e.Record[f]); k != "" {
			return k
		}
	}
	b, _ := json.Marshal(e.Record)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Line is the JSON shape of an Entry used by line-oriented sinks.
type Line struct {
	Feed       string           `json:"feed"`
	Key        string           `json:"key"`
	Page       int              `json:"page"`
	ReceivedAt time.Time        `json:"received_at"`
	Record     reconcile.Record `json:"record"`
}

// Line converts the entry into its serialisable form.
func (e Entry) Line() Line {
	return Line{
		Feed:       e.Feed,
		Key:        e.Key(),
		Page:       e.Page,
		ReceivedAt: e.ReceivedAt.UTC(),
		Record:     e.Record,
	}
}

// RecordJSON encodes only the record.
func (e Entry) RecordJSON() ([]byte, error) {
	return json.Marshal(e.Record)
}

func scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool, float64, int, int64:
		return fmt.Sprint(t)
	default:
		return ""
	}
}
