package webhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"
)

// Event is one verified callback.
type Event struct {
	Merchant   string
	Path       string // request path, which tells callback types apart
	Body       []byte
	ReceivedAt time.Time
}

// Decode unmarshals the body into v. Numbers decode as json.Number when v
// holds interface values.
func (e Event) Decode(v any) error {
	dec := json.NewDecoder(bytes.NewReader(e.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrInvalidPayload, err)
	}
	return nil
}

// Fields decodes the body as a JSON object.
func (e Event) Fields() (map[string]any, error) {
	var m map[string]any
	if err := e.Decode(&m); err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.Join(ErrInvalidPayload, errors.New("body is not an object"))
	}
	return m, nil
}
