package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Record is one element of a page's "orders" array. Numbers are kept as
// json.Number so amounts survive without float rounding.
type Record map[string]any

// Page is a validated reconciliation response.
type Page struct {
	Records          []Record
	NextPageIterator string
}

// ParsePage validates a response body. Any structural problem is reported as
// ErrMalformedResponse, which the Iterator treats as retryable.
func ParsePage(body []byte) (*Page, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: body is not an object", ErrMalformedResponse)
	}

	rawOrders, ok := top["orders"]
	if !ok {
		return nil, fmt.Errorf("%w: orders field is missing", ErrMalformedResponse)
	}
	var elems []json.RawMessage
	if !isJSONArray(rawOrders) {
		return nil, fmt.Errorf("%w: orders is not an array", ErrMalformedResponse)
	}
	if err := json.Unmarshal(rawOrders, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	records := make([]Record, 0, len(elems))
	for i, raw := range elems {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: orders[%d]: %w", ErrMalformedResponse, i, err)
		}
		records = append(records, rec)
	}

	cursor, err := nextPageIterator(top["metadata"])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return &Page{Records: records, NextPageIterator: cursor}, nil
}

func decodeRecord(raw json.RawMessage) (Record, error) {
	if t := bytes.TrimSpace(raw); len(t) == 0 || t[0] != '{' {
		return nil, errors.New("record is not an object")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// nextPageIterator tolerates a missing or null metadata block. A string
// cursor is used as is and a numeric one keeps its literal text; an empty
// result ends the feed.
func nextPageIterator(raw json.RawMessage) (string, error) {
	if isJSONNull(raw) {
		return "", nil
	}
	var meta struct {
		NextPageIterator json.RawMessage `json:"next_page_iterator"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return "", fmt.Errorf("metadata: %w", err)
	}
	if isJSONNull(meta.NextPageIterator) {
		return "", nil
	}

	dec := json.NewDecoder(bytes.NewReader(meta.NextPageIterator))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("next_page_iterator: %w", err)
	}
	switch c := v.(type) {
	case string:
		return c, nil
	case json.Number:
		return c.String(), nil
	default:
		return "", fmt.Errorf("next_page_iterator: unexpected %T", v)
	}
}

func isJSONNull(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func isJSONArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}
