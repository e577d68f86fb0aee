package opensearch

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/solidgate/pkg/sink"
)

// RecordSink indexes each record as a document in <prefix>-<feed> with id
// <feed>:<key>. Re-indexing the same record overwrites the document.
type RecordSink struct {
	transport opensearchapi.Transport
	prefix    string
	refresh   string
}

var _ sink.Sink = (*RecordSink)(nil)

// NewRecordSink creates a sink. *opensearch.Client satisfies opensearchapi.Transport.
func NewRecordSink(transport opensearchapi.Transport, cfg Config) *RecordSink {
	prefix := cfg.IndexPrefix
	if prefix == "" {
		prefix = "solidgate-reconciliation"
	}
	return &RecordSink{transport: transport, prefix: prefix, refresh: cfg.Refresh}
}

// Index returns the index name for feed. Index names must be lowercase.
func (s *RecordSink) Index(feed string) string {
	return strings.ToLower(s.prefix + "-" + feed)
}

// DocumentID returns <feed>:<key>. Keys containing characters that are
// not path-safe are replaced by their SHA-256 so the id fits in one URL segment.
func DocumentID(e sink.Entry) string {
	key := e.Key()
	if strings.IndexFunc(key, unsafeIDRune) >= 0 {
		sum := sha256.Sum256([]byte(key))
		key = hex.EncodeToString(sum[:])
	}
	return e.Feed + ":" + key
}

func unsafeIDRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	case r == '-' || r == '_' || r == '.' || r == ':':
		return false
	default:
		return true
	}
}

func (s *RecordSink) Write(ctx context.Context, e sink.Entry) error {
	body, err := json.Marshal(e.Line())
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}

	req := opensearchapi.IndexRequest{
		Index:      s.Index(e.Feed),
		DocumentID: DocumentID(e),
		Body:       bytes.NewReader(body),
	}
	if s.refresh != "" && s.refresh != "false" {
		req.Refresh = s.refresh
	}

	res, err := req.Do(ctx, s.transport)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%w: status %d: %s", ErrIndexFailed, res.StatusCode, bytes.TrimSpace(msg))
	}
	_, _ = io.Copy(io.Discard, res.Body)
	return nil
}

// Close is a no-op; the client belongs to the caller.
func (s *RecordSink) Close(context.Context) error {
	return nil
}
