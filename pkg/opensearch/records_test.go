package opensearch_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/opensearch"
	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/sink"
)

// fakeTransport records requests and answers with a fixed status.
type fakeTransport struct {
	status   int
	body     string
	err      error
	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	f.requests = append(f.requests, req)
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		f.bodies = append(f.bodies, string(b))
	}
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestRecordSink_Write(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{status: http.StatusCreated, body: `{"result":"created"}`}
	s := opensearch.NewRecordSink(tr, opensearch.Config{IndexPrefix: "SG", Refresh: "wait_for"})

	err := s.Write(context.Background(), sink.Entry{
		Feed:   "orders",
		Page:   4,
		Record: reconcile.Record{"order_id": "o-1", "amount": json.Number("100")},
	})
	require.NoError(t, err)
	require.Len(t, tr.requests, 1)

	req := tr.requests[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/sg-orders/_doc/orders:o-1", req.URL.Path)
	assert.Equal(t, "wait_for", req.URL.Query().Get("refresh"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(tr.bodies[0]), &doc))
	assert.Equal(t, "orders", doc["feed"])
	assert.Equal(t, "o-1", doc["key"])
	assert.EqualValues(t, 4, doc["page"])
	assert.Equal(t, map[string]any{"order_id": "o-1", "amount": float64(100)}, doc["record"])

	require.NoError(t, s.Close(context.Background()))
}

func TestRecordSink_Defaults(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{status: http.StatusOK, body: `{}`}
	s := opensearch.NewRecordSink(tr, opensearch.Config{Refresh: "false"})
	assert.Equal(t, "solidgate-reconciliation-alerts", s.Index("alerts"))

	require.NoError(t, s.Write(context.Background(), sink.Entry{Feed: "alerts", Record: reconcile.Record{"id": "a-1"}}))
	assert.Equal(t, "/solidgate-reconciliation-alerts/_doc/alerts:a-1", tr.requests[0].URL.Path)
	assert.Empty(t, tr.requests[0].URL.Query().Get("refresh"))
}

func TestRecordSink_ErrorStatus(t *testing.T) {
	t.Parallel()

	tr := &fakeTransport{status: http.StatusBadRequest, body: `{"error":"mapper_parsing_exception"}`}
	err := opensearch.NewRecordSink(tr, opensearch.Config{}).Write(context.Background(), sink.Entry{Feed: "orders", Record: reconcile.Record{"id": "1"}})
	assert.ErrorIs(t, err, opensearch.ErrIndexFailed)
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
	assert.Contains(t, err.Error(), "400")
}

func TestRecordSink_TransportError(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	err := opensearch.NewRecordSink(&fakeTransport{err: boom}, opensearch.Config{}).
		Write(context.Background(), sink.Entry{Feed: "orders", Record: reconcile.Record{"id": "1"}})
	assert.ErrorIs(t, err, opensearch.ErrIndexFailed)
	assert.ErrorIs(t, err, boom)
}

func TestDocumentID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "orders:o-1", opensearch.DocumentID(sink.Entry{Feed: "orders", Record: reconcile.Record{"order_id": "o-1"}}))

	sum := sha256.Sum256([]byte("a/b c"))
	assert.Equal(t, "orders:"+hex.EncodeToString(sum[:]), opensearch.DocumentID(sink.Entry{Feed: "orders", Record: reconcile.Record{"order_id": "a/b c"}}))
}

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	assert.NoError(t, opensearch.Healthcheck(&fakeTransport{status: http.StatusOK, body: `{}`})(context.Background()))
	assert.ErrorIs(t, opensearch.Healthcheck(&fakeTransport{status: http.StatusServiceUnavailable, body: `{}`})(context.Background()), opensearch.ErrHealthcheckFailed)
	assert.ErrorIs(t, opensearch.Healthcheck(&fakeTransport{err: errors.New("down")})(context.Background()), opensearch.ErrHealthcheckFailed)
}

func TestNew_NoAddresses(t *testing.T) {
	t.Parallel()

	_, err := opensearch.New(context.Background(), opensearch.Config{})
	assert.ErrorIs(t, err, opensearch.ErrConnectionFailed)
	assert.ErrorIs(t, err, opensearch.ErrNoAddresses)
}
