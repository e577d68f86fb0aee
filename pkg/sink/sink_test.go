package sink_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/solidgate/pkg/reconcile"
	"github.com/dmitrymomot/solidgate/pkg/sink"
)

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (c *closeBuffer) Close() error {
	c.closed = true
	return nil
}

func TestJSONLines(t *testing.T) {
	t.Parallel()

	buf := &closeBuffer{}
	s := sink.NewJSONLines(buf)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, sink.Entry{Feed: "orders", Page: 1, Record: reconcile.Record{"id": "1", "note": "<b>"}}))
	require.NoError(t, s.Write(ctx, sink.Entry{Feed: "orders", Page: 1, Record: reconcile.Record{"id": "2"}}))
	require.NoError(t, s.Close(ctx))
	assert.True(t, buf.closed)

	var lines []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		lines = append(lines, m)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0]["key"])
	assert.Equal(t, "orders", lines[1]["feed"])
	assert.Contains(t, buf.String(), "<b>")

	assert.ErrorIs(t, s.Write(ctx, sink.Entry{}), sink.ErrClosed)
}

func TestMulti(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	a, b := &sink.Memory{}, &sink.Memory{}
	boom := errors.New("boom")
	failing := sink.Func(func(context.Context, sink.Entry) error { return boom })

	m := sink.Multi(a, failing, b)
	err := m.Write(ctx, sink.Entry{Feed: "alerts"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.Entries(), 1)
	assert.Len(t, b.Entries(), 1)

	require.NoError(t, m.Close(ctx))
	assert.True(t, a.Closed())
	assert.True(t, b.Closed())
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m := &sink.Memory{}
	require.NoError(t, m.Write(ctx, sink.Entry{Feed: "orders"}))

	entries := m.Entries()
	entries[0].Feed = "changed"
	assert.Equal(t, "orders", m.Entries()[0].Feed)

	require.NoError(t, m.Close(ctx))
	assert.ErrorIs(t, m.Write(ctx, sink.Entry{}), sink.ErrClosed)
}
