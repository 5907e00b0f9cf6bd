package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// faultyStore wraps Memory and fails the selected operations.
type faultyStore struct {
	*Memory
	failGet bool
	failSet bool
}

var errDiskFull = errors.New("disk full")

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errDiskFull
	}

	return f.Memory.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.failSet {
		return errDiskFull
	}

	return f.Memory.Set(ctx, key, value)
}

type note struct {
	Text string `json:"text"`
}

func TestDocument_WriteThenRead(t *testing.T) {
	kv := NewMemory()
	doc := NewDocument[note](kv, "note", discardLogger())
	ctx := context.Background()

	require.NoError(t, doc.Write(ctx, note{Text: "hi"}))

	got, ok := doc.Read(ctx)
	require.True(t, ok)
	assert.Equal(t, note{Text: "hi"}, got)

	raw, err := kv.Get(ctx, "note")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"data":{"text":"hi"}}`, string(raw))
}

func TestDocument_ReadAbsentCases(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		store func(*Memory) *faultyStore
	}{
		{name: "missing key"},
		{name: "invalid json", raw: []byte("{not json")},
		{name: "unknown version", raw: []byte(`{"version":99,"data":{"text":"x"}}`)},
		{name: "wrong payload type", raw: []byte(`{"version":1,"data":[1,2]}`)},
		{
			name: "store unavailable",
			raw:  []byte(`{"version":1,"data":{"text":"x"}}`),
			store: func(m *Memory) *faultyStore {
				return &faultyStore{Memory: m, failGet: true}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := NewMemory()
			if tt.raw != nil {
				require.NoError(t, mem.Set(ctx, "note", tt.raw))
			}

			var doc *Document[note]
			if tt.store != nil {
				doc = NewDocument[note](tt.store(mem), "note", discardLogger())
			} else {
				doc = NewDocument[note](mem, "note", discardLogger())
			}

			got, ok := doc.Read(ctx)
			assert.False(t, ok)
			assert.Equal(t, note{}, got)
		})
	}
}

func TestDocument_ReadsLegacyBarePayload(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	require.NoError(t, mem.Set(ctx, "note", []byte(`{"text":"from before envelopes"}`)))

	got, ok := NewDocument[note](mem, "note", discardLogger()).Read(ctx)

	require.True(t, ok)
	assert.Equal(t, "from before envelopes", got.Text)
}

func TestDocument_SanitizerRejects(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	doc := NewDocument(mem, "note", discardLogger(), WithSanitizer(func(n note) (note, error) {
		if n.Text == "" {
			return note{}, errors.New("empty")
		}
		return n, nil
	}))

	require.NoError(t, doc.Write(ctx, note{}))

	_, ok := doc.Read(ctx)
	assert.False(t, ok)
}

func TestDocument_WriteFailurePropagates(t *testing.T) {
	kv := &faultyStore{Memory: NewMemory(), failSet: true}
	doc := NewDocument[note](kv, "note", discardLogger())

	err := doc.Write(context.Background(), note{Text: "x"})

	require.ErrorIs(t, err, errDiskFull)
	assert.Contains(t, err.Error(), "note")
}

func TestDocument_Remove(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	doc := NewDocument[note](mem, "note", discardLogger())
	require.NoError(t, mem.Set(ctx, "other", []byte("1")))
	require.NoError(t, doc.Write(ctx, note{Text: "x"}))

	require.NoError(t, doc.Remove(ctx))

	_, ok := doc.Read(ctx)
	assert.False(t, ok)

	other, err := mem.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), other)
}
