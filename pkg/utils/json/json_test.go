package json

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type streamEvent struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type chunkPayload struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	Course     string    `json:"course"`
	ChunkIndex int       `json:"chunk_index"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

func TestMarshalRoundTrip(t *testing.T) {
	in := chunkPayload{
		ID:         "c9c1f2aa",
		Content:    "向量检索基础",
		Course:     "GenAI",
		ChunkIndex: 3,
		Embedding:  []float32{0.1, 0.2, 0.3},
	}

	data, err := Marshal(in)
	require.NoError(t, err)

	var out chunkPayload
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMarshalOmitsEmptyData(t *testing.T) {
	data, err := Marshal(streamEvent{Type: "done"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"done"}`, string(data))
}

func TestUnmarshalInvalidInput(t *testing.T) {
	var out chunkPayload
	assert.Error(t, Unmarshal([]byte(`{"id":`), &out))
}

func TestNewDecoderStream(t *testing.T) {
	r := strings.NewReader(`{"type":"content","data":"hello"}{"type":"done"}`)
	dec := NewDecoder(r)

	var first, second streamEvent
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "content", first.Type)
	assert.Equal(t, "hello", first.Data)
	assert.Equal(t, "done", second.Type)
}
