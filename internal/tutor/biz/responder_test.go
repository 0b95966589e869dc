package biz_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kart-io/lecture-tutor/internal/tutor/biz"
	"github.com/kart-io/lecture-tutor/internal/tutor/store"
	"github.com/kart-io/lecture-tutor/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore 返回预设检索结果的向量存储。
type fakeStore struct {
	results   []*store.SearchResult
	searchErr error
}

func (f *fakeStore) Reset(_ context.Context, _ *store.CollectionConfig) error { return nil }

func (f *fakeStore) Insert(_ context.Context, _ string, chunks []*store.Chunk) (int64, error) {
	return int64(len(chunks)), nil
}

func (f *fakeStore) Search(_ context.Context, _ string, _ []float32, _ int) ([]*store.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeStore) GetStats(_ context.Context, _ string) (int64, error) { return 0, nil }

func (f *fakeStore) Close(_ context.Context) error { return nil }

// fakeEmbedder 返回固定向量的嵌入供应商。
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{0.1, 0.2, 0.3}
	}
	return result, nil
}

func (f *fakeEmbedder) EmbedSingle(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) Name() string { return "fake" }

// fakeChat 按脚本输出增量文本，可在中途注入错误。
type fakeChat struct {
	deltas    []string
	streamErr error
}

func (f *fakeChat) Chat(_ context.Context, _ []llm.Message) (string, error) {
	return strings.Join(f.deltas, ""), nil
}

func (f *fakeChat) ChatStream(_ context.Context, _ []llm.Message, fn llm.StreamFunc) error {
	for _, delta := range f.deltas {
		if err := fn(delta); err != nil {
			return err
		}
	}
	return f.streamErr
}

func (f *fakeChat) Generate(_ context.Context, _ string, _ string) (string, error) {
	return strings.Join(f.deltas, ""), nil
}

func (f *fakeChat) Name() string { return "fake" }

func newTestResponder(st store.VectorStore, chat llm.ChatProvider) *biz.Responder {
	return biz.NewResponder(st, &fakeEmbedder{}, chat, &biz.ResponderConfig{
		TopK:       5,
		Collection: "lecture_transcript",
	})
}

func collect(t *testing.T, events <-chan biz.Event) []biz.Event {
	t.Helper()
	var all []biz.Event
	for ev := range events {
		all = append(all, ev)
	}
	return all
}

func TestAnswerCasual(t *testing.T) {
	responder := newTestResponder(&fakeStore{}, &fakeChat{})

	events, err := responder.Answer(context.Background(), "hello")
	require.NoError(t, err)

	all := collect(t, events)
	require.NotEmpty(t, all)

	// 逐字符 content 事件，末尾是 done，没有 sources
	var answer strings.Builder
	for _, ev := range all[:len(all)-1] {
		assert.Equal(t, biz.EventContent, ev.Type)
		answer.WriteString(ev.Data.(string))
	}
	assert.Equal(t, biz.CasualResponse(biz.CasualGreeting), answer.String())
	assert.Equal(t, biz.EventDone, all[len(all)-1].Type)
}

func TestAnswerRAGFlow(t *testing.T) {
	longContent := strings.Repeat("x", 250)
	st := &fakeStore{
		results: []*store.SearchResult{
			{
				ID:             "id-1",
				Course:         "GenAI",
				Lecture:        "Intro to RAG",
				TimestampStart: "00:00:01.000",
				TimestampEnd:   "00:01:00.000",
				Content:        "Retrieval augmented generation combines search with LLMs.",
			},
			{
				ID:      "id-2",
				Content: longContent,
			},
		},
	}
	chat := &fakeChat{deltas: []string{"Good question. ", "Let's go step by step."}}
	responder := newTestResponder(st, chat)

	events, err := responder.Answer(context.Background(), "What is RAG?")
	require.NoError(t, err)

	all := collect(t, events)
	require.GreaterOrEqual(t, len(all), 5)

	// 前两个事件是模型增量
	assert.Equal(t, biz.Event{Type: biz.EventContent, Data: "Good question. "}, all[0])
	assert.Equal(t, biz.Event{Type: biz.EventContent, Data: "Let's go step by step."}, all[1])

	// 随后是结束语、来源、done
	closing := all[len(all)-3]
	assert.Equal(t, biz.EventContent, closing.Type)
	assert.Contains(t, closing.Data.(string), "Here are the references")

	sourcesEv := all[len(all)-2]
	assert.Equal(t, biz.EventSources, sourcesEv.Type)
	sources, ok := sourcesEv.Data.([]biz.Source)
	require.True(t, ok)
	require.Len(t, sources, 2)

	assert.Equal(t, "GenAI", sources[0].Course)
	assert.Equal(t, "Intro to RAG", sources[0].Lecture)
	assert.Equal(t, "00:00:01.000", sources[0].TimestampStart)

	// 缺失元数据使用默认值，超长文本被摘录
	assert.Equal(t, "Unknown", sources[1].Course)
	assert.Equal(t, "00:00:00.000", sources[1].TimestampStart)
	assert.Equal(t, strings.Repeat("x", 200)+"...", sources[1].Text)

	assert.Equal(t, biz.EventDone, all[len(all)-1].Type)
}

func TestAnswerEmbedError(t *testing.T) {
	responder := biz.NewResponder(&fakeStore{}, &fakeEmbedder{err: errors.New("boom")}, &fakeChat{}, &biz.ResponderConfig{
		TopK:       5,
		Collection: "lecture_transcript",
	})

	_, err := responder.Answer(context.Background(), "What is RAG?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed question")
}

func TestAnswerSearchError(t *testing.T) {
	st := &fakeStore{searchErr: errors.New("milvus down")}
	responder := newTestResponder(st, &fakeChat{})

	_, err := responder.Answer(context.Background(), "What is RAG?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to search collection")
}

// 模型中途失败时通道直接关闭，不发送 done 事件。
func TestAnswerStreamError(t *testing.T) {
	st := &fakeStore{results: []*store.SearchResult{{ID: "id-1", Content: "some context"}}}
	chat := &fakeChat{deltas: []string{"partial"}, streamErr: errors.New("model unavailable")}
	responder := newTestResponder(st, chat)

	events, err := responder.Answer(context.Background(), "What is RAG?")
	require.NoError(t, err)

	all := collect(t, events)
	require.Len(t, all, 1)
	assert.Equal(t, biz.Event{Type: biz.EventContent, Data: "partial"}, all[0])
}
