package biz

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kart-io/logger"

	"github.com/kart-io/lecture-tutor/internal/pkg/textutil"
	"github.com/kart-io/lecture-tutor/internal/tutor/store"
	"github.com/kart-io/lecture-tutor/pkg/llm"
)

// 事件类型，对应 SSE 流中的 type 字段。
const (
	EventContent = "content"
	EventSources = "sources"
	EventDone    = "done"
)

// sourceExcerptLimit 来源摘录的最大字符数。
const sourceExcerptLimit = 200

// Event 表示应答流中的一个事件。
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Source 表示一条答案来源引用。
type Source struct {
	Course         string `json:"course"`
	Lecture        string `json:"lecture"`
	TimestampStart string `json:"timestamp_start"`
	TimestampEnd   string `json:"timestamp_end"`
	Text           string `json:"text"`
}

// ResponderConfig 应答器配置。
type ResponderConfig struct {
	// TopK 检索返回的块数量。
	TopK int
	// Collection 集合名称。
	Collection string
}

// Responder 负责问题分类与检索增强应答。
type Responder struct {
	store         store.VectorStore
	embedProvider llm.EmbeddingProvider
	chatProvider  llm.ChatProvider
	config        *ResponderConfig
}

// NewResponder 创建应答器实例。
func NewResponder(store store.VectorStore, embedProvider llm.EmbeddingProvider, chatProvider llm.ChatProvider, config *ResponderConfig) *Responder {
	return &Responder{
		store:         store,
		embedProvider: embedProvider,
		chatProvider:  chatProvider,
		config:        config,
	}
}

// Answer 处理一个问题，返回事件流。
// 寒暄类问题直接返回固定应答，其余问题走检索增强生成。
// 返回 error 表示流开始前的失败（检索或嵌入出错），
// 流开始后的模型错误通过提前关闭通道且不发送 done 事件体现。
func (r *Responder) Answer(ctx context.Context, question string) (<-chan Event, error) {
	if kind, ok := Classify(question); ok {
		logger.Infof("Casual question classified as %s", kind)
		return r.answerCasual(ctx, kind), nil
	}

	// 1. 检索上下文
	embedding, err := r.embedProvider.EmbedSingle(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := r.store.Search(ctx, r.config.Collection, embedding, r.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("failed to search collection: %w", err)
	}
	logger.Infof("Retrieved %d chunks for question", len(results))

	// 2. 组装上下文与来源引用
	contextStr := buildContext(results)
	sources := buildSources(results)

	// 3. 流式生成答案
	events := make(chan Event)
	go r.generate(ctx, question, contextStr, sources, events)

	return events, nil
}

// answerCasual 将固定应答逐字符作为 content 事件发送。
func (r *Responder) answerCasual(ctx context.Context, kind CasualKind) <-chan Event {
	events := make(chan Event)
	go func() {
		defer close(events)
		for _, ch := range CasualResponse(kind) {
			select {
			case events <- Event{Type: EventContent, Data: string(ch)}:
			case <-ctx.Done():
				return
			}
		}
		select {
		case events <- Event{Type: EventDone}:
		case <-ctx.Done():
		}
	}()
	return events
}

// generate 调用模型流式生成答案并依次发送 content、sources、done 事件。
// 模型调用失败时记录日志并直接关闭通道，不发送 done。
func (r *Responder) generate(ctx context.Context, question, contextStr string, sources []Source, events chan<- Event) {
	defer close(events)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Context:\n%s\n\nQuestion: %s", contextStr, question)},
	}

	var fullAnswer strings.Builder
	err := r.chatProvider.ChatStream(ctx, messages, func(delta string) error {
		fullAnswer.WriteString(delta)
		select {
		case events <- Event{Type: EventContent, Data: delta}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	if err != nil {
		logger.Errorf("LLM streaming failed: %v", err)
		return
	}
	logger.Debugf("LLM answer generated (length: %d)", fullAnswer.Len())

	for _, ev := range []Event{
		{Type: EventContent, Data: closingNote},
		{Type: EventSources, Data: sources},
		{Type: EventDone},
	} {
		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}

// buildContext 将检索结果拼装为模型上下文。
func buildContext(results []*store.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[ID: %s] %s", r.ID, r.Content)
	}
	return strings.Join(parts, "\n\n")
}

// buildSources 将检索结果转换为来源引用，摘录超长文本。
func buildSources(results []*store.SearchResult) []Source {
	sources := make([]Source, len(results))
	for i, r := range results {
		text := r.Content
		if utf8.RuneCountInString(text) > sourceExcerptLimit {
			text = textutil.TruncateString(text, sourceExcerptLimit) + "..."
		}
		sources[i] = Source{
			Course:         valueOrUnknown(r.Course),
			Lecture:        valueOrUnknown(r.Lecture),
			TimestampStart: valueOrDefault(r.TimestampStart, "00:00:00.000"),
			TimestampEnd:   valueOrDefault(r.TimestampEnd, "00:00:00.000"),
			Text:           text,
		}
	}
	return sources
}

func valueOrUnknown(s string) string {
	return valueOrDefault(s, "Unknown")
}

func valueOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
