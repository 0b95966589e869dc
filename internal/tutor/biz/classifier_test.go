package biz_test

import (
	"testing"

	"github.com/kart-io/lecture-tutor/internal/tutor/biz"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		kind     biz.CasualKind
		casual   bool
	}{
		{"问候语", "Hello there!", biz.CasualGreeting, true},
		{"问候语大写", "HEY, what can you do", biz.CasualGreeting, true},
		{"问近况", "how are you doing today?", biz.CasualHowAreYou, true},
		{"问身份", "who are you exactly", biz.CasualWhoAreYou, true},
		{"致谢", "thanks a lot", biz.CasualThanks, true},
		{"道别", "bye for now", biz.CasualBye, true},
		{"确认", "okay got it", biz.CasualOK, true},
		{"首尾空白被去除", "  hi  ", biz.CasualGreeting, true},
		{"课程问题", "What is retrieval augmented generation?", "", false},
		{"问候词出现在中间不算寒暄", "Can you say hello in the lecture context?", "", false},
		{"空问题", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, casual := biz.Classify(tt.question)
			assert.Equal(t, tt.casual, casual)
			assert.Equal(t, tt.kind, kind)
		})
	}
}

// 模式顺序决定归类：hi 开头的问题即使后面还有内容也按问候处理。
func TestClassifyPrefixMatch(t *testing.T) {
	kind, casual := biz.Classify("hi, can you explain transformers?")
	assert.True(t, casual)
	assert.Equal(t, biz.CasualGreeting, kind)
}

func TestCasualResponse(t *testing.T) {
	for _, kind := range []biz.CasualKind{
		biz.CasualGreeting,
		biz.CasualHowAreYou,
		biz.CasualWhoAreYou,
		biz.CasualThanks,
		biz.CasualBye,
		biz.CasualOK,
	} {
		assert.NotEmpty(t, biz.CasualResponse(kind), "kind %s", kind)
	}
}
