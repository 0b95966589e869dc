package transcript_test

import (
	"testing"

	"github.com/kart-io/lecture-tutor/internal/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []transcript.Segment
	}{
		{
			name: "单条 cue",
			content: `WEBVTT

00:00:01.000 --> 00:00:04.000
Hello and welcome
to the lecture.
`,
			expected: []transcript.Segment{
				{Start: "00:00:01.000", End: "00:00:04.000", Text: "Hello and welcome to the lecture."},
			},
		},
		{
			name: "多条 cue 带序号",
			content: `WEBVTT

1
00:00:01.000 --> 00:00:02.500
First part.

2
00:00:02.500 --> 00:00:05.000
Second part.
`,
			expected: []transcript.Segment{
				{Start: "00:00:01.000", End: "00:00:02.500", Text: "First part."},
				{Start: "00:00:02.500", End: "00:00:05.000", Text: "Second part."},
			},
		},
		{
			name: "无文本的 cue 被丢弃",
			content: `00:00:01.000 --> 00:00:02.000

00:00:02.000 --> 00:00:03.000
Kept.
`,
			expected: []transcript.Segment{
				{Start: "00:00:02.000", End: "00:00:03.000", Text: "Kept."},
			},
		},
		{
			name: "相邻时间戳行不吞并下一条 cue",
			content: `00:00:01.000 --> 00:00:02.000
First.
00:00:02.000 --> 00:00:03.000
Second.
`,
			expected: []transcript.Segment{
				{Start: "00:00:01.000", End: "00:00:02.000", Text: "First."},
				{Start: "00:00:02.000", End: "00:00:03.000", Text: "Second."},
			},
		},
		{
			name:     "空输入",
			content:  "",
			expected: nil,
		},
		{
			name:     "无 cue 的任意文本",
			content:  "just some notes\nwithout any timestamps\n\n42\n",
			expected: nil,
		},
		{
			name:    "畸形时间戳行仍按分隔符切分",
			content: "garbage --> \nstill captured\n",
			expected: []transcript.Segment{
				{Start: "garbage", End: "", Text: "still captured"},
			},
		},
		{
			name:    "文本行两侧空白被去除",
			content: "00:00:01.000 --> 00:00:02.000\n   padded line   \n\ttabbed\t\n",
			expected: []transcript.Segment{
				{Start: "00:00:01.000", End: "00:00:02.000", Text: "padded line tabbed"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transcript.Parse(tt.content)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseOrderPreserved(t *testing.T) {
	content := `00:00:00.000 --> 00:00:01.000
a

00:00:01.000 --> 00:00:02.000
b

00:00:02.000 --> 00:00:03.000
c
`
	segments := transcript.Parse(content)
	require.Len(t, segments, 3)
	assert.Equal(t, "a", segments[0].Text)
	assert.Equal(t, "b", segments[1].Text)
	assert.Equal(t, "c", segments[2].Text)
}
