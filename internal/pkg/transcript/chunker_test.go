package transcript_test

import (
	"strings"
	"testing"

	"github.com/kart-io/lecture-tutor/internal/pkg/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(start, end, text string) transcript.Segment {
	return transcript.Segment{Start: start, End: end, Text: text}
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name      string
		segments  []transcript.Segment
		threshold int
		expected  []transcript.Chunk
	}{
		{
			name:      "空输入",
			segments:  nil,
			threshold: 1000,
			expected:  nil,
		},
		{
			name: "全部装入单个块",
			segments: []transcript.Segment{
				seg("00:00:00", "00:00:01", "hello"),
				seg("00:00:01", "00:00:02", "world"),
			},
			threshold: 1000,
			expected: []transcript.Chunk{
				{Text: "hello world", Start: "00:00:00", End: "00:00:02"},
			},
		},
		{
			name: "恰好等于阈值不切分",
			segments: []transcript.Segment{
				seg("a", "b", strings.Repeat("x", 6)),
				seg("b", "c", strings.Repeat("y", 4)),
			},
			threshold: 10,
			expected: []transcript.Chunk{
				{Text: strings.Repeat("x", 6) + " " + strings.Repeat("y", 4), Start: "a", End: "c"},
			},
		},
		{
			name: "超过阈值即切分",
			segments: []transcript.Segment{
				seg("a", "b", strings.Repeat("x", 6)),
				seg("b", "c", strings.Repeat("y", 5)),
			},
			threshold: 10,
			expected: []transcript.Chunk{
				{Text: strings.Repeat("x", 6), Start: "a", End: "b"},
				{Text: strings.Repeat("y", 5), Start: "b", End: "c"},
			},
		},
		{
			name: "单段超长仍单独成块",
			segments: []transcript.Segment{
				seg("a", "b", strings.Repeat("z", 50)),
			},
			threshold: 10,
			expected: []transcript.Chunk{
				{Text: strings.Repeat("z", 50), Start: "a", End: "b"},
			},
		},
		{
			name: "超长段落前后正常切分",
			segments: []transcript.Segment{
				seg("t1", "t2", "short"),
				seg("t2", "t3", strings.Repeat("z", 50)),
				seg("t3", "t4", "tail"),
			},
			threshold: 10,
			expected: []transcript.Chunk{
				{Text: "short", Start: "t1", End: "t2"},
				{Text: strings.Repeat("z", 50), Start: "t2", End: "t3"},
				{Text: "tail", Start: "t3", End: "t4"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transcript.Assemble(tt.segments, tt.threshold)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// 块文本按顺序拼接后应与原始片段文本一致, 不丢字不重复.
func TestAssembleReconstruction(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00", "00:01:00", strings.Repeat("a", 180)),
		seg("00:01:00", "00:02:00", strings.Repeat("b", 150)),
		seg("00:02:00", "00:03:00", strings.Repeat("c", 120)),
	}
	chunks := transcript.Assemble(segments, 1000)
	require.Len(t, chunks, 1)

	var joined []string
	for _, c := range chunks {
		joined = append(joined, c.Text)
	}
	var original []string
	for _, s := range segments {
		original = append(original, s.Text)
	}
	assert.Equal(t, strings.Join(original, " "), strings.Join(joined, " "))
}

func TestAssembleTimestampTracking(t *testing.T) {
	segments := []transcript.Segment{
		seg("00:00:00", "00:00:10", strings.Repeat("a", 400)),
		seg("00:00:10", "00:00:20", strings.Repeat("b", 400)),
		seg("00:00:20", "00:00:30", strings.Repeat("c", 400)),
	}
	chunks := transcript.Assemble(segments, 1000)
	require.Len(t, chunks, 2)

	assert.Equal(t, "00:00:00", chunks[0].Start)
	assert.Equal(t, "00:00:20", chunks[0].End)
	assert.Equal(t, "00:00:20", chunks[1].Start)
	assert.Equal(t, "00:00:30", chunks[1].End)
}
