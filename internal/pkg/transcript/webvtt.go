// Package transcript provides parsing and chunking of timestamped lecture
// transcripts in the WebVTT subtitle format.
package transcript

import (
	"strings"
)

// timeRangeSeparator 时间戳行的分隔符，例如
// "00:01:16.720 --> 00:01:20.360"。
const timeRangeSeparator = "-->"

// Segment 表示一条字幕（cue）：一个时间区间和拼接后的文本。
type Segment struct {
	// Start 起始时间戳（原样保留的字符串）。
	Start string
	// End 结束时间戳。
	End string
	// Text 该 cue 的所有文本行，按空格拼接。
	Text string
}

// Parse extracts the ordered segment sequence from raw WebVTT content.
//
// A cue is introduced by a line containing the "-->" separator; the text lines
// that follow belong to it until the next blank line or the next separator
// line. Cues without any text line are dropped. Everything outside a cue
// (the WEBVTT header, sequence numbers, blank lines) is ignored. Parsing is
// best-effort and never fails: a line qualifies as a time-range line purely by
// containing the separator, with no strict format validation.
func Parse(content string) []Segment {
	var segments []Segment
	lines := strings.Split(content, "\n")

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])

		if !strings.Contains(line, timeRangeSeparator) {
			i++
			continue
		}

		start, end := splitTimeRange(line)

		var textLines []string
		i++
		for i < len(lines) {
			textLine := strings.TrimSpace(lines[i])
			if textLine == "" || strings.Contains(textLine, timeRangeSeparator) {
				break
			}
			textLines = append(textLines, textLine)
			i++
		}

		if len(textLines) > 0 {
			segments = append(segments, Segment{
				Start: start,
				End:   end,
				Text:  strings.Join(textLines, " "),
			})
		}
	}

	return segments
}

// splitTimeRange 将 "start --> end" 行拆成两个时间戳，两侧空白去除。
func splitTimeRange(line string) (start, end string) {
	parts := strings.SplitN(line, timeRangeSeparator, 2)
	start = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		end = strings.TrimSpace(parts[1])
	}
	return start, end
}
