package transcript

// DefaultChunkSize is the default character threshold for a chunk.
const DefaultChunkSize = 1000

// Chunk 表示若干连续 Segment 合并后的文本块，保留覆盖的时间区间。
type Chunk struct {
	// Text 所含 Segment 文本的空格拼接。
	Text string
	// Start 第一个并入 Segment 的起始时间戳。
	Start string
	// End 最后一个并入 Segment 的结束时间戳。
	End string
}

// Assemble greedily packs consecutive segments into chunks of at most
// threshold characters.
//
// A chunk is flushed when appending the next segment's text would push it
// past the threshold; the comparison is strict (">" not ">="), so a chunk may
// land exactly on the threshold. The over-threshold check only fires when the
// accumulator is non-empty: a single segment larger than the threshold is
// never split and becomes its own chunk. Chunks partition the input into
// contiguous runs in original order; no segment text is lost or duplicated.
func Assemble(segments []Segment, threshold int) []Chunk {
	if threshold <= 0 {
		threshold = DefaultChunkSize
	}

	var chunks []Chunk
	var current Chunk

	for _, seg := range segments {
		if current.Text != "" && len(current.Text)+len(seg.Text) > threshold {
			chunks = append(chunks, current)
			current = Chunk{}
		}

		if current.Start == "" {
			current.Start = seg.Start
		}
		current.End = seg.End

		if current.Text == "" {
			current.Text = seg.Text
		} else {
			current.Text += " " + seg.Text
		}
	}

	if current.Text != "" {
		chunks = append(chunks, current)
	}

	return chunks
}
