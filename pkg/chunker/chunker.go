// Package chunker splits text into fixed-size chunks with a fixed overlap
// between consecutive chunks, so no chunk is completely isolated from its
// local context.
package chunker

import "strings"

type Options struct {
	Size    int // maximum chunk length in runes
	Overlap int // runes shared between consecutive chunks
}

type TextChunk struct {
	Content string
	Index   int
	Start   int // rune offset into the source text
	End     int
}

func DefaultOptions() Options {
	return Options{
		Size:    1000,
		Overlap: 200,
	}
}

// Split cuts text into overlapping chunks. Chunks that are entirely
// whitespace are dropped. An overlap >= size would never advance, so it is
// clamped to a full step.
func Split(text string, opts Options) []TextChunk {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Overlap < 0 {
		opts.Overlap = 0
	}

	step := opts.Size - opts.Overlap
	if step <= 0 {
		step = opts.Size
	}

	runes := []rune(text)
	var chunks []TextChunk
	idx := 0

	for start := 0; start < len(runes); start += step {
		end := start + opts.Size
		if end > len(runes) {
			end = len(runes)
		}

		content := string(runes[start:end])
		if strings.TrimSpace(content) != "" {
			chunks = append(chunks, TextChunk{
				Content: content,
				Index:   idx,
				Start:   start,
				End:     end,
			})
			idx++
		}

		if end == len(runes) {
			break
		}
	}

	return chunks
}
