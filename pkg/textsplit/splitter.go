package textsplit

import "strings"

// Split cuts a long text into windows of approximately chunkSize runes with
// an overlap between consecutive windows so context at chunk boundaries is
// not lost. Window boundaries are nudged back to the nearest whitespace
// when one is close, to avoid cutting words in half.
func Split(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize // overlap >= chunkSize makes no progress
	}

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, strings.TrimSpace(string(runes[start:])))
			break
		}

		cut := end
		// Look back a short distance for a whitespace boundary.
		for i := end; i > end-20 && i > start; i-- {
			if runes[i-1] == ' ' || runes[i-1] == '\n' {
				cut = i
				break
			}
		}

		chunk := strings.TrimSpace(string(runes[start:cut]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}
