package utils

import "strings"

// SmartChunk splits text into pieces of at most size runs of bytes, preferring
// to break at the last newline before the limit, then the last space, and only
// hard-cutting when a single run contains neither. Leading whitespace carried
// over a break is trimmed from the following chunk.
func SmartChunk(text string, size int) []string {
	var chunks []string

	for len(text) > size {
		split := strings.LastIndex(text[:size], "\n")
		if split == -1 {
			split = strings.LastIndex(text[:size], " ")
		}

		if split == -1 {
			split = size
		}

		chunks = append(chunks, text[:split])
		text = strings.TrimLeft(text[split:], " \n\t")
	}

	return append(chunks, text)
}
