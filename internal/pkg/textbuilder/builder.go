// Package textbuilder accumulates reply text while tracking its size in
// runes, so callers can stop before a platform message limit is hit.
package textbuilder

import (
	"strings"
	"unicode/utf8"
)

// Builder is a strings.Builder that knows how many runes it holds and
// how many it is allowed to hold. A zero limit means unbounded.
type Builder struct {
	sb    strings.Builder
	runes int
	limit int
}

// New returns a Builder capped at limit runes.
func New(limit int) *Builder {
	return &Builder{limit: limit}
}

// WriteString appends each part in order.
func (b *Builder) WriteString(parts ...string) {
	for _, p := range parts {
		b.sb.WriteString(p)
		b.runes += utf8.RuneCountInString(p)
	}
}

// Len returns the accumulated size in runes.
func (b *Builder) Len() int {
	return b.runes
}

// WouldExceed reports whether appending s would put the text over the cap.
func (b *Builder) WouldExceed(s string) bool {
	return b.limit > 0 && b.runes+utf8.RuneCountInString(s) > b.limit
}

// String returns the accumulated text.
func (b *Builder) String() string {
	return b.sb.String()
}

// Split cuts text into chunks of at most size runes, preferring to break
// after a newline when one exists in the back half of a chunk.
func Split(text string, size int) []string {
	if size <= 0 || utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= size {
			chunks = append(chunks, string(runes))
			break
		}
		cut := size
		for i := size - 1; i >= size/2; i-- {
			if runes[i] == '\n' {
				cut = i + 1
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	return chunks
}
