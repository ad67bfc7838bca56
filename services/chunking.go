package services

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the fixed chunk width used for ingestion.
const DefaultChunkSize = 1024

// ChunkText splits text into chunks of at most maxSize characters, breaking
// only at whitespace boundaries. Words are never split across chunks unless a
// single word exceeds maxSize, in which case it is hard-split so no chunk can
// exceed the limit. The trailing remainder becomes its own chunk.
func ChunkText(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	current := new(strings.Builder)

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, word := range words {
		// Hard-split words longer than the chunk limit, cutting only on
		// rune boundaries so multibyte text is never corrupted
		for len(word) > maxSize {
			flush()
			cut := maxSize
			for cut > 0 && !utf8.RuneStart(word[cut]) {
				cut--
			}
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(word)
			}
			chunks = append(chunks, word[:cut])
			word = word[cut:]
		}
		if len(word) == 0 {
			continue
		}

		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}

		if current.Len()+1+len(word) > maxSize {
			flush()
			current.WriteString(word)
		} else {
			current.WriteString(" ")
			current.WriteString(word)
		}
	}
	flush()

	return chunks
}
