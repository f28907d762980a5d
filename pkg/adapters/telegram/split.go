package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is the Telegram limit for a text message.
const MaxMessageLength = 4096

// MaxCaptionLength is the Telegram limit for a photo caption.
const MaxCaptionLength = 1024

// SplitMessage cuts text into chunks of at most limit bytes, preferring line boundaries.
// Lines longer than limit are cut at rune boundaries.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if current.Len()+len(line) <= limit {
			current.WriteString(line)
			continue
		}
		flush()
		for len(line) > limit {
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		current.WriteString(line)
	}
	flush()

	// Drop the newline each chunk ended on; Telegram trims it anyway.
	for i, c := range chunks {
		if trimmed := strings.TrimSuffix(c, "\n"); trimmed != "" {
			chunks[i] = trimmed
		}
	}
	return chunks
}
