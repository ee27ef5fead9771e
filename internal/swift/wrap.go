package swift

import "strings"

// lineWidth is the maximum length of a SWIFT free-text line. This is a
// wire-format constraint: overflow must be wrapped onto continuation
// lines, never dropped.
const lineWidth = 35

// wrapText splits free text into chunks of at most lineWidth characters.
// Embedded newlines start a new chunk. No characters are lost.
func wrapText(text string) []string {
	var chunks []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		runes := []rune(line)
		for len(runes) > lineWidth {
			chunks = append(chunks, string(runes[:lineWidth]))
			runes = runes[lineWidth:]
		}
		if len(runes) > 0 {
			chunks = append(chunks, string(runes))
		}
	}
	return chunks
}

// appendField writes a tagged field followed by continuation lines for
// any text beyond the first 35 characters.
func appendField(lines []string, tag, text string) []string {
	chunks := wrapText(text)
	if len(chunks) == 0 {
		return append(lines, ":"+tag+":")
	}
	lines = append(lines, ":"+tag+":"+chunks[0])
	return append(lines, chunks[1:]...)
}
