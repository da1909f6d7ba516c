package notepad

import (
	"strings"
	"unicode/utf8"
)

const defaultFolderEmoji = "📁"

// splitLeadingEmoji separates a leading pictographic rune sequence from the
// rest of the input. It returns the emoji (or the generic folder glyph when
// the input does not start with one) and the trimmed remainder.
func splitLeadingEmoji(input string) (emoji, rest string) {
	s := strings.TrimSpace(input)
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !isPictographic(r) {
		return defaultFolderEmoji, s
	}

	// Consume the full sequence: variation selectors, ZWJ joins, skin tones.
	end := size
	for end < len(s) {
		next, n := utf8.DecodeRuneInString(s[end:])
		if !isPictographic(next) && !isEmojiModifier(next) {
			break
		}
		end += n
	}
	return s[:end], strings.TrimSpace(s[end:])
}

func isPictographic(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols, dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and stars (⭐, ⭕)
		return true
	case r >= 0x1F900 && r <= 0x1F9FF:
		return true
	}
	return false
}

func isEmojiModifier(r rune) bool {
	switch {
	case r >= 0xFE00 && r <= 0xFE0F: // variation selectors
		return true
	case r == 0x200D: // zero-width joiner
		return true
	case r >= 0x1F3FB && r <= 0x1F3FF: // skin tone modifiers
		return true
	}
	return false
}
