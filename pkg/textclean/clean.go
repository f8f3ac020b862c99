// Package textclean normalizes raw PDF page text extracted by the PDF
// library into compact, valid UTF-8 suitable for full-text indexing.
//
// The cleaner never fails: given arbitrary (possibly non-UTF-8) input bytes
// it always produces valid UTF-8 output, or the empty string.
package textclean

import (
	"strings"
	"unicode/utf8"
)

// replacementArtifacts are 3-byte UTF-8 sequences that are dropped (replaced
// by a single separator space) wherever they appear: the Unicode replacement
// character, zero-width space/ZWNJ/ZWJ, and the word joiner.
var replacementArtifacts = [][3]byte{
	{0xEF, 0xBF, 0xBD}, // U+FFFD REPLACEMENT CHARACTER
	{0xE2, 0x80, 0x8B}, // U+200B ZERO WIDTH SPACE
	{0xE2, 0x80, 0x8C}, // U+200C ZERO WIDTH NON-JOINER
	{0xE2, 0x80, 0x8D}, // U+200D ZERO WIDTH JOINER
	{0xE2, 0x81, 0xA0}, // U+2060 WORD JOINER
}

const (
	minCleanedBytes    = 3
	maxLeadingArtifact = 10
)

// Clean normalizes buf according to the PDF text-cleaning pipeline and
// returns the cleaned bytes, or nil. It does not mutate buf; it returns a new
// slice (the extraction pipeline always treats the result as the page's
// persisted text, so aliasing buf would be a correctness hazard once the
// caller reuses its read buffer across pages).
func Clean(buf []byte, removeURLs bool) []byte {
	s := string(buf)

	s = trimLeadingArtifact(s)
	s = scanAndFilter(s, removeURLs)

	// Classification relies on the line structure as extracted from the
	// page (one reference/index entry per line); it must run before
	// whitespace normalization collapses single newlines into spaces.
	s = StripReferenceAndIndexPages(s)

	s = collapseDashRuns(s)
	s = normalizeWhitespace(s)
	s = dropLonePunctuation(s)
	s = trimTrailingArtifact(s)

	if len(s) < minCleanedBytes {
		return nil
	}

	return []byte(s)
}

// trimLeadingArtifact skips up to 10 leading characters if they are all
// digits or whitespace (a page-number artifact left by the PDF renderer),
// then skips any leading run of '-' or '.'.
func trimLeadingArtifact(s string) string {
	i := 0
	count := 0

	for count < maxLeadingArtifact && i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !isASCIIDigit(r) && !isWhitespaceRune(r) {
			break
		}

		i += size
		count++
	}

	s = s[i:]

	for len(s) > 0 && (s[0] == '-' || s[0] == '.') {
		s = s[1:]
	}

	return s
}

func isASCIIDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isWhitespaceRune(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// scanAndFilter performs the byte-level UTF-8 validation, control-byte
// stripping, artifact removal, and (optional) URL removal in a single
// left-to-right pass, per spec steps 2-4.
func scanAndFilter(s string, removeURLs bool) string {
	var b strings.Builder

	b.Grow(len(s))

	i := 0
	n := len(s)

	for i < n {
		c := s[i]

		switch {
		case c < 0x80:
			if removeURLs && c == 'h' && matchesURLScheme(s, i) {
				i = skipURL(s, i)
				b.WriteByte(' ')

				continue
			}

			if c < 0x20 && c != '\t' && c != '\n' && c != '\r' {
				i++
				continue
			}

			b.WriteByte(c)
			i++

		case c&0xE0 == 0xC0: // 2-byte sequence
			if i+1 < n && isContinuation(s[i+1]) && c >= 0xC2 {
				b.WriteString(s[i : i+2])
				i += 2
			} else {
				i++
			}

		case c&0xF0 == 0xE0: // 3-byte sequence
			if i+2 < n && isContinuation(s[i+1]) && isContinuation(s[i+2]) &&
				!isOverlong3(c, s[i+1]) && !isSurrogate3(c, s[i+1]) {
				if artifact := matchArtifact3(s[i], s[i+1], s[i+2]); artifact {
					b.WriteByte(' ')
				} else {
					b.WriteString(s[i : i+3])
				}

				i += 3
			} else {
				i++
			}

		case c&0xF8 == 0xF0: // 4-byte sequence
			if c <= 0xF4 && i+3 < n && isContinuation(s[i+1]) && isContinuation(s[i+2]) && isContinuation(s[i+3]) {
				b.WriteString(s[i : i+4])
				i += 4
			} else {
				i++
			}

		default:
			// Stray continuation byte or invalid lead byte (0xF5-0xFF).
			i++
		}
	}

	return b.String()
}

func isContinuation(c byte) bool {
	return c&0xC0 == 0x80
}

// isOverlong3 rejects the E0 xx.. overlong encoding (continuation < A0).
func isOverlong3(lead, cont1 byte) bool {
	return lead == 0xE0 && cont1 < 0xA0
}

// isSurrogate3 rejects ED xx.. surrogate-pair encodings (continuation >= A0).
func isSurrogate3(lead, cont1 byte) bool {
	return lead == 0xED && cont1 >= 0xA0
}

func matchArtifact3(b0, b1, b2 byte) bool {
	for _, a := range replacementArtifacts {
		if a[0] == b0 && a[1] == b1 && a[2] == b2 {
			return true
		}
	}

	return false
}

func matchesURLScheme(s string, i int) bool {
	return strings.HasPrefix(s[i:], "http://") || strings.HasPrefix(s[i:], "https://")
}

// skipURL advances past a URL starting at i, stopping at whitespace or one
// of ')', ']', '>'. When the stop byte is one of the closing punctuation
// marks it is consumed along with the URL (treated as trailing punctuation
// wrapping the link, e.g. a markdown-style "(http://x.y)").
func skipURL(s string, i int) int {
	n := len(s)

	for i < n {
		c := s[i]
		if isWhitespaceRune(rune(c)) {
			return i
		}

		if c == ')' || c == ']' || c == '>' {
			return i + 1
		}

		i++
	}

	return i
}

// collapseDashRuns collapses runs of at least 10 '-'/'.' bytes (whitespace
// permitted between them) into a single separator space.
func collapseDashRuns(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	i := 0
	n := len(s)

	for i < n {
		c := s[i]
		if c != '-' && c != '.' {
			b.WriteByte(c)
			i++

			continue
		}

		j := i
		dashCount := 0
		lastDash := i - 1

		for j < n && (s[j] == '-' || s[j] == '.' || isWhitespaceRune(rune(s[j]))) {
			if s[j] == '-' || s[j] == '.' {
				dashCount++
				lastDash = j
			}

			j++
		}

		if dashCount >= minDashRun {
			b.WriteByte(' ')
			i = lastDash + 1
		} else {
			b.WriteByte(s[i])
			i++
		}
	}

	return b.String()
}

const minDashRun = 10

// normalizeWhitespace collapses every run of whitespace to a single space,
// except that a run containing two or more newlines collapses to exactly
// two newlines (preserving a paragraph break). A run at the very start of
// the text is dropped.
func normalizeWhitespace(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	i := 0
	n := len(s)

	for i < n {
		c := s[i]
		if !isWhitespaceRune(rune(c)) {
			b.WriteByte(c)
			i++

			continue
		}

		j := i
		newlines := 0

		for j < n && isWhitespaceRune(rune(s[j])) {
			if s[j] == '\n' {
				newlines++
			}

			j++
		}

		switch {
		case b.Len() == 0:
			// Leading whitespace emits nothing.
		case newlines >= 2:
			b.WriteString("\n\n")
		default:
			b.WriteByte(' ')
		}

		i = j
	}

	return b.String()
}

// lonePunctuation is the set of standalone punctuation marks dropped when
// surrounded by whitespace.
var lonePunctuation = map[byte]bool{'|': true, '~': true, '^': true, '`': true}

// dropLonePunctuation removes standalone |, ~, ^, ` characters that are
// surrounded by whitespace (i.e. a space, the punctuation mark, a space).
func dropLonePunctuation(s string) string {
	if len(s) < 3 {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	i := 0
	n := len(s)

	for i < n {
		if i+2 < n && s[i] == ' ' && lonePunctuation[s[i+1]] && s[i+2] == ' ' {
			b.WriteByte(' ')
			i += 3 // drop "space mark space", replacing it with the one space just written

			continue
		}

		b.WriteByte(s[i])
		i++
	}

	return b.String()
}

// trimTrailingArtifact strips trailing whitespace and any trailing run of
// '-'/'.' bytes.
func trimTrailingArtifact(s string) string {
	s = strings.TrimRight(s, " \t\r\n\v\f")
	s = strings.TrimRight(s, "-.")
	s = strings.TrimRight(s, " \t\r\n\v\f")

	return s
}
