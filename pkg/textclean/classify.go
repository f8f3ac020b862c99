package textclean

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	minBytesForClassification = 100
	minLinesForReference      = 3
	minLinesForIndex          = 5
)

var (
	doiPattern  = regexp.MustCompile(`(?i)doi\s*:|doi\.org|10\.\d{4,9}/`)
	yearPattern = regexp.MustCompile(`\(\d{4}\)|\b(19|20)\d{2}\.`)
)

// pageKind identifies the heuristic classification of a cleaned page.
type pageKind int

const (
	pageKindBody pageKind = iota
	pageKindReference
	pageKindIndex
)

// StripReferenceAndIndexPages zeroes the text of a cleaned page if it is
// classified as a bibliography/reference list or a back-of-book index,
// per the heuristics in the text-cleaning specification. Pages shorter
// than 100 bytes are never evaluated (too little signal) and returned
// unchanged.
func StripReferenceAndIndexPages(cleaned string) string {
	if len(cleaned) < minBytesForClassification {
		return cleaned
	}

	if classifyPage(cleaned) != pageKindBody {
		return ""
	}

	return cleaned
}

type lineStats struct {
	startsUpper bool
	hasDigit    bool
	indented    bool
	isURL       bool
	isDOI       bool
	isEtAl      bool
	hasYear     bool
	shortLine40 bool
	shortLine20 bool
}

func analyzeLine(line string) lineStats {
	trimmed := strings.TrimLeft(line, " ")

	var st lineStats

	st.indented = len(trimmed) < len(line)

	runeCount := len([]rune(trimmed))
	st.shortLine40 = runeCount < 40
	st.shortLine20 = runeCount < 20

	if r := firstRune(trimmed); r != 0 {
		st.startsUpper = unicode.IsUpper(r)
	}

	for _, r := range trimmed {
		if unicode.IsDigit(r) {
			st.hasDigit = true
			break
		}
	}

	lower := strings.ToLower(line)
	st.isURL = strings.Contains(lower, "http://") || strings.Contains(lower, "https://") || strings.Contains(lower, "www.")
	st.isDOI = doiPattern.MatchString(lower)
	st.isEtAl = strings.Contains(lower, "et al.")
	st.hasYear = yearPattern.MatchString(line)

	return st
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}

	return 0
}

// classifyPage evaluates the line-level heuristics from the specification
// and returns the page's classification. A hard signal (a recognized
// section header as the first line) classifies immediately; otherwise two
// or more soft signals within the same category (reference or index) are
// required.
func classifyPage(cleaned string) pageKind {
	rawLines := strings.Split(cleaned, "\n")

	var lines []string

	for _, l := range rawLines {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	total := len(lines)
	if total == 0 {
		return pageKindBody
	}

	if kind := hardSignal(lines[0]); kind != pageKindBody {
		return kind
	}

	stats := make([]lineStats, len(lines))
	for i, l := range lines {
		stats[i] = analyzeLine(l)
	}

	if total >= minLinesForReference && countSoftReferenceSignals(stats, total) >= 2 {
		return pageKindReference
	}

	if total >= minLinesForIndex && countSoftIndexSignals(stats, total) >= 2 {
		return pageKindIndex
	}

	return pageKindBody
}

func hardSignal(firstLine string) pageKind {
	switch strings.TrimSpace(firstLine) {
	case "References", "REFERENCES", "Bibliography", "BIBLIOGRAPHY":
		return pageKindReference
	case "Index", "INDEX":
		return pageKindIndex
	default:
		return pageKindBody
	}
}

func countSoftReferenceSignals(stats []lineStats, total int) int {
	var urlCount, doiCount, etAlCount, yearCount int

	for _, s := range stats {
		if s.isURL {
			urlCount++
		}

		if s.isDOI {
			doiCount++
		}

		if s.isEtAl {
			etAlCount++
		}

		if s.hasYear {
			yearCount++
		}
	}

	n := float64(total)

	signals := 0

	if float64(urlCount)/n > 0.30 {
		signals++
	}

	if float64(doiCount)/n > 0.20 {
		signals++
	}

	if float64(etAlCount)/n > 0.20 {
		signals++
	}

	if float64(yearCount)/n > 0.40 {
		signals++
	}

	return signals
}

func countSoftIndexSignals(stats []lineStats, total int) int {
	var short40, short20, capStart, hasDigit, indented int

	for _, s := range stats {
		if s.shortLine40 {
			short40++
		}

		if s.shortLine20 {
			short20++
		}

		if s.startsUpper {
			capStart++
		}

		if s.hasDigit {
			hasDigit++
		}

		if s.indented {
			indented++
		}
	}

	n := float64(total)
	signals := 0

	// Signal A: short (<40) lines, mostly capitalized, mostly containing digits.
	if float64(short40)/n > 0.70 && float64(capStart)/n > 0.60 && float64(hasDigit)/n > 0.50 {
		signals++
	}

	// Signal B: very short (<20) lines, strongly capitalized, often containing digits.
	if float64(short20)/n > 0.50 && float64(capStart)/n > 0.70 && float64(hasDigit)/n > 0.40 {
		signals++
	}

	// Signal C: heavily indented, digit-heavy, capital-heavy (page-number columns).
	if float64(indented)/n > 0.20 && float64(hasDigit)/n > 0.50 && float64(capStart)/n > 0.50 {
		signals++
	}

	return signals
}
