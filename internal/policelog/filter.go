package policelog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// HeaderLines is the number of leading filtered lines that belong to the feed
// header and are dropped before splitting.
const HeaderLines = 3

// commentsMarker ends every incident in the feed. The line holding it is
// followed by a synthetic BoundaryMarker so Split can find the incident edge.
const commentsMarker = "CALL COMMENTS:"

// IsDecorative reports whether every rune in line is layout punctuation or
// whitespace. The empty line is decorative.
func IsDecorative(line string) bool {
	for _, r := range line {
		if !isDecorativeRune(r) {
			return false
		}
	}
	return true
}

func isDecorativeRune(r rune) bool {
	switch r {
	case '-', '=', '\'', ';', ',', '•', '`', '_', '"':
		return true
	}
	return unicode.IsSpace(r)
}

// BoundaryMarker returns the dash line inserted after a CALL COMMENTS line. It
// is as long as the line it follows, counted in runes.
func BoundaryMarker(line string) string {
	return strings.Repeat("-", utf8.RuneCountInString(line))
}

// FilterLines drops decorative lines and appends a BoundaryMarker after every
// line containing "CALL COMMENTS:". Kept lines are returned verbatim.
func FilterLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if IsDecorative(line) {
			continue
		}
		out = append(out, line)
		if strings.Contains(line, commentsMarker) {
			out = append(out, BoundaryMarker(line))
		}
	}
	return out
}

// Filter runs FilterLines over the raw document, drops the first HeaderLines
// lines of the result, and joins what remains with newlines.
func Filter(raw string) string {
	if raw == "" {
		return ""
	}
	lines := FilterLines(strings.Split(raw, "\n"))
	if len(lines) <= HeaderLines {
		return ""
	}
	return strings.Join(lines[HeaderLines:], "\n")
}
