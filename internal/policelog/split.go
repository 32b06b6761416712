package policelog

import "regexp"

// boundary matches a line break followed by two or more dashes. In practice
// the only dash runs that survive Filter are BoundaryMarker lines.
var boundary = regexp.MustCompile(`\n-{2,}`)

// Split cuts filtered text into incident chunks. It always returns at least
// one chunk; chunks may be empty.
func Split(filtered string) []string {
	return boundary.Split(filtered, -1)
}
