package policelog

import (
	"regexp"
	"strings"
)

var (
	incidentIDPattern = regexp.MustCompile(`\b(\d{9})\b`)
	datePattern       = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{2})\b`)
	receivedPattern   = regexp.MustCompile(`(?i)Received:?[ \t]*(\d{2}:\d{2})`)
	dispatchedPattern = regexp.MustCompile(`(?i)Dispatched:?[ \t]*(\d{2}:\d{2})`)
	arrivedPattern    = regexp.MustCompile(`(?i)Arrived:?[ \t]*(\d{2}:\d{2})`)
	clearedPattern    = regexp.MustCompile(`(?i)Cleared:?[ \t]*(\d{2}:\d{2})`)
	typePattern       = regexp.MustCompile(`(?i)Type:? (.+?)\s+Location:`)
	addressPattern    = regexp.MustCompile(`(?i)Addr:? (.+?)\s+Clearance Code:`)
	commentPattern    = regexp.MustCompile(`(?is)CALL COMMENTS:? (.+)`)
	gridPattern       = regexp.MustCompile(`GRID\s+([A-Z]-\d+)`)
)

// firstGroup returns the first capture group of the leftmost match, or "".
func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// Extract reads the nine incident fields out of one chunk. Each field is
// matched independently. Grid is left empty for DeriveGrid.
func Extract(chunk string) Record {
	return Record{
		IncidentID: firstGroup(incidentIDPattern, chunk),
		Date:       firstGroup(datePattern, chunk),
		Received:   firstGroup(receivedPattern, chunk),
		Dispatched: firstGroup(dispatchedPattern, chunk),
		Arrived:    firstGroup(arrivedPattern, chunk),
		Cleared:    firstGroup(clearedPattern, chunk),
		Type:       firstGroup(typePattern, chunk),
		Address:    firstGroup(addressPattern, chunk),
		Comment:    strings.TrimSpace(firstGroup(commentPattern, chunk)),
	}
}

// DeriveGrid returns the letter-hyphen-digits token following "GRID" in an
// address, or NoGrid.
func DeriveGrid(address string) string {
	if g := firstGroup(gridPattern, address); g != "" {
		return g
	}
	return NoGrid
}
