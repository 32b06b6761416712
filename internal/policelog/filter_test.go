package policelog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDecorative(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		line string
		want bool
	}{
		{"empty", "", true},
		{"dashes", "--------------", true},
		{"equals", "==========", true},
		{"whitespace", " \t \r", true},
		{"bullets", "• • •", true},
		{"mixed punctuation", "_;,`'\"-=", true},
		{"letter", "a", false},
		{"dashes with text", "--- END ---", false},
		{"digits", "  123  ", false},
		{"other punctuation", "*****", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, IsDecorative(tc.line))
		})
	}
}

func TestFilterLinesDropsDecorativeAndKeepsOthersVerbatim(t *testing.T) {
	t.Parallel()

	in := []string{"=====", "  header one  ", "", "---- x ----", "\t", "last\r"}
	got := FilterLines(in)
	assert.Equal(t, []string{"  header one  ", "---- x ----", "last\r"}, got)
}

func TestFilterLinesInsertsMarkerAfterCallComments(t *testing.T) {
	t.Parallel()

	line := "CALL COMMENTS: UNIT CLEARED"
	got := FilterLines([]string{"before", line, "after"})
	require.Len(t, got, 4)
	assert.Equal(t, "before", got[0])
	assert.Equal(t, line, got[1])
	assert.Equal(t, strings.Repeat("-", len(line)), got[2])
	assert.Equal(t, "after", got[3])
}

func TestFilterLinesMarkerIsCaseSensitive(t *testing.T) {
	t.Parallel()

	got := FilterLines([]string{"call comments: lower case"})
	assert.Equal(t, []string{"call comments: lower case"}, got)
}

func TestBoundaryMarkerCountsRunes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "-----", BoundaryMarker("ábcdé"))
	assert.Equal(t, "", BoundaryMarker(""))
}

func TestFilterDropsHeaderLines(t *testing.T) {
	t.Parallel()

	raw := "h1\n----\nh2\nh3\nbody one\nbody two"
	assert.Equal(t, "body one\nbody two", Filter(raw))
}

func TestFilterEmptyAndShortInput(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Filter(""))
	assert.Equal(t, "", Filter("h1\nh2\n====\nh3\n"))
}

func TestSplitOnMarkers(t *testing.T) {
	t.Parallel()

	chunks := Split("one\nCALL COMMENTS: a\n----------\ntwo\nCALL COMMENTS: b\n--")
	require.Len(t, chunks, 3)
	assert.Equal(t, "one\nCALL COMMENTS: a", chunks[0])
	assert.Equal(t, "\ntwo\nCALL COMMENTS: b", chunks[1])
	assert.Equal(t, "", chunks[2])
}

func TestSplitSingleDashIsNotABoundary(t *testing.T) {
	t.Parallel()

	chunks := Split("one\n-two\nthree")
	assert.Equal(t, []string{"one\n-two\nthree"}, chunks)
}

func TestSplitEmpty(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{""}, Split(""))
}
