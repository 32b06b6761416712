package policelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAllFields(t *testing.T) {
	t.Parallel()

	chunk := "123456789 01/02/24\n" +
		"Received 08:15 Dispatched:08:17 Arrived 08:25 Cleared:08:45\n" +
		"Type X Location: SOMEWHERE\n" +
		"Addr 123 Main St Clearance Code: RPT\n" +
		"CALL COMMENTS: foo bar"

	got := Extract(chunk)
	assert.Equal(t, Record{
		IncidentID: "123456789",
		Date:       "01/02/24",
		Received:   "08:15",
		Dispatched: "08:17",
		Arrived:    "08:25",
		Cleared:    "08:45",
		Type:       "X",
		Address:    "123 Main St",
		Comment:    "foo bar",
	}, got)
}

func TestExtractIsCaseInsensitiveForLabels(t *testing.T) {
	t.Parallel()

	chunk := "received:10:01 DISPATCHED 10:02 arrived:10:03 CLEARED:10:04\n" +
		"type: DISTURBANCE   location: HIGUERA ST\n" +
		"ADDR: 900 HIGUERA ST  clearance code: GOA\n" +
		"call comments:   loud music  "

	got := Extract(chunk)
	assert.Equal(t, "10:01", got.Received)
	assert.Equal(t, "10:02", got.Dispatched)
	assert.Equal(t, "10:03", got.Arrived)
	assert.Equal(t, "10:04", got.Cleared)
	assert.Equal(t, "DISTURBANCE", got.Type)
	assert.Equal(t, "900 HIGUERA ST", got.Address)
	assert.Equal(t, "loud music", got.Comment)
}

func TestExtractMissingFieldsAreEmpty(t *testing.T) {
	t.Parallel()

	got := Extract("nothing useful here 12345678 1/2/24")
	assert.Equal(t, Record{}, got)
}

func TestExtractIncidentIDRequiresWordBoundary(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", Extract("1234567890").IncidentID)
	assert.Equal(t, "", Extract("A123456789").IncidentID)
	assert.Equal(t, "987654321", Extract("1234567890 987654321").IncidentID)
}

func TestExtractTakesFirstMatch(t *testing.T) {
	t.Parallel()

	got := Extract("10/01/26 10/02/26 Received:01:00 Received:02:00")
	assert.Equal(t, "10/01/26", got.Date)
	assert.Equal(t, "01:00", got.Received)
}

func TestExtractFieldsAreIndependent(t *testing.T) {
	t.Parallel()

	got := Extract("Type THEFT Location: X\nCALL COMMENTS: bike taken")
	assert.Equal(t, "THEFT", got.Type)
	assert.Equal(t, "bike taken", got.Comment)
	assert.Empty(t, got.Address)
	assert.Empty(t, got.IncidentID)
}

func TestDeriveGrid(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		address string
		want    string
	}{
		{"123 Main St GRID A-12", "A-12"},
		{"123 Main St", NoGrid},
		{"", NoGrid},
		{"GRID   Z-7 MARSH ST", "Z-7"},
		{"123 Main St grid A-12", NoGrid},
		{"GRID AB-12", NoGrid},
	}

	for _, tc := range testCases {
		t.Run(tc.address, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DeriveGrid(tc.address))
		})
	}
}
