package policelog

import "errors"

// NoGrid is the Grid value for addresses without a grid token.
const NoGrid = "N/A"

// Columns is the fixed column order of an assembled Table.
var Columns = []string{
	"IncidentID",
	"Date",
	"Received",
	"Dispatched",
	"Arrived",
	"Cleared",
	"Type",
	"Address",
	"Comment",
	"Grid",
}

// ErrGridMismatch is returned by Assemble when the grid values do not line up
// one-to-one with the records.
var ErrGridMismatch = errors.New("grid count does not match record count")

// Record is one incident row. Every field is a plain string; an empty string
// means the pattern for that field did not match.
type Record struct {
	IncidentID string `json:"incident_id"`
	Date       string `json:"date"`
	Received   string `json:"received"`
	Dispatched string `json:"dispatched"`
	Arrived    string `json:"arrived"`
	Cleared    string `json:"cleared"`
	Type       string `json:"type"`
	Address    string `json:"address"`
	Comment    string `json:"comment"`
	Grid       string `json:"grid"`
}

// Values returns the record's fields in Columns order.
func (r Record) Values() []string {
	return []string{
		r.IncidentID,
		r.Date,
		r.Received,
		r.Dispatched,
		r.Arrived,
		r.Cleared,
		r.Type,
		r.Address,
		r.Comment,
		r.Grid,
	}
}

// Table is an ordered set of incident rows, in source-document order.
type Table struct {
	Rows []Record
}

// Len reports the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}
