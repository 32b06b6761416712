// Package archive holds shared helpers for the incident row archives. Each
// backend stores one row per incident keyed by run and object key; storing a
// run replaces any rows previously written for the same object key, so a
// second run on the same day overwrites the first just as the CSV does.
package archive

import (
	"fmt"
	"regexp"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "incidents"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// TableName validates a configured table name and applies the default.
func TableName(name string) (string, error) {
	if name == "" {
		return DefaultTable, nil
	}
	if !validTableName.MatchString(name) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return name, nil
}
