package viewmodel

import (
	"fmt"
	"time"
)

// NotSet is rendered for timestamps the record never had.
const NotSet = "Not set"

// FormatDate renders epoch milliseconds as M/D/YYYY without zero padding.
// A zero timestamp means the field was absent on the remote record.
func FormatDate(ms int64) string {
	if ms == 0 {
		return NotSet
	}
	t := time.UnixMilli(ms).UTC()
	return fmt.Sprintf("%d/%d/%d", int(t.Month()), t.Day(), t.Year())
}
