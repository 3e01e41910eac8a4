package domain

import "time"

const DateLayout = "2006-01-02"

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form. Valid
// dates order correctly as plain strings.
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
