package services

import (
	"strings"
	"time"
)

// LocalDay computes the YYYY-MM-DD day key and HH:MM wall-clock time for
// the instant at in the given IANA zone. The day key is the natural-key
// component that makes daily submissions unique. An empty zone falls back
// to UTC; an unknown zone is a validation error.
func LocalDay(at time.Time, tz string) (dayKey, localTime string, err error) {
	loc := time.UTC
	if name := strings.TrimSpace(tz); name != "" {
		loc, err = time.LoadLocation(name)
		if err != nil {
			return "", "", NewValidationError("timezone", "unknown timezone "+name)
		}
	}
	local := at.In(loc)
	return local.Format("2006-01-02"), local.Format("15:04"), nil
}
