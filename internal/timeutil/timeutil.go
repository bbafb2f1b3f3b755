package timeutil

import (
	"time"
)

// IST is the default society timezone (UTC+5:30).
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// SocietyLocation resolves a society's configured timezone, falling back
// to IST when the name is empty or unknown.
func SocietyLocation(name string) *time.Location {
	if name == "" {
		return IST
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return IST
	}
	return loc
}

// StartOfDay returns 00:00:00 in the given location.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// Common layouts.
const (
	DateLayout    = "2006-01-02"
	DisplayLayout = "02 Jan 2006"
)
