package timezone

import "time"

const DefaultTimezone = "UTC"

// fallback is used for companies without a valid timezone. Set once at
// startup, before requests are served.
var fallback = time.UTC

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// SetFallback changes the location used when a company timezone is missing
// or invalid. An invalid tz leaves the current fallback in place.
func SetFallback(tz string) bool {
	loc, err := time.LoadLocation(tz)
	if tz == "" || err != nil {
		return false
	}
	fallback = loc
	return true
}

// Location resolves a company timezone.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return fallback
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}
