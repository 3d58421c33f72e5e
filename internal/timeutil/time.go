package timeutil

import "time"

const dateLayout = "2006-01-02"

var nowFunc = time.Now

// Now returns the current time. It is wrapped to simplify testing and
// keep date-stamping behaviour deterministic in tests.
func Now() time.Time {
	return nowFunc()
}

// Today returns the current date as YYYY-MM-DD, the format used for
// watch dates throughout the watchlist.
func Today() string {
	return nowFunc().Format(dateLayout)
}

// ParseDate parses a YYYY-MM-DD date string. The zero time is returned
// for empty or malformed input so that missing dates sort last.
func ParseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// SetNowFunc overrides the function used by Now. Passing nil resets it.
func SetNowFunc(fn func() time.Time) {
	if fn == nil {
		nowFunc = time.Now
		return
	}
	nowFunc = fn
}
