package taskstore

import "time"

// DateFormat is the canonical calendar-date key: YYYY-MM-DD.
const DateFormat = "2006-01-02"

// resolveDate maps an arbitrary, possibly-invalid date string to a canonical
// key. Empty or unparsable input resolves to the given "now"; it never
// fails.
func resolveDate(input string, now time.Time) string {
	if input != "" {
		if t, err := time.Parse(DateFormat, input); err == nil {
			return t.Format(DateFormat)
		}
	}
	return now.Format(DateFormat)
}

// ResolveDate canonicalizes a date string against the wall clock. Exposed
// for the CLI, which accepts the same loose date input as the store.
func ResolveDate(input string) string {
	return resolveDate(input, time.Now())
}

// PrevDay and NextDay step a canonical date by one calendar day. Exported
// for the surfaces that phrase operations as "yesterday" and "tomorrow".
func PrevDay(date string) string {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, -1).Format(DateFormat)
}

func NextDay(date string) string {
	t, err := time.Parse(DateFormat, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, 1).Format(DateFormat)
}
