package calendar

import (
	"sort"

	"golang.org/x/text/language"
)

// Expand returns every date in [checkIn, checkOut) in ascending order. The
// checkout day is free for the next guest, so it is never included. An empty
// or inverted range yields an empty slice rather than an error; rejecting a
// malformed range is the caller's job.
func Expand(checkIn, checkOut Date) []Date {
	if checkIn.IsZero() || checkOut.IsZero() || !checkIn.Before(checkOut) {
		return []Date{}
	}
	out := make([]Date, 0, Nights(checkIn, checkOut))
	for d := checkIn; d.Before(checkOut); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// Nights counts the nights between two dates, 0 when the range is empty or
// inverted.
func Nights(checkIn, checkOut Date) int {
	if checkIn.IsZero() || checkOut.IsZero() || !checkIn.Before(checkOut) {
		return 0
	}
	// Both ends are UTC midnights so the division is exact.
	return int(checkOut.t.Sub(checkIn.t).Hours() / 24)
}

// Range is a half-open [CheckIn, CheckOut) stay.
type Range struct {
	CheckIn  Date
	CheckOut Date
}

// Occupied expands every range and returns the sorted, de-duplicated union.
func Occupied(ranges []Range) []Date {
	seen := make(map[Date]struct{})
	out := []Date{}
	for _, r := range ranges {
		for _, d := range Expand(r.CheckIn, r.CheckOut) {
			if _, dup := seen[d]; dup {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// FormatAll renders dates with layout.
func FormatAll(dates []Date, layout string) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(layout)
	}
	return out
}

var (
	layoutTags = []language.Tag{
		language.Und, // fallback: ISO
		language.Italian,
		language.AmericanEnglish,
		language.German,
		language.French,
		language.BritishEnglish,
	}
	layoutByIndex = []string{
		ISOLayout,
		ItalianLayout,
		"01/02/2006",
		"02.01.2006",
		ItalianLayout,
		ItalianLayout,
	}
	layoutMatcher = language.NewMatcher(layoutTags)
)

// Layout picks a display layout for a BCP-47 locale ("it", "it-IT", "en-US").
// Unknown or empty locales fall back to ISO.
func Layout(locale string) string {
	if locale == "" {
		return ISOLayout
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return ISOLayout
	}
	_, idx, conf := layoutMatcher.Match(tag)
	if conf == language.No {
		return ISOLayout
	}
	return layoutByIndex[idx]
}
