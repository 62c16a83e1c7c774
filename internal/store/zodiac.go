package store

import (
	"fmt"
	"time"
)

// Day of the month on which each month's second sign begins, with the sign
// before and from that day.
var zodiacTable = [12]struct {
	cutoff        int
	before, after string
}{
	time.January - 1:   {20, "Capricorn", "Aquarius"},
	time.February - 1:  {19, "Aquarius", "Pisces"},
	time.March - 1:     {21, "Pisces", "Aries"},
	time.April - 1:     {20, "Aries", "Taurus"},
	time.May - 1:       {21, "Taurus", "Gemini"},
	time.June - 1:      {21, "Gemini", "Cancer"},
	time.July - 1:      {23, "Cancer", "Leo"},
	time.August - 1:    {23, "Leo", "Virgo"},
	time.September - 1: {23, "Virgo", "Libra"},
	time.October - 1:   {23, "Libra", "Scorpio"},
	time.November - 1:  {22, "Scorpio", "Sagittarius"},
	time.December - 1:  {22, "Sagittarius", "Capricorn"},
}

// ZodiacSign returns the western zodiac sign for a birthday.
func ZodiacSign(month time.Month, day int) string {
	if month < time.January || month > time.December {
		return "Unknown"
	}
	e := zodiacTable[month-1]
	if day >= e.cutoff {
		return e.after
	}
	return e.before
}

// ZodiacFromDate parses a YYYY-MM-DD birth date and returns its sign.
func ZodiacFromDate(date string) (string, error) {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return "", fmt.Errorf("birth date %q: %w", date, err)
	}
	return ZodiacSign(t.Month(), t.Day()), nil
}
