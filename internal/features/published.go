package features

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	daysAgoPattern     = regexp.MustCompile(`(\d+)\s+(?:дн|день|сут)`)
	weeksAgoPattern    = regexp.MustCompile(`(\d+)\s+недел`)
	hoursAgoPattern    = regexp.MustCompile(`\d+\s+(?:час|минут|секунд)`)
	numericDatePattern = regexp.MustCompile(`(\d{1,2})\.(\d{1,2})\.(\d{4})`)
	wordDatePattern    = regexp.MustCompile(`(\d{1,2})\s+(\p{L}+)(?:\s+(\d{4}))?`)
)

// month stems in genitive and nominative forms
var monthStems = []struct {
	stem  string
	month time.Month
}{
	{"январ", time.January},
	{"феврал", time.February},
	{"март", time.March},
	{"апрел", time.April},
	{"мая", time.May},
	{"май", time.May},
	{"июн", time.June},
	{"июл", time.July},
	{"август", time.August},
	{"сентябр", time.September},
	{"октябр", time.October},
	{"ноябр", time.November},
	{"декабр", time.December},
}

// ParsePublished turns publication text into a calendar date in the location
// of scrapedAt. It understands "сегодня", "вчера", "N дней назад",
// dd.mm.yyyy and "12 марта [2025]". A date written without a year that would
// fall after the scrape date is taken from the previous year.
func ParsePublished(text string, scrapedAt time.Time) (time.Time, bool) {
	t := Normalize(strings.TrimSpace(text))
	if t == "" {
		return time.Time{}, false
	}
	today := dateOf(scrapedAt)

	switch {
	case strings.Contains(t, "сегодня") || strings.Contains(t, "today"):
		return today, true
	case strings.Contains(t, "вчера") || strings.Contains(t, "yesterday"):
		return today.AddDate(0, 0, -1), true
	}
	if m := daysAgoPattern.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, 0, -n), true
	}
	if m := weeksAgoPattern.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		return today.AddDate(0, 0, -7*n), true
	}
	if hoursAgoPattern.MatchString(t) {
		return today, true
	}
	if m := numericDatePattern.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return makeDate(year, time.Month(month), day, today.Location())
	}
	for _, m := range wordDatePattern.FindAllStringSubmatch(t, -1) {
		month, ok := monthFromWord(m[2])
		if !ok {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		year := today.Year()
		explicitYear := m[3] != ""
		if explicitYear {
			year, _ = strconv.Atoi(m[3])
		}
		d, ok := makeDate(year, month, day, today.Location())
		if !ok {
			return time.Time{}, false
		}
		if !explicitYear && d.After(today) {
			d = d.AddDate(-1, 0, 0)
		}
		return d, true
	}
	return time.Time{}, false
}

func monthFromWord(w string) (time.Month, bool) {
	for _, ms := range monthStems {
		if strings.HasPrefix(w, ms.stem) {
			return ms.month, true
		}
	}
	return 0, false
}

// makeDate rejects dates that time.Date would silently normalize, such as 31.02.
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Day() != day || d.Month() != month {
		return time.Time{}, false
	}
	return d, true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// weekdayMondayZero numbers days from Monday = 0 to Sunday = 6.
func weekdayMondayZero(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
