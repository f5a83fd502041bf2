package features

import (
	"regexp"
	"strconv"
	"strings"
)

// Salary is the parsed form of a salary line.
type Salary struct {
	From     *int64
	To       *int64
	Currency *string
	Gross    *bool
}

var (
	salaryNumber   = regexp.MustCompile(`\d[\d ]*\d|\d`)
	salaryFromMark = regexp.MustCompile(`(?:^|\s)от\s*\d`)
	salaryToMark   = regexp.MustCompile(`(?:^|\s)до\s*\d`)
	salaryRange    = regexp.MustCompile(`\d\s*[-–—]\s*\d`)
)

type currencyRule struct {
	code     string
	matchers []Matcher
}

// currency tokens, checked in order; BYN precedes RUB because "бел. руб." contains "руб"
var currencyRules = []currencyRule{
	{"BYN", []Matcher{Term("byn"), Term("бел. руб"), Term("бел.руб"), Pattern(`\bbr\b`)}},
	{"RUB", []Matcher{Term("₽"), Term("руб"), Pattern(`\brub\b`), Pattern(`\brur\b`)}},
	{"USD", []Matcher{Term("$"), Pattern(`\busd\b`)}},
	{"EUR", []Matcher{Term("€"), Pattern(`\beur\b`)}},
	{"KZT", []Matcher{Term("₸"), Pattern(`\bkzt\b`), Term("тенге")}},
	{"UZS", []Matcher{Pattern(`\buzs\b`), ru(`сум`)}},
	{"KGS", []Matcher{Pattern(`\bkgs\b`), ru(`сом`)}},
	{"AMD", []Matcher{Pattern(`\bamd\b`), ru(`драм`), Term("֏")}},
	{"GEL", []Matcher{Term("₾"), Pattern(`\bgel\b`), ru(`лари`)}},
	{"AZN", []Matcher{Term("₼"), Pattern(`\bazn\b`), ru(`манат`)}},
}

// DefaultRatesRUB are approximate conversion rates into roubles.
// Deployments override them through configuration.
func DefaultRatesRUB() map[string]float64 {
	return map[string]float64{
		"RUB": 1,
		"USD": 90,
		"EUR": 98,
		"KZT": 0.19,
		"BYN": 28,
		"UZS": 0.0072,
		"KGS": 1.03,
		"AMD": 0.23,
		"GEL": 33,
		"AZN": 53,
	}
}

// ParseSalary reads "от X", "до Y", "X–Y" and "от X до Y" forms with an
// optional currency token and gross/net marker. Unparseable text yields an
// empty Salary, never an error.
func ParseSalary(text string) Salary {
	var s Salary
	t := Normalize(text)
	if t == "" {
		return s
	}

	switch {
	case strings.Contains(t, "до вычета"):
		s.Gross = boolPtr(true)
	case strings.Contains(t, "на руки"), strings.Contains(t, "после вычета"):
		s.Gross = boolPtr(false)
	}

	for _, rule := range currencyRules {
		if anyMatch(t, rule.matchers) {
			code := rule.code
			s.Currency = &code
			break
		}
	}

	var numbers []int64
	for _, m := range salaryNumber.FindAllString(t, -1) {
		v, err := strconv.ParseInt(strings.ReplaceAll(m, " ", ""), 10, 64)
		if err == nil {
			numbers = append(numbers, v)
		}
	}
	if len(numbers) == 0 {
		return s
	}

	hasFrom := salaryFromMark.MatchString(t)
	hasTo := salaryToMark.MatchString(t)
	switch {
	case len(numbers) >= 2 && (hasFrom && hasTo || salaryRange.MatchString(t)):
		s.From, s.To = &numbers[0], &numbers[1]
	case hasFrom:
		s.From = &numbers[0]
	case hasTo:
		s.To = &numbers[0]
	case len(numbers) == 2:
		s.From, s.To = &numbers[0], &numbers[1]
	default:
		s.From = &numbers[0]
	}
	if s.From != nil && s.To != nil && *s.From > *s.To {
		s.From, s.To = s.To, s.From
	}
	return s
}

// Derived returns salary_mid, salary_range_width, salary_is_exact and
// salary_mid_rub. All are absent when no bound was stated; the rouble value
// is also absent for a currency without a configured rate.
func (s Salary) Derived(rates map[string]float64) (mid *float64, width *int64, exact *bool, midRUB *float64) {
	switch {
	case s.From != nil && s.To != nil:
		w := *s.To - *s.From
		mid, width, exact = floatPtr(float64(*s.From+*s.To)/2), &w, boolPtr(w == 0)
	case s.From != nil:
		mid, width, exact = floatPtr(float64(*s.From)), int64Ptr(0), boolPtr(true)
	case s.To != nil:
		mid, width, exact = floatPtr(float64(*s.To)), int64Ptr(0), boolPtr(true)
	default:
		return nil, nil, nil, nil
	}

	if s.Currency != nil {
		if rate, ok := rates[*s.Currency]; ok && rate > 0 {
			midRUB = floatPtr(*mid * rate)
		}
	}
	return mid, width, exact, midRUB
}

func anyMatch(text string, matchers []Matcher) bool {
	for _, m := range matchers {
		if m.Match(text) {
			return true
		}
	}
	return false
}

func boolPtr(b bool) *bool { return &b }

func int64Ptr(v int64) *int64 { return &v }

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }
