package features

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skillra/hh-harvester/internal/types"
)

// Grades.
const (
	GradeIntern = "intern"
	GradeJunior = "junior"
	GradeMiddle = "middle"
	GradeSenior = "senior"
	GradeLead   = "lead"
)

var (
	expRangePattern = regexp.MustCompile(`(\d+)\s*[-–—]\s*(\d+)`)
	expFromPattern  = regexp.MustCompile(`(?:^|[^\p{L}])(?:от|более|больше|свыше|over|from)\s*(\d+)|(\d+)\s*\+`)
	expSinglePat    = regexp.MustCompile(`(\d+)\s*(?:год|года|лет|year)`)
)

// Experience holds the parsed experience requirement.
type Experience struct {
	MinYears     *int
	MaxYears     *int
	NoExperience *bool
}

// ParseExperience reads the service's experience line ("не требуется",
// "1–3 года", "3–6 лет", "более 6 лет") and generic "N–M" and "от N" forms.
func ParseExperience(text *string) Experience {
	if text == nil {
		return Experience{}
	}
	t := Normalize(*text)
	e := Experience{NoExperience: boolPtr(false)}

	if strings.Contains(t, "не требуется") || strings.Contains(t, "без опыта") || strings.Contains(t, "no experience") {
		e.MinYears, e.MaxYears, e.NoExperience = intPtr(0), intPtr(0), boolPtr(true)
		return e
	}
	if m := expRangePattern.FindStringSubmatch(t); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		e.MinYears, e.MaxYears = intPtr(lo), intPtr(hi)
		return e
	}
	if m := expFromPattern.FindStringSubmatch(t); m != nil {
		v := m[1]
		if v == "" {
			v = m[2]
		}
		n, _ := strconv.Atoi(v)
		e.MinYears = intPtr(n)
		return e
	}
	if m := expSinglePat.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		e.MinYears = intPtr(n)
	}
	return e
}

// GradeFromExperience buckets required years into a grade: under 1 intern,
// under 3 junior, under 5 middle, under 8 senior, otherwise lead.
func GradeFromExperience(e Experience) string {
	if e.NoExperience != nil && *e.NoExperience {
		return GradeIntern
	}
	years := e.MinYears
	if years == nil {
		years = e.MaxYears
	}
	if years == nil {
		return types.Unknown
	}
	switch y := *years; {
	case y < 1:
		return GradeIntern
	case y < 3:
		return GradeJunior
	case y < 5:
		return GradeMiddle
	case y < 8:
		return GradeSenior
	default:
		return GradeLead
	}
}

type gradeRule struct {
	grade    string
	matchers []Matcher
}

// gradeRules is the tie-break table: the first grade with a matching marker wins.
var gradeRules = []gradeRule{
	{GradeIntern, []Matcher{Pattern(`\bintern(ship)?\b`), Pattern(`\btrainee\b`), ru(`стажер`), ru(`стажировк`)}},
	{GradeJunior, []Matcher{Pattern(`\bjunior\+?`), Pattern(`\bjun\b`), ru(`младш`), ru(`джун`)}},
	{GradeLead, []Matcher{
		Pattern(`\b(team|tech|technical)\s*-?\s*lead\b`), Pattern(`\blead\b`), Pattern(`\bhead\s+of\b`),
		Pattern(`\barchitect\b`), Pattern(`\bprincipal\b`),
		ru(`тим-?лид`), ru(`техлид`), ru(`архитектор`),
		ru(`ведущ\p{L}*\s+(?:[\p{L}\d+#.]+[\s-]+)?` + leadRoles),
	}},
	{GradeSenior, []Matcher{Pattern(`\bsenior\+?`), Pattern(`\bsr\.?\s`), ru(`сеньор`), ru(`синьор`), ru(`старш`)}},
	{GradeMiddle, []Matcher{Pattern(`\bmiddle\+?`), Pattern(`\bmid\b`), ru(`мидл`)}},
}

// leadRoles are the nouns that make "ведущий" a grade rather than a
// description of the company.
const leadRoles = `(?:разработчик|программист|инженер|специалист|аналитик|тестировщик|архитектор|администратор|developer|engineer)`

var leadStopPhrases = []string{"lead generation", "лидогенерац", "лид-генерац"}

func matchGrade(text string) (string, bool) {
	for _, stop := range leadStopPhrases {
		text = strings.ReplaceAll(text, stop, " ")
	}
	for _, rule := range gradeRules {
		if anyMatch(text, rule.matchers) {
			return rule.grade, true
		}
	}
	return "", false
}

// DetectGrade applies the tie-break table to the title first and then to
// title plus description. explicit is false when no marker matched; the
// grade is then middle, or unknown when both sources are absent.
func DetectGrade(title, description *string) (grade string, explicit bool) {
	if title == nil && description == nil {
		return types.Unknown, false
	}
	if title != nil {
		if g, ok := matchGrade(Normalize(*title)); ok {
			return g, true
		}
	}
	combined, _ := joinPresent(title, description)
	if g, ok := matchGrade(Normalize(combined)); ok {
		return g, true
	}
	return GradeMiddle, false
}

// FinalGrade is the explicit grade, else the experience-derived one when
// known, else middle.
func FinalGrade(grade string, explicit bool, fromExperience string) string {
	if explicit {
		return grade
	}
	if fromExperience != types.Unknown {
		return fromExperience
	}
	return GradeMiddle
}
