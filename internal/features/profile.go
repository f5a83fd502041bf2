package features

import (
	"regexp"
	"strings"

	"github.com/skillra/hh-harvester/internal/types"
)

// Education levels.
const (
	EduPartialHigher = "partial_higher"
	EduBachelor      = "bachelor_or_higher"
	EduMaster        = "master_or_higher"
	EduAnyHigher     = "any_he"
	EduNone          = "none"
)

// Education is the education requirement read from title and description.
type Education struct {
	Required  *bool
	Level     *string
	Technical *bool
	MathOrCS  *bool
}

var (
	eduMathTerms = Terms("математ", "информат", "кибернет", "computer science")
	eduTechTerms = Terms("техническое образование", "профильное техническое", "высшее техническое", "технический вуз", "инженерное образование")
)

// ParseEducation reports whether education is required and at which level.
// Required stays absent when the text says nothing about education.
func ParseEducation(text string, present bool) Education {
	if !present {
		return Education{}
	}
	t := Normalize(text)
	var e Education

	switch {
	case strings.Contains(t, "без образования"), strings.Contains(t, "образование не важно"), strings.Contains(t, "образование не требуется"):
		e.Required = boolPtr(false)
	case strings.Contains(t, "образовани"), strings.Contains(t, "бакалавр"), strings.Contains(t, "магистр"),
		strings.Contains(t, "degree"):
		e.Required = boolPtr(true)
	}

	switch {
	case strings.Contains(t, "неполное высшее"):
		e.Level = strPtr(EduPartialHigher)
	case strings.Contains(t, "магистр"), strings.Contains(t, "master"):
		e.Level = strPtr(EduMaster)
	case strings.Contains(t, "бакалавр"), strings.Contains(t, "bachelor"):
		e.Level = strPtr(EduBachelor)
	case strings.Contains(t, "высшее"):
		e.Level = strPtr(EduAnyHigher)
	case e.Required != nil && !*e.Required:
		e.Level = strPtr(EduNone)
	}

	e.Technical = boolPtr(anyMatch(t, eduTechTerms))
	e.MathOrCS = boolPtr(anyMatch(t, eduMathTerms))
	return e
}

// English levels beyond the common types.Unknown.
const (
	EnglishNone              = "none"
	EnglishBasic             = "basic"
	EnglishIntermediate      = "intermediate"
	EnglishUpperIntermediate = "upper_intermediate"
	EnglishAdvanced          = "advanced"
)

var (
	englishMention = []Matcher{ru(`англ`), Pattern(`\benglish\b`)}
	englishLevels  = []struct {
		level    string
		matchers []Matcher
	}{
		{EnglishUpperIntermediate, []Matcher{Pattern(`upper[- ]?intermediate`), Pattern(`\bb2\b`)}},
		{EnglishAdvanced, []Matcher{Pattern(`\badvanced\b`), Pattern(`\bfluent\b`), Pattern(`\bc[12]\b`), ru(`свободн`)}},
		{EnglishIntermediate, []Matcher{Pattern(`\bintermediate\b`), Pattern(`\bb1\b`), ru(`разговорн`)}},
		{EnglishBasic, []Matcher{Pattern(`\bbasic\b`), Pattern(`\ba[12]\b`), Pattern(`\bpre-intermediate\b`), ru(`базов`), ru(`техническ\S*\s+документац`), ru(`чтени\S*\s+документац`)}},
	}
	otherLanguages = []struct {
		name     string
		matchers []Matcher
	}{
		{"german", []Matcher{ru(`немец`), Pattern(`\bgerman\b`)}},
		{"chinese", []Matcher{ru(`китай`), Pattern(`\bchinese\b`)}},
		{"french", []Matcher{ru(`француз`), Pattern(`\bfrench\b`)}},
		{"spanish", []Matcher{ru(`испан`), Pattern(`\bspanish\b`)}},
		{"italian", []Matcher{ru(`итальян`), Pattern(`\bitalian\b`)}},
	}
)

// Language is the language requirement read from title and description.
type Language struct {
	EnglishRequired *bool
	EnglishLevel    string
	OtherCount      int
}

// ParseLanguage detects English with its level and counts other languages.
// The level is "none" when English is not mentioned and unknown when it is
// mentioned without a level or the text is absent.
func ParseLanguage(text string, present bool) Language {
	if !present {
		return Language{EnglishLevel: types.Unknown}
	}
	t := Normalize(text)
	l := Language{EnglishRequired: boolPtr(false), EnglishLevel: EnglishNone}

	if anyMatch(t, englishMention) {
		l.EnglishRequired = boolPtr(true)
		l.EnglishLevel = types.Unknown
		for _, lv := range englishLevels {
			if anyMatch(t, lv.matchers) {
				l.EnglishLevel = lv.level
				break
			}
		}
	}
	for _, lang := range otherLanguages {
		if anyMatch(t, lang.matchers) {
			l.OtherCount++
		}
	}
	return l
}

// JuniorSignals are the junior-friendliness flags.
type JuniorSignals struct {
	IsForJuniors     *bool
	AllowsStudents   *bool
	HasMentoring     *bool
	HasTestTask      *bool
	IsJuniorFriendly *bool
	BattleExperience *bool
}

var (
	juniorMarkers  = []Matcher{Pattern(`\bjunior`), Pattern(`\bintern`), ru(`стаж[еи]р`), ru(`стажировк`), ru(`младш`), ru(`джун`)}
	studentMarkers = []Matcher{ru(`студент`), Term("без полного высшего"), Term("выпускник"), Pattern(`\bstudents?\b`), Pattern(`\bgraduates?\b`)}
	mentorMarkers  = []Matcher{ru(`ментор`), ru(`наставни`), Pattern(`\bmentor`)}
	testTaskMarker = []Matcher{Term("тестовое задание"), Term("тестового задания"), Term("test task"), Term("coding challenge"), Term("take-home")}
)

// DetectJuniorSignals reads junior-friendliness from title, description and
// key skills. The flags are absent when the text is absent and no
// experience line said "no experience".
func DetectJuniorSignals(text string, present bool, noExperience *bool) JuniorSignals {
	noExp := noExperience != nil && *noExperience
	if !present && !noExp {
		return JuniorSignals{}
	}
	t := Normalize(text)
	forJuniors := noExp || anyMatch(t, juniorMarkers)
	students := anyMatch(t, studentMarkers)
	mentoring := anyMatch(t, mentorMarkers)
	testTask := anyMatch(t, testTaskMarker)
	friendly := forJuniors || students || mentoring || testTask
	return JuniorSignals{
		IsForJuniors:     &forJuniors,
		AllowsStudents:   &students,
		HasMentoring:     &mentoring,
		HasTestTask:      &testTask,
		IsJuniorFriendly: &friendly,
		BattleExperience: boolPtr(!friendly),
	}
}

// Work formats.
const (
	FormatRemote = "remote"
	FormatHybrid = "hybrid"
	FormatOffice = "office"
	FormatField  = "field"
)

var (
	remoteMarkers = []Matcher{ru(`удален`), Pattern(`\bremote\b`), Term("из дома")}
	hybridMarkers = []Matcher{ru(`гибрид`), Pattern(`\bhybrid\b`)}
	officeMarkers = []Matcher{ru(`офис`), Pattern(`\boffice\b`), Term("на месте работодателя")}
	fieldMarkers  = []Matcher{ru(`разъездн`), Pattern(`\bfield\b`)}
	officeDescPat = regexp.MustCompile(`(?:^|[^\p{L}])(?:в|из)\s+офис`)
)

// WorkFormat is the resolved work arrangement.
type WorkFormat struct {
	Format   string
	IsRemote *bool
	IsHybrid *bool
	Mode     string
}

// ClassifyWorkFormat prefers the explicit "формат работы" text and falls
// back to the description. Remote together with office or hybrid in the
// explicit text means hybrid.
func ClassifyWorkFormat(raw, description *string) WorkFormat {
	w := WorkFormat{Format: types.Unknown, Mode: types.Unknown}
	if raw == nil && description == nil {
		return w
	}

	if raw != nil {
		t := Normalize(*raw)
		remote, hybrid := anyMatch(t, remoteMarkers), anyMatch(t, hybridMarkers)
		office := anyMatch(t, officeMarkers)
		switch {
		case remote && (office || hybrid), hybrid:
			w.Format = FormatHybrid
		case remote:
			w.Format = FormatRemote
		case office:
			w.Format = FormatOffice
		case anyMatch(t, fieldMarkers):
			w.Format = FormatField
		}
	}

	var desc string
	if description != nil {
		desc = Normalize(*description)
	}
	if w.Format == types.Unknown && description != nil {
		switch {
		case anyMatch(desc, hybridMarkers):
			w.Format = FormatHybrid
		case anyMatch(desc, remoteMarkers):
			w.Format = FormatRemote
		case officeDescPat.MatchString(desc):
			w.Format = FormatOffice
		case anyMatch(desc, fieldMarkers[:1]):
			w.Format = FormatField
		}
	}

	isRemote := w.Format == FormatRemote || anyMatch(desc, remoteMarkers)
	isHybrid := w.Format == FormatHybrid
	w.IsRemote, w.IsHybrid = &isRemote, &isHybrid

	switch {
	case w.Format != types.Unknown:
		w.Mode = w.Format
	case isRemote:
		w.Mode = FormatRemote
	case isHybrid:
		w.Mode = FormatHybrid
	}
	return w
}

// NormalizeCategory lower-cases and trims raw categorical text, returning
// unknown when absent or blank.
func NormalizeCategory(raw *string) string {
	if raw == nil {
		return types.Unknown
	}
	v := strings.Join(strings.Fields(Normalize(*raw)), " ")
	if v == "" {
		return types.Unknown
	}
	return v
}
