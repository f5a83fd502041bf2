package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skillra/hh-harvester/internal/types"
)

func TestParseEducation(t *testing.T) {
	e := ParseEducation("Высшее техническое образование, желательно математика", true)
	assert.Equal(t, boolPtr(true), e.Required)
	assert.Equal(t, strPtr(EduAnyHigher), e.Level)
	assert.Equal(t, boolPtr(true), e.Technical)
	assert.Equal(t, boolPtr(true), e.MathOrCS)

	e = ParseEducation("Неполное высшее образование", true)
	assert.Equal(t, strPtr(EduPartialHigher), e.Level)

	e = ParseEducation("Степень магистра приветствуется, образование", true)
	assert.Equal(t, strPtr(EduMaster), e.Level)

	e = ParseEducation("Образование не важно", true)
	assert.Equal(t, boolPtr(false), e.Required)
	assert.Equal(t, strPtr(EduNone), e.Level)

	e = ParseEducation("Пишем микросервисы", true)
	assert.Nil(t, e.Required)
	assert.Nil(t, e.Level)
	assert.Equal(t, boolPtr(false), e.Technical)

	assert.Equal(t, Education{}, ParseEducation("", false))
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		present   bool
		required  *bool
		level     string
		otherLang int
	}{
		{"upper intermediate", "English Upper-Intermediate", true, boolPtr(true), EnglishUpperIntermediate, 0},
		{"documentation reading", "Английский: чтение технической документации", true, boolPtr(true), EnglishBasic, 0},
		{"fluent", "Свободный английский", true, boolPtr(true), EnglishAdvanced, 0},
		{"no level", "Английский язык", true, boolPtr(true), types.Unknown, 0},
		{"not mentioned", "Немецкий и французский языки", true, boolPtr(false), EnglishNone, 2},
		{"absent", "", false, nil, types.Unknown, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ParseLanguage(tt.text, tt.present)
			assert.Equal(t, tt.required, l.EnglishRequired)
			assert.Equal(t, tt.level, l.EnglishLevel)
			assert.Equal(t, tt.otherLang, l.OtherCount)
		})
	}
}

func TestDetectJuniorSignals(t *testing.T) {
	s := DetectJuniorSignals("Возьмём студентов последних курсов, есть наставник", true, boolPtr(false))
	assert.Equal(t, boolPtr(false), s.IsForJuniors)
	assert.Equal(t, boolPtr(true), s.AllowsStudents)
	assert.Equal(t, boolPtr(true), s.HasMentoring)
	assert.Equal(t, boolPtr(false), s.HasTestTask)
	assert.Equal(t, boolPtr(true), s.IsJuniorFriendly)
	assert.Equal(t, boolPtr(false), s.BattleExperience)

	s = DetectJuniorSignals("Senior Go, выполнение тестового задания", true, nil)
	assert.Equal(t, boolPtr(true), s.HasTestTask)

	s = DetectJuniorSignals("Senior Go, highload", true, nil)
	assert.Equal(t, boolPtr(false), s.IsJuniorFriendly)
	assert.Equal(t, boolPtr(true), s.BattleExperience)

	s = DetectJuniorSignals("", false, boolPtr(true))
	assert.Equal(t, boolPtr(true), s.IsForJuniors)

	assert.Equal(t, JuniorSignals{}, DetectJuniorSignals("", false, nil))
}

func TestClassifyWorkFormat(t *testing.T) {
	tests := []struct {
		name       string
		raw        *string
		desc       *string
		wantFormat string
		wantRemote *bool
		wantMode   string
	}{
		{"remote or hybrid means hybrid", strPtr("Удалённо или гибрид"), nil, FormatHybrid, boolPtr(false), FormatHybrid},
		{"remote and office means hybrid", strPtr("удалённо, в офисе"), nil, FormatHybrid, boolPtr(false), FormatHybrid},
		{"remote", strPtr("удалённо"), nil, FormatRemote, boolPtr(true), FormatRemote},
		{"office", strPtr("на месте работодателя"), nil, FormatOffice, boolPtr(false), FormatOffice},
		{"field", strPtr("разъездной"), nil, FormatField, boolPtr(false), FormatField},
		{"description hybrid", nil, strPtr("Гибридный формат, 2 дня в офисе"), FormatHybrid, boolPtr(false), FormatHybrid},
		{"description office", nil, strPtr("Работа в офисе у Павелецкой"), FormatOffice, boolPtr(false), FormatOffice},
		{"unresolved", nil, strPtr("Пишем на Go"), types.Unknown, boolPtr(false), types.Unknown},
		{"absent", nil, nil, types.Unknown, nil, types.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ClassifyWorkFormat(tt.raw, tt.desc)
			assert.Equal(t, tt.wantFormat, w.Format)
			assert.Equal(t, tt.wantRemote, w.IsRemote)
			assert.Equal(t, tt.wantMode, w.Mode)
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "полная занятость", NormalizeCategory(strPtr("  Полная   занятость ")))
	assert.Equal(t, types.Unknown, NormalizeCategory(strPtr(" ")))
	assert.Equal(t, types.Unknown, NormalizeCategory(nil))
}

func TestRollups(t *testing.T) {
	assert.Equal(t, "ml", PrimaryRole(map[string]bool{"role_backend": true, "role_ml": true}))
	assert.Equal(t, "backend", PrimaryRole(map[string]bool{"role_backend": true, "role_analyst": true}))
	assert.Equal(t, DefaultRole, PrimaryRole(map[string]bool{"role_backend": false}))

	domains := []string{"telecom", "it_product"}
	assert.Equal(t, "telecom", PriorityPolicy{Order: DefaultDomainPriority}.Primary(domains))
	assert.Equal(t, "it_product", AlphabeticalPolicy{}.Primary(domains))
	assert.Equal(t, []string{"telecom", "it_product"}, domains, "policies do not reorder their input")
	assert.Equal(t, DefaultDomain, PriorityPolicy{Order: DefaultDomainPriority}.Primary(nil))
	assert.Equal(t, DefaultDomain, AlphabeticalPolicy{}.Primary(nil))
}

func TestDescribeText(t *testing.T) {
	st := DescribeText("Intro line\n\n• one\n• two\n- three\n\nlast")
	assert.Equal(t, 3, st.Bullets)
	assert.Equal(t, 3, st.Paragraphs)
	assert.Equal(t, 9, st.Words)
	assert.Equal(t, 0, DescribeText("").Paragraphs)

	assert.Equal(t, 2, countItems(strPtr("• a\n\n• b\n")))
	assert.Equal(t, 0, countItems(nil))
}

func TestDeriveEmployer(t *testing.T) {
	page := &types.EmployerFields{
		RatingText:  strPtr("4,3"),
		ReviewsText: strPtr("1 280 отзывов"),
		FullText:    strPtr("Прямой работодатель\nАккредитованная IT-компания"),
	}
	e := DeriveEmployer(page, nil)
	assert.Equal(t, floatPtr(4.3), e.Rating)
	assert.Equal(t, intPtr(1280), e.ReviewsCount)
	assert.Equal(t, boolPtr(true), e.AccreditedIT)
	assert.Equal(t, EmployerDirect, e.Type)

	e = DeriveEmployer(&types.EmployerFields{RatingText: strPtr("7.5"), TypeText: strPtr("Кадровое агентство")}, strPtr("ООО Рога"))
	assert.Nil(t, e.Rating)
	assert.Equal(t, EmployerAgency, e.Type)
	assert.Equal(t, boolPtr(false), e.AccreditedIT)

	e = DeriveEmployer(nil, nil)
	assert.Nil(t, e.AccreditedIT)
	assert.Equal(t, types.Unknown, e.Type)
}
