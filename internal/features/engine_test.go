package features

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/types"
)

var testScrapeTime = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.FixedZone("MSK", 3*60*60))

func pythonVacancy() *types.RawVacancyFields {
	return &types.RawVacancyFields{
		ID:             1001,
		URL:            "https://hh.ru/vacancy/1001",
		Title:          strPtr("Backend-разработчик Python (Senior)"),
		Company:        strPtr("ООО Ромашка"),
		SalaryText:     strPtr("от 150 000 до 220 000 ₽ на руки"),
		AddressText:    strPtr("Москва, Тверская улица, 7, м. Охотный ряд"),
		ExperienceText: strPtr("3–6 лет"),
		EmploymentText: strPtr("Полная занятость"),
		ScheduleText:   strPtr("Полный день"),
		WorkFormatText: strPtr("удалённо"),
		DescriptionText: strPtr("Мы финтех-компания.\n\n" +
			"Обязанности:\n• Разрабатывать API на PYTHON и django\n• Писать тесты\n\n" +
			"Требования:\n• Python от 3 лет\n• PostgreSQL\n\n" +
			"Будет плюсом:\n• Docker\n\n" +
			"Условия:\n• ДМС\n• Английский язык на уровне B2"),
		KeySkills:        []string{"Python", "Django", "PostgreSQL", "Docker"},
		DutiesText:       strPtr("• Разрабатывать API на PYTHON и django\n• Писать тесты"),
		RequirementsText: strPtr("• Python от 3 лет\n• PostgreSQL"),
		NiceToHaveText:   strPtr("• Docker"),
		BenefitsText:     strPtr("• ДМС\n• Английский язык на уровне B2"),
		PublicationText:  strPtr("12 марта 2025"),
	}
}

func TestDeriveFullRecord(t *testing.T) {
	rec := Default().Derive(pythonVacancy(), testScrapeTime)

	assert.Equal(t, int64(1001), rec.VacancyID)
	assert.Equal(t, testScrapeTime, rec.ScrapedAt)

	// salary
	assert.Equal(t, int64Ptr(150000), rec.SalaryFrom)
	assert.Equal(t, int64Ptr(220000), rec.SalaryTo)
	assert.Equal(t, strPtr("RUB"), rec.Currency)
	assert.Equal(t, boolPtr(false), rec.SalaryGross)
	assert.Equal(t, floatPtr(185000), rec.SalaryMid)
	assert.Equal(t, int64Ptr(70000), rec.SalaryRangeWidth)
	assert.Equal(t, boolPtr(false), rec.SalaryIsExact)
	assert.Equal(t, floatPtr(185000), rec.SalaryMidRUB)
	assert.Nil(t, rec.SalaryBucket)

	// location
	assert.Equal(t, strPtr("Москва"), rec.City)
	assert.Equal(t, TierMoscow, rec.CityTier)
	assert.Equal(t, boolPtr(true), rec.HasMetro)
	assert.Equal(t, strPtr("Охотный ряд"), rec.MetroPrimary)
	assert.Equal(t, 1, rec.Count(CountMetro))
	assert.Equal(t, boolPtr(false), rec.AddressHasDistrict)

	// time
	require.NotNil(t, rec.PublishedAt)
	assert.Equal(t, "2025-03-12", rec.PublishedAt.Format(DateLayout))
	assert.Equal(t, intPtr(3), rec.VacancyAgeDays)
	assert.Equal(t, intPtr(2), rec.PublishedWeekday)
	assert.Equal(t, intPtr(3), rec.PublishedMonth)
	assert.Equal(t, boolPtr(false), rec.IsWeekendPost)

	// employment format
	assert.Equal(t, "полная занятость", rec.EmploymentType)
	assert.Equal(t, "полный день", rec.Schedule)
	assert.Equal(t, FormatRemote, rec.WorkFormat)
	assert.Equal(t, FormatRemote, rec.WorkMode)
	assert.Equal(t, boolPtr(true), rec.IsRemote)

	// experience and grade
	assert.Equal(t, intPtr(3), rec.ExpMinYears)
	assert.Equal(t, intPtr(6), rec.ExpMaxYears)
	assert.Equal(t, boolPtr(false), rec.ExpIsNoExperience)
	assert.Equal(t, GradeSenior, rec.Grade)
	assert.Equal(t, GradeMiddle, rec.GradeFromExperience)
	assert.Equal(t, GradeSenior, rec.GradeFinal)

	// flags in any letter case
	assert.Equal(t, boolPtr(true), rec.Flag("has_python"))
	assert.Equal(t, boolPtr(true), rec.Flag("has_django"))
	assert.Equal(t, boolPtr(false), rec.Flag("has_go"))
	assert.Equal(t, boolPtr(false), rec.Flag("has_java"))
	assert.Equal(t, boolPtr(true), rec.Flag("skill_sql"))
	assert.Equal(t, boolPtr(true), rec.Flag("role_backend"))
	assert.Equal(t, boolPtr(true), rec.Flag("benefit_dms"))
	assert.Equal(t, boolPtr(true), rec.Flag("domain_finance"))
	assert.Nil(t, rec.Flag("employer_has_remote"), "employer page was not fetched")

	assert.Equal(t, "backend", rec.PrimaryRole)
	assert.Equal(t, "finance", rec.PrimaryDomain)

	// language and junior signals
	assert.Equal(t, boolPtr(true), rec.LangEnglishRequired)
	assert.Equal(t, EnglishUpperIntermediate, rec.LangEnglishLevel)
	assert.Equal(t, boolPtr(false), rec.IsJuniorFriendly)
	assert.Equal(t, boolPtr(true), rec.BattleExperience)

	// counters
	assert.Equal(t, 3, rec.Count(CountHardStack))
	assert.Equal(t, 4, rec.Count(CountTechStack))
	assert.Equal(t, 2, rec.Count(CountCoreDataSkills))
	assert.Equal(t, 0, rec.Count(CountMLStack))
	assert.Equal(t, 4, rec.Count(CountSkills))
	assert.Equal(t, 2, rec.Count(CountRequirements))
	assert.Equal(t, 2, rec.Count(CountResponsibilities))
	assert.Equal(t, 2, rec.Count(CountMustHaveSkills))
	assert.Equal(t, 1, rec.Count(CountOptionalSkills))
	assert.Equal(t, 7, rec.Count(CountBullets))
	assert.Equal(t, strPtr("Python, Django, PostgreSQL, Docker"), rec.Skills)
}

func TestDeriveGoJavaVacancy(t *testing.T) {
	raw := &types.RawVacancyFields{
		ID:              2002,
		URL:             "https://hh.ru/vacancy/2002",
		Title:           strPtr("Java/Go developer"),
		DescriptionText: strPtr("Kafka, Kubernetes, Spark"),
	}
	rec := Default().Derive(raw, testScrapeTime)

	assert.Equal(t, boolPtr(true), rec.Flag("has_go"))
	assert.Equal(t, boolPtr(true), rec.Flag("has_java"))
	assert.Equal(t, boolPtr(false), rec.Flag("has_python"))
	assert.Equal(t, boolPtr(false), rec.Flag("has_javascript"))
	assert.Equal(t, 2, rec.Count(CountMLStack))
	assert.Equal(t, 0, rec.Count(CountSkills))
	assert.Nil(t, rec.Skills)
}

func TestDeriveNoExperience(t *testing.T) {
	t.Run("explicit title grade stands", func(t *testing.T) {
		raw := &types.RawVacancyFields{ID: 1, Title: strPtr("Senior аналитик"), ExperienceText: strPtr("не требуется")}
		rec := Default().Derive(raw, testScrapeTime)
		assert.Equal(t, boolPtr(true), rec.ExpIsNoExperience)
		assert.Equal(t, intPtr(0), rec.ExpMinYears)
		assert.Equal(t, GradeSenior, rec.Grade)
		assert.Equal(t, GradeIntern, rec.GradeFromExperience)
		assert.Equal(t, GradeSenior, rec.GradeFinal)
	})

	t.Run("default grade defers to experience", func(t *testing.T) {
		raw := &types.RawVacancyFields{ID: 2, Title: strPtr("Аналитик данных"), ExperienceText: strPtr("не требуется")}
		rec := Default().Derive(raw, testScrapeTime)
		assert.Equal(t, GradeMiddle, rec.Grade)
		assert.Equal(t, GradeIntern, rec.GradeFinal)
		assert.Equal(t, boolPtr(true), rec.IsForJuniors)
		assert.Equal(t, boolPtr(true), rec.IsJuniorFriendly)
	})
}

func TestDeriveAbsentSources(t *testing.T) {
	rec := Default().Derive(&types.RawVacancyFields{ID: 3, URL: "https://hh.ru/vacancy/3"}, testScrapeTime)

	assert.Empty(t, rec.Flags)
	assert.Nil(t, rec.Flag("has_python"))
	assert.Nil(t, rec.SalaryMid)
	assert.Nil(t, rec.SalaryRangeWidth)
	assert.Nil(t, rec.HasMetro)
	assert.Nil(t, rec.PublishedAt)
	assert.Nil(t, rec.IsJuniorFriendly)
	assert.Nil(t, rec.DescriptionLenChars)
	assert.Equal(t, types.Unknown, rec.Grade)
	assert.Equal(t, types.Unknown, rec.GradeFinal)
	assert.Equal(t, types.Unknown, rec.CityTier)
	assert.Equal(t, types.Unknown, rec.WorkMode)
	assert.Equal(t, types.Unknown, rec.EmploymentType)
	assert.Equal(t, types.Unknown, rec.LangEnglishLevel)
	assert.Equal(t, types.Unknown, rec.EmployerType)
	assert.Equal(t, DefaultRole, rec.PrimaryRole)
	assert.Equal(t, DefaultDomain, rec.PrimaryDomain)
	assert.Equal(t, 0, rec.Count(CountTechStack))
}

func TestDeriveEmployerPage(t *testing.T) {
	raw := pythonVacancy()
	raw.Employer = &types.EmployerFields{
		RatingText:     strPtr("4.3"),
		ReviewsText:    strPtr("128 отзывов"),
		AdvantagesText: strPtr("Удалённая работа\nДМС"),
		FullText:       strPtr("Прямой работодатель\nАккредитованная IT-компания"),
	}
	rec := Default().Derive(raw, testScrapeTime)

	assert.Equal(t, floatPtr(4.3), rec.EmployerRating)
	assert.Equal(t, intPtr(128), rec.EmployerReviewsCount)
	assert.Equal(t, boolPtr(true), rec.Flag("employer_has_remote"))
	assert.Equal(t, boolPtr(true), rec.Flag("employer_has_med_insurance"))
	assert.Equal(t, boolPtr(false), rec.Flag("employer_has_flexible_schedule"))
	assert.Equal(t, boolPtr(true), rec.EmployerAccreditedIT)
	assert.Equal(t, EmployerDirect, rec.EmployerType)
}

func TestDeriveIsIdempotent(t *testing.T) {
	engine := Default()
	raw := pythonVacancy()

	first := engine.Derive(raw, testScrapeTime)
	second := engine.Derive(raw, testScrapeTime)
	assert.Equal(t, first, second)

	cols := engine.Columns()
	a, err := json.Marshal(AsMap(cols, first))
	require.NoError(t, err)
	b, err := json.Marshal(AsMap(cols, second))
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCustomDomainPolicy(t *testing.T) {
	raw := &types.RawVacancyFields{ID: 4, DescriptionText: strPtr("Телеком-оператор, собственный продукт SaaS")}

	byPriority := Default().Derive(raw, testScrapeTime)
	assert.Equal(t, "telecom", byPriority.PrimaryDomain)

	alpha := New(nil, nil, AlphabeticalPolicy{}).Derive(raw, testScrapeTime)
	assert.Equal(t, "it_product", alpha.PrimaryDomain)
	assert.Equal(t, 2, alpha.Count(CountDomains))
}

func TestDeriveProseDoesNotSetGradeOrGo(t *testing.T) {
	raw := &types.RawVacancyFields{
		ID:              2003,
		URL:             "https://hh.ru/vacancy/2003",
		Title:           strPtr("Python разработчик"),
		DescriptionText: strPtr("Мы ведущая финтех-компания. Ready to go live with a new product."),
	}
	rec := Default().Derive(raw, testScrapeTime)

	assert.Equal(t, GradeMiddle, rec.GradeFinal)
	assert.Equal(t, boolPtr(false), rec.Flag("has_go"))
	assert.Equal(t, boolPtr(true), rec.Flag("has_python"))
}
