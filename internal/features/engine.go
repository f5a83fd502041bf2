package features

import (
	"strings"
	"time"

	"github.com/skillra/hh-harvester/internal/types"
)

// Counter names.
const (
	CountRole             = "role_count"
	CountTechStack        = "tech_stack_size"
	CountHardStack        = "hard_stack_count"
	CountBenefits         = "benefits_count"
	CountSoftSkills       = "soft_skills_count"
	CountDomains          = "domain_count"
	CountCoreDataSkills   = "core_data_skills_count"
	CountMLStack          = "ml_stack_count"
	CountSkills           = "skills_count"
	CountLangOther        = "lang_other_count"
	CountMetro            = "metro_count"
	CountBullets          = "description_bullets_count"
	CountParagraphs       = "description_paragraphs_count"
	CountRequirements     = "requirements_count"
	CountResponsibilities = "responsibilities_count"
	CountMustHaveSkills   = "must_have_skills_count"
	CountOptionalSkills   = "optional_skills_count"
)

// Engine turns raw fields into records. It holds only read-only tables and
// is safe for concurrent use.
type Engine struct {
	registry *Registry
	rates    map[string]float64
	domains  DomainPolicy
}

// New creates an engine. A nil registry, rate table or policy falls back to
// the built-in one.
func New(registry *Registry, rates map[string]float64, domains DomainPolicy) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	if rates == nil {
		rates = DefaultRatesRUB()
	}
	if domains == nil {
		domains = PriorityPolicy{Order: DefaultDomainPriority}
	}
	return &Engine{registry: registry, rates: rates, domains: domains}
}

// Default returns the engine with the built-in registry, rates and domain policy.
func Default() *Engine {
	return New(nil, nil, nil)
}

// Registry returns the engine's flag registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

func (e *Engine) family(name string) Family {
	f, _ := e.registry.Family(name)
	return f
}

// Derive computes the full record for one posting. It never fails: a field
// that cannot be derived is left absent or set to its documented default.
// Calling it twice on the same input yields equal records.
func (e *Engine) Derive(raw *types.RawVacancyFields, scrapedAt time.Time) *types.VacancyRecord {
	rec := &types.VacancyRecord{
		VacancyID:    raw.ID,
		VacancyURL:   raw.URL,
		VacancyCode:  raw.VacancyCode,
		Title:        raw.Title,
		Company:      raw.Company,
		EmployerURL:  raw.EmployerURL,
		SearchAreaID: raw.SearchAreaID,
		ScrapedAt:    scrapedAt,
		Flags:        make(map[string]bool),
		Counts:       make(map[string]int),
	}

	var skills *string
	if raw.KeySkills != nil {
		skills = strPtr(strings.Join(raw.KeySkills, ", "))
	}
	mainText, mainPresent := joinPresent(raw.Title, raw.DescriptionText, skills)
	mainNorm := Normalize(mainText)
	profileText, profilePresent := joinPresent(raw.Title, raw.DescriptionText)

	e.deriveSalary(rec, raw)
	e.deriveLocation(rec, raw)
	e.deriveTime(rec, raw, scrapedAt)

	// flag families over the main text
	for _, name := range []string{FamilyRole, FamilyStack, FamilyDataSkill, FamilyBenefit, FamilySoft, FamilyDomain} {
		e.family(name).Evaluate(mainNorm, mainPresent, rec.Flags)
	}
	advantages, advPresent := employerAdvantages(raw.Employer)
	e.family(FamilyEmployer).Evaluate(Normalize(advantages), advPresent, rec.Flags)

	emp := DeriveEmployer(raw.Employer, raw.EmployerBlockText)
	rec.EmployerRating = emp.Rating
	rec.EmployerReviewsCount = emp.ReviewsCount
	rec.EmployerAccreditedIT = emp.AccreditedIT
	rec.EmployerType = emp.Type

	rec.EmploymentType = NormalizeCategory(raw.EmploymentText)
	rec.Schedule = NormalizeCategory(raw.ScheduleText)
	rec.WorkFormatRaw = raw.WorkFormatText
	wf := ClassifyWorkFormat(raw.WorkFormatText, raw.DescriptionText)
	rec.WorkFormat, rec.IsRemote, rec.IsHybrid, rec.WorkMode = wf.Format, wf.IsRemote, wf.IsHybrid, wf.Mode

	exp := ParseExperience(raw.ExperienceText)
	rec.Experience = raw.ExperienceText
	rec.ExpMinYears, rec.ExpMaxYears, rec.ExpIsNoExperience = exp.MinYears, exp.MaxYears, exp.NoExperience
	grade, explicit := DetectGrade(raw.Title, raw.DescriptionText)
	rec.Grade = grade
	rec.GradeFromExperience = GradeFromExperience(exp)
	if raw.Title == nil && raw.DescriptionText == nil && rec.GradeFromExperience == types.Unknown {
		rec.GradeFinal = types.Unknown
	} else {
		rec.GradeFinal = FinalGrade(grade, explicit, rec.GradeFromExperience)
	}

	rec.PrimaryRole = PrimaryRole(rec.Flags)
	rec.PrimaryDomain = e.domains.Primary(trueDomains(e.family(FamilyDomain), rec.Flags))

	edu := ParseEducation(profileText, profilePresent)
	rec.EduRequired, rec.EduLevel, rec.EduTechnical, rec.EduMathOrCS = edu.Required, edu.Level, edu.Technical, edu.MathOrCS
	lang := ParseLanguage(profileText, profilePresent)
	rec.LangEnglishRequired, rec.LangEnglishLevel = lang.EnglishRequired, lang.EnglishLevel

	js := DetectJuniorSignals(mainText, mainPresent, exp.NoExperience)
	rec.IsForJuniors, rec.AllowsStudents, rec.HasMentoring = js.IsForJuniors, js.AllowsStudents, js.HasMentoring
	rec.HasTestTask, rec.IsJuniorFriendly, rec.BattleExperience = js.HasTestTask, js.IsJuniorFriendly, js.BattleExperience

	rec.Description = raw.DescriptionText
	rec.Skills = skills
	e.deriveCounts(rec, raw, lang)
	return rec
}

func (e *Engine) deriveSalary(rec *types.VacancyRecord, raw *types.RawVacancyFields) {
	if raw.SalaryText == nil {
		return
	}
	s := ParseSalary(*raw.SalaryText)
	rec.SalaryFrom, rec.SalaryTo, rec.Currency, rec.SalaryGross = s.From, s.To, s.Currency, s.Gross
	rec.SalaryMid, rec.SalaryRangeWidth, rec.SalaryIsExact, rec.SalaryMidRUB = s.Derived(e.rates)
}

func (e *Engine) deriveLocation(rec *types.VacancyRecord, raw *types.RawVacancyFields) {
	rec.Address = raw.AddressText
	rec.City = CityFromAddress(raw.AddressText)
	rec.CityTier = CityTier(rec.City)
	if raw.AddressText == nil {
		return
	}
	stations := FindMetro(*raw.AddressText)
	rec.HasMetro = boolPtr(len(stations) > 0)
	if len(stations) > 0 {
		rec.MetroPrimary = strPtr(stations[0])
	}
	rec.Counts[CountMetro] = len(stations)
	rec.AddressHasDistrict = boolPtr(HasDistrict(*raw.AddressText))
}

func (e *Engine) deriveTime(rec *types.VacancyRecord, raw *types.RawVacancyFields, scrapedAt time.Time) {
	rec.PublishedAtRaw = raw.PublicationText
	if raw.PublicationText == nil {
		return
	}
	pub, ok := ParsePublished(*raw.PublicationText, scrapedAt)
	if !ok {
		return
	}
	age := daysBetween(pub, scrapedAt)
	if age < 0 {
		age = 0
	}
	weekday := weekdayMondayZero(pub)
	rec.PublishedAt = &pub
	rec.VacancyAgeDays = &age
	rec.PublishedWeekday = &weekday
	rec.PublishedMonth = intPtr(int(pub.Month()))
	rec.IsWeekendPost = boolPtr(weekday >= 5)
}

func (e *Engine) deriveCounts(rec *types.VacancyRecord, raw *types.RawVacancyFields, lang Language) {
	flags := rec.Flags
	role, stack, data := e.family(FamilyRole), e.family(FamilyStack), e.family(FamilyDataSkill)

	rec.Counts[CountRole] = CountTrue(flags, role.Names()...)
	rec.Counts[CountHardStack] = CountTrue(flags, stack.Names()...)
	rec.Counts[CountTechStack] = rec.Counts[CountHardStack] + CountTrue(flags, data.Names()...)
	rec.Counts[CountBenefits] = CountTrue(flags, e.family(FamilyBenefit).Names()...)
	rec.Counts[CountSoftSkills] = CountTrue(flags, e.family(FamilySoft).Names()...)
	rec.Counts[CountDomains] = CountTrue(flags, e.family(FamilyDomain).Names()...)
	rec.Counts[CountCoreDataSkills] = countGroups(flags, CoreDataSkills)
	rec.Counts[CountMLStack] = countGroups(flags, MLStack)
	rec.Counts[CountSkills] = len(raw.KeySkills)
	rec.Counts[CountLangOther] = lang.OtherCount

	if raw.DescriptionText != nil {
		st := DescribeText(*raw.DescriptionText)
		rec.DescriptionLenChars = intPtr(st.Chars)
		rec.DescriptionLenWords = intPtr(st.Words)
		rec.Counts[CountBullets] = st.Bullets
		rec.Counts[CountParagraphs] = st.Paragraphs
	}
	rec.Counts[CountRequirements] = countItems(raw.RequirementsText)
	rec.Counts[CountResponsibilities] = countItems(raw.DutiesText)
	rec.Counts[CountMustHaveSkills] = sectionSkillHits(raw.RequirementsText, flags, stack, data)
	rec.Counts[CountOptionalSkills] = sectionSkillHits(raw.NiceToHaveText, flags, stack, data)
}
