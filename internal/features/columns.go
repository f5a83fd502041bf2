package features

import (
	"strconv"
	"time"

	"github.com/skillra/hh-harvester/internal/types"
)

// Kind is the value type of an output column.
type Kind string

// Column kinds. Category columns never hold an absent value.
const (
	KindInt      Kind = "int"
	KindFloat    Kind = "float"
	KindBool     Kind = "bool"
	KindText     Kind = "text"
	KindCategory Kind = "category"
	KindDate     Kind = "date"
	KindTime     Kind = "time"
)

// DateLayout is how published_at is rendered.
const DateLayout = "2006-01-02"

// Column is one field of the output schema.
type Column struct {
	Name string
	Kind Kind
	// Get returns the typed value, or nil when absent.
	Get func(*types.VacancyRecord) any
}

// Format renders a value of this column for text output; absent is "".
func (c Column) Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if c.Kind == KindDate {
			return x.Format(DateLayout)
		}
		return x.Format(time.RFC3339)
	}
	return ""
}

func opt[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func col(name string, kind Kind, get func(*types.VacancyRecord) any) Column {
	return Column{Name: name, Kind: kind, Get: get}
}

func flagCol(name string) Column {
	return col(name, KindBool, func(r *types.VacancyRecord) any { return opt(r.Flag(name)) })
}

func countCol(name string) Column {
	return col(name, KindInt, func(r *types.VacancyRecord) any { return r.Count(name) })
}

func flagCols(f Family) []Column {
	cols := make([]Column, 0, len(f.Features))
	for _, name := range f.Names() {
		cols = append(cols, flagCol(name))
	}
	return cols
}

// Columns returns the output schema of the default engine.
func Columns() []Column {
	return Default().Columns()
}

// Columns returns the output schema in its fixed order: identity, salary,
// location, time, employer, employment format, experience and grade, roles,
// stack, data skills, benefits, soft skills, domains, education, language,
// junior-friendliness, text structure and aggregates.
func (e *Engine) Columns() []Column {
	var cols []Column
	add := func(c ...Column) { cols = append(cols, c...) }

	add(
		col("vacancy_id", KindInt, func(r *types.VacancyRecord) any { return r.VacancyID }),
		col("vacancy_url", KindText, func(r *types.VacancyRecord) any { return r.VacancyURL }),
		col("vacancy_code", KindText, func(r *types.VacancyRecord) any { return opt(r.VacancyCode) }),
		col("title", KindText, func(r *types.VacancyRecord) any { return opt(r.Title) }),
		col("company", KindText, func(r *types.VacancyRecord) any { return opt(r.Company) }),
		col("employer_url", KindText, func(r *types.VacancyRecord) any { return opt(r.EmployerURL) }),
		col("search_area_id", KindInt, func(r *types.VacancyRecord) any { return opt(r.SearchAreaID) }),
		col("scrape_run_id", KindText, func(r *types.VacancyRecord) any { return r.ScrapeRunID }),
		col("scraped_at", KindTime, func(r *types.VacancyRecord) any { return r.ScrapedAt }),
	)
	add(
		col("salary_from", KindInt, func(r *types.VacancyRecord) any { return opt(r.SalaryFrom) }),
		col("salary_to", KindInt, func(r *types.VacancyRecord) any { return opt(r.SalaryTo) }),
		col("currency", KindText, func(r *types.VacancyRecord) any { return opt(r.Currency) }),
		col("salary_gross", KindBool, func(r *types.VacancyRecord) any { return opt(r.SalaryGross) }),
		col("salary_mid", KindFloat, func(r *types.VacancyRecord) any { return opt(r.SalaryMid) }),
		col("salary_range_width", KindInt, func(r *types.VacancyRecord) any { return opt(r.SalaryRangeWidth) }),
		col("salary_is_exact", KindBool, func(r *types.VacancyRecord) any { return opt(r.SalaryIsExact) }),
		col("salary_mid_rub", KindFloat, func(r *types.VacancyRecord) any { return opt(r.SalaryMidRUB) }),
		col("salary_bucket", KindText, func(r *types.VacancyRecord) any { return opt(r.SalaryBucket) }),
	)
	add(
		col("address", KindText, func(r *types.VacancyRecord) any { return opt(r.Address) }),
		col("city", KindText, func(r *types.VacancyRecord) any { return opt(r.City) }),
		col("city_tier", KindCategory, func(r *types.VacancyRecord) any { return r.CityTier }),
		col("has_metro", KindBool, func(r *types.VacancyRecord) any { return opt(r.HasMetro) }),
		col("metro_primary", KindText, func(r *types.VacancyRecord) any { return opt(r.MetroPrimary) }),
		countCol(CountMetro),
		col("address_has_district", KindBool, func(r *types.VacancyRecord) any { return opt(r.AddressHasDistrict) }),
	)
	add(
		col("published_at_raw", KindText, func(r *types.VacancyRecord) any { return opt(r.PublishedAtRaw) }),
		col("published_at", KindDate, func(r *types.VacancyRecord) any { return opt(r.PublishedAt) }),
		col("vacancy_age_days", KindInt, func(r *types.VacancyRecord) any { return opt(r.VacancyAgeDays) }),
		col("published_weekday", KindInt, func(r *types.VacancyRecord) any { return opt(r.PublishedWeekday) }),
		col("published_month", KindInt, func(r *types.VacancyRecord) any { return opt(r.PublishedMonth) }),
		col("is_weekend_post", KindBool, func(r *types.VacancyRecord) any { return opt(r.IsWeekendPost) }),
	)
	add(
		col("employer_rating", KindFloat, func(r *types.VacancyRecord) any { return opt(r.EmployerRating) }),
		col("employer_reviews_count", KindInt, func(r *types.VacancyRecord) any { return opt(r.EmployerReviewsCount) }),
	)
	add(flagCols(e.family(FamilyEmployer))...)
	add(
		col("employer_accredited_it", KindBool, func(r *types.VacancyRecord) any { return opt(r.EmployerAccreditedIT) }),
		col("employer_type", KindCategory, func(r *types.VacancyRecord) any { return r.EmployerType }),
	)
	add(
		col("employment_type", KindCategory, func(r *types.VacancyRecord) any { return r.EmploymentType }),
		col("schedule", KindCategory, func(r *types.VacancyRecord) any { return r.Schedule }),
		col("work_format_raw", KindText, func(r *types.VacancyRecord) any { return opt(r.WorkFormatRaw) }),
		col("work_format", KindCategory, func(r *types.VacancyRecord) any { return r.WorkFormat }),
		col("is_remote", KindBool, func(r *types.VacancyRecord) any { return opt(r.IsRemote) }),
		col("is_hybrid", KindBool, func(r *types.VacancyRecord) any { return opt(r.IsHybrid) }),
		col("work_mode", KindCategory, func(r *types.VacancyRecord) any { return r.WorkMode }),
	)
	add(
		col("experience", KindText, func(r *types.VacancyRecord) any { return opt(r.Experience) }),
		col("exp_min_years", KindInt, func(r *types.VacancyRecord) any { return opt(r.ExpMinYears) }),
		col("exp_max_years", KindInt, func(r *types.VacancyRecord) any { return opt(r.ExpMaxYears) }),
		col("exp_is_no_experience", KindBool, func(r *types.VacancyRecord) any { return opt(r.ExpIsNoExperience) }),
		col("grade", KindCategory, func(r *types.VacancyRecord) any { return r.Grade }),
		col("grade_from_experience", KindCategory, func(r *types.VacancyRecord) any { return r.GradeFromExperience }),
		col("grade_final", KindCategory, func(r *types.VacancyRecord) any { return r.GradeFinal }),
	)

	add(flagCols(e.family(FamilyRole))...)
	add(col("primary_role", KindCategory, func(r *types.VacancyRecord) any { return r.PrimaryRole }))
	add(flagCols(e.family(FamilyStack))...)
	add(flagCols(e.family(FamilyDataSkill))...)
	add(flagCols(e.family(FamilyBenefit))...)
	add(flagCols(e.family(FamilySoft))...)
	add(flagCols(e.family(FamilyDomain))...)
	add(col("primary_domain", KindCategory, func(r *types.VacancyRecord) any { return r.PrimaryDomain }))

	add(
		col("edu_required", KindBool, func(r *types.VacancyRecord) any { return opt(r.EduRequired) }),
		col("edu_level", KindText, func(r *types.VacancyRecord) any { return opt(r.EduLevel) }),
		col("edu_technical", KindBool, func(r *types.VacancyRecord) any { return opt(r.EduTechnical) }),
		col("edu_math_or_cs", KindBool, func(r *types.VacancyRecord) any { return opt(r.EduMathOrCS) }),
		col("lang_english_required", KindBool, func(r *types.VacancyRecord) any { return opt(r.LangEnglishRequired) }),
		col("lang_english_level", KindCategory, func(r *types.VacancyRecord) any { return r.LangEnglishLevel }),
		countCol(CountLangOther),
	)
	add(
		col("is_for_juniors", KindBool, func(r *types.VacancyRecord) any { return opt(r.IsForJuniors) }),
		col("allows_students", KindBool, func(r *types.VacancyRecord) any { return opt(r.AllowsStudents) }),
		col("has_mentoring", KindBool, func(r *types.VacancyRecord) any { return opt(r.HasMentoring) }),
		col("has_test_task", KindBool, func(r *types.VacancyRecord) any { return opt(r.HasTestTask) }),
		col("is_junior_friendly", KindBool, func(r *types.VacancyRecord) any { return opt(r.IsJuniorFriendly) }),
		col("battle_experience", KindBool, func(r *types.VacancyRecord) any { return opt(r.BattleExperience) }),
	)
	add(
		col("description", KindText, func(r *types.VacancyRecord) any { return opt(r.Description) }),
		col("description_len_chars", KindInt, func(r *types.VacancyRecord) any { return opt(r.DescriptionLenChars) }),
		col("description_len_words", KindInt, func(r *types.VacancyRecord) any { return opt(r.DescriptionLenWords) }),
		countCol(CountBullets),
		countCol(CountParagraphs),
		countCol(CountRequirements),
		countCol(CountResponsibilities),
		countCol(CountMustHaveSkills),
		countCol(CountOptionalSkills),
		col("skills", KindText, func(r *types.VacancyRecord) any { return opt(r.Skills) }),
	)
	add(
		countCol(CountRole),
		countCol(CountTechStack),
		countCol(CountHardStack),
		countCol(CountCoreDataSkills),
		countCol(CountMLStack),
		countCol(CountSkills),
		countCol(CountBenefits),
		countCol(CountSoftSkills),
		countCol(CountDomains),
	)
	return cols
}

// ColumnNames lists the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// AsMap renders a record as a name to value map, as used for JSON output.
// Absent values are nil; dates and times are formatted strings.
func AsMap(cols []Column, rec *types.VacancyRecord) map[string]any {
	out := make(map[string]any, len(cols))
	for _, c := range cols {
		v := c.Get(rec)
		if _, ok := v.(time.Time); ok {
			v = c.Format(v)
		}
		out[c.Name] = v
	}
	return out
}
