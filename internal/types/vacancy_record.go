package types

import "time"

// Unknown is the explicit category used by the whitelisted categorical columns.
const Unknown = "unknown"

// VacancyRecord is the typed output row for one posting.
// Pointer fields are absent when nil. Boolean flag families live in Flags
// (a missing key is absent) and counters live in Counts (a missing key is 0).
type VacancyRecord struct {
	// Identity
	VacancyID    int64
	VacancyURL   string
	VacancyCode  *string
	Title        *string
	Company      *string
	EmployerURL  *string
	SearchAreaID *int
	ScrapeRunID  string
	ScrapedAt    time.Time

	// Salary
	SalaryFrom       *int64
	SalaryTo         *int64
	Currency         *string
	SalaryGross      *bool
	SalaryMid        *float64
	SalaryRangeWidth *int64
	SalaryIsExact    *bool
	SalaryMidRUB     *float64
	SalaryBucket     *string

	// Location
	Address            *string
	City               *string
	CityTier           string
	HasMetro           *bool
	MetroPrimary       *string
	AddressHasDistrict *bool

	// Time
	PublishedAtRaw   *string
	PublishedAt      *time.Time
	VacancyAgeDays   *int
	PublishedWeekday *int
	PublishedMonth   *int
	IsWeekendPost    *bool

	// Employer
	EmployerRating       *float64
	EmployerReviewsCount *int
	EmployerAccreditedIT *bool
	EmployerType         string

	// Employment format
	EmploymentType string
	Schedule       string
	WorkFormatRaw  *string
	WorkFormat     string
	IsRemote       *bool
	IsHybrid       *bool
	WorkMode       string

	// Experience and grade
	Experience          *string
	ExpMinYears         *int
	ExpMaxYears         *int
	ExpIsNoExperience   *bool
	Grade               string
	GradeFromExperience string
	GradeFinal          string

	// Roll-ups
	PrimaryRole   string
	PrimaryDomain string

	// Education and language
	EduRequired         *bool
	EduLevel            *string
	EduTechnical        *bool
	EduMathOrCS         *bool
	LangEnglishRequired *bool
	LangEnglishLevel    string

	// Junior-friendliness
	IsForJuniors     *bool
	AllowsStudents   *bool
	HasMentoring     *bool
	HasTestTask      *bool
	IsJuniorFriendly *bool
	BattleExperience *bool

	// Text
	Description         *string
	DescriptionLenChars *int
	DescriptionLenWords *int
	Skills              *string

	Flags  map[string]bool
	Counts map[string]int
}

// Flag returns the tri-state value of a boolean feature.
func (r *VacancyRecord) Flag(name string) *bool {
	v, ok := r.Flags[name]
	if !ok {
		return nil
	}
	return &v
}

// Count returns a counter, defaulting to 0.
func (r *VacancyRecord) Count(name string) int {
	return r.Counts[name]
}
