package types

// RawVacancyFields holds the untyped fields copied from one posting page.
// A nil pointer means the field could not be located; it is never a placeholder string.
type RawVacancyFields struct {
	ID           int64   `json:"id"`
	URL          string  `json:"url"`
	SearchAreaID *int    `json:"search_area_id,omitempty"`
	Title        *string `json:"title,omitempty"`
	Company      *string `json:"company,omitempty"`
	EmployerURL  *string `json:"employer_url,omitempty"`
	SalaryText   *string `json:"salary_text,omitempty"`
	AddressText  *string `json:"address_text,omitempty"`

	ExperienceText *string `json:"experience_text,omitempty"`
	EmploymentText *string `json:"employment_text,omitempty"`
	ScheduleText   *string `json:"schedule_text,omitempty"`
	WorkFormatText *string `json:"work_format_text,omitempty"`

	DescriptionHTML *string  `json:"description_html,omitempty"`
	DescriptionText *string  `json:"description_text,omitempty"`
	KeySkills       []string `json:"key_skills,omitempty"` // nil when the skills block is missing

	EmployerBlockText *string `json:"employer_block_text,omitempty"`
	PublicationText   *string `json:"publication_text,omitempty"`
	VacancyCode       *string `json:"vacancy_code,omitempty"`

	// Description sections located by their headings.
	DutiesText       *string `json:"duties_text,omitempty"`
	RequirementsText *string `json:"requirements_text,omitempty"`
	NiceToHaveText   *string `json:"nice_to_have_text,omitempty"`
	BenefitsText     *string `json:"benefits_text,omitempty"`

	// Employer is attached by the crawler after the employer page is fetched.
	Employer *EmployerFields `json:"employer,omitempty"`
}

// EmployerFields holds raw fields from the employer's company page.
type EmployerFields struct {
	RatingText     *string `json:"rating_text,omitempty"`
	ReviewsText    *string `json:"reviews_text,omitempty"`
	AdvantagesText *string `json:"advantages_text,omitempty"`
	TypeText       *string `json:"type_text,omitempty"`
	FullText       *string `json:"full_text,omitempty"`
}

// HasText reports whether at least one of the given fields is present and non-empty.
func HasText(fields ...*string) bool {
	for _, f := range fields {
		if f != nil && *f != "" {
			return true
		}
	}
	return false
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
