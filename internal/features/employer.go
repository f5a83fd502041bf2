package features

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/skillra/hh-harvester/internal/types"
)

// Employer types.
const (
	EmployerDirect = "direct"
	EmployerAgency = "agency"
)

var (
	ratingNumber  = regexp.MustCompile(`\d+(?:[.,]\d+)?`)
	reviewsNumber = regexp.MustCompile(`\d[\d ]*`)
	accreditation = []Matcher{ru(`аккредитован`), Pattern(`accredited\s+it`)}
)

// Employer is the employer-level part of a record.
type Employer struct {
	Rating       *float64
	ReviewsCount *int
	AccreditedIT *bool
	Type         string
}

// DeriveEmployer reads the employer page fields and the company block of the
// posting. The advantage flags go through the employer family separately.
func DeriveEmployer(page *types.EmployerFields, block *string) Employer {
	e := Employer{Type: types.Unknown}

	var full *string
	if page != nil {
		e.Rating = parseRating(page.RatingText)
		e.ReviewsCount = parseReviews(page.ReviewsText)
		full = page.FullText
	}

	accText, ok := joinPresent(full, block)
	if ok {
		e.AccreditedIT = boolPtr(anyMatch(Normalize(accText), accreditation))
	}

	var typeSrc *string
	switch {
	case page != nil && types.HasText(page.TypeText):
		typeSrc = page.TypeText
	case full != nil:
		typeSrc = full
	default:
		typeSrc = block
	}
	if typeSrc != nil {
		t := Normalize(*typeSrc)
		switch {
		case strings.Contains(t, "прямой работодатель"), strings.Contains(t, "direct employer"):
			e.Type = EmployerDirect
		case strings.Contains(t, "кадров"), strings.Contains(t, "агентств"), strings.Contains(t, "agency"):
			e.Type = EmployerAgency
		}
	}
	return e
}

// employerAdvantages is the text the employer family is evaluated over: the
// advantages list when present, else the whole page.
func employerAdvantages(page *types.EmployerFields) (string, bool) {
	if page == nil {
		return "", false
	}
	if types.HasText(page.AdvantagesText) {
		return *page.AdvantagesText, true
	}
	if page.FullText != nil {
		return *page.FullText, true
	}
	return "", false
}

func parseRating(text *string) *float64 {
	if text == nil {
		return nil
	}
	m := ratingNumber.FindString(*text)
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &v
}

func parseReviews(text *string) *int {
	if text == nil {
		return nil
	}
	m := reviewsNumber.FindString(Normalize(*text))
	if m == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.ReplaceAll(strings.TrimSpace(m), " ", ""))
	if err != nil {
		return nil
	}
	return &v
}
