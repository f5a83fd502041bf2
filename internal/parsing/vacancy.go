package parsing

import (
	"encoding/json"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/skillra/hh-harvester/internal/types"
)

// SiteBase is used to resolve relative links found on pages.
const SiteBase = "https://hh.ru"

var (
	employmentPattern  = regexp.MustCompile(`(Полная занятость|Частичная занятость|Стажировка|Проектная работа|Волонт[её]рство)`)
	schedulePattern    = regexp.MustCompile(`(?i)график работы:\s*([^\n]+)`)
	workFormatPattern  = regexp.MustCompile(`(?i)формат работы:\s*([^\n]+)`)
	publishedPattern   = regexp.MustCompile(`Вакансия опубликована\s+(.+?)\s+в\s+\S`)
	vacancyCodePattern = regexp.MustCompile(`Код вакансии\s+([\w-]+)`)
	skillsJSONPattern  = regexp.MustCompile(`"keySkills"\s*:\s*\[([^\]]*)\]`)
	skillNamePattern   = regexp.MustCompile(`"name"\s*:\s*"([^"]+)"`)
)

// field selectors in priority order
var (
	titleSelectors       = []string{"h1[data-qa='vacancy-title']", "[data-qa='vacancy-title']"}
	salarySelectors      = []string{"div[data-qa='vacancy-salary']", "[data-qa='vacancy-salary-compensation-type-net']", "[data-qa='vacancy-salary-compensation-type-gross']"}
	companySelectors     = []string{"a[data-qa='vacancy-company-name']", "[data-qa='vacancy-company-name']"}
	addressSelectors     = []string{"span[data-qa='vacancy-view-raw-address']", "[data-qa='vacancy-view-raw-address']", "span[data-qa='vacancy-view-location']", "p[data-qa='vacancy-view-location']"}
	experienceSelectors  = []string{"span[data-qa='vacancy-experience']", "[data-qa='work-experience-text']"}
	employmentSelectors  = []string{"p[data-qa='vacancy-view-employment-mode']", "[data-qa='common-employment-text']"}
	scheduleSelectors    = []string{"p[data-qa='vacancy-view-emp-mode']", "p[data-qa='vacancy-view-schedule']", "[data-qa='work-schedule-by-days-text']"}
	workFormatSelectors  = []string{"[data-qa='work-formats-text']"}
	descriptionSelectors = []string{"div[data-qa='vacancy-description']", "[data-qa='vacancy-description']"}
	employerSelectors    = []string{"[data-qa='vacancy-company']", "[data-qa='vacancy-company__details']", "div.vacancy-company-redesigned"}
	createdSelectors     = []string{"p[data-qa='vacancy-view-creation-time']", "[data-qa='vacancy-creation-time-redesigned']"}
	skillSelectors       = []string{"[data-qa='bloko-tag__text']", "[data-qa='skills-element']", "div[data-qa='skills-block'] span"}
)

// section headings, matched against short lowercased lines
var sectionHeadings = []struct {
	name     string
	keywords []string
}{
	{"duties", []string{"обязанности", "что делать", "чем предстоит заниматься", "задачи", "responsibilit"}},
	{"requirements", []string{"требован", "мы ожидаем", "ожидаем от", "requirements"}},
	{"nice_to_have", []string{"будет плюсом", "будет преимуществом", "желательно", "nice to have"}},
	{"conditions", []string{"услови", "мы предлагаем", "что мы предлагаем", "conditions", "we offer"}},
}

const maxHeadingRunes = 60

// ParseVacancy extracts the raw fields of one posting page. Each field is
// located independently; fields that cannot be found stay nil and are
// reported as FieldErrors.
func ParseVacancy(body, pageURL string) (*types.RawVacancyFields, []*FieldError) {
	raw := &types.RawVacancyFields{URL: pageURL}
	var errs []*FieldError

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return raw, []*FieldError{{Field: "document", Message: "failed to parse HTML", Cause: err}}
	}

	if id, ok := VacancyIDFromURL(pageURL); ok {
		raw.ID = id
	} else if id, ok := canonicalID(doc); ok {
		raw.ID = id
	} else {
		errs = append(errs, missing("id"))
	}

	fullText := BlockText(doc.Find("body"))

	lookup := func(field string, selectors []string) *string {
		v := optional(InlineText(first(doc, selectors)))
		if v == nil {
			errs = append(errs, missing(field))
		}
		return v
	}

	raw.Title = lookup("title", titleSelectors)
	raw.SalaryText = lookup("salary", salarySelectors)
	raw.AddressText = lookup("address", addressSelectors)
	raw.ExperienceText = lookup("experience", experienceSelectors)

	company := first(doc, companySelectors)
	raw.Company = optional(InlineText(company))
	if raw.Company == nil {
		errs = append(errs, missing("company"))
	}
	if href, ok := company.Attr("href"); ok {
		raw.EmployerURL = optional(absoluteURL(href))
	}

	raw.EmploymentText = matchOrSelect(fullText, employmentPattern, doc, employmentSelectors)
	if raw.EmploymentText == nil {
		errs = append(errs, missing("employment"))
	}
	raw.ScheduleText = matchOrSelect(fullText, schedulePattern, doc, scheduleSelectors)
	if raw.ScheduleText == nil {
		errs = append(errs, missing("schedule"))
	}
	raw.WorkFormatText = matchOrSelect(fullText, workFormatPattern, doc, workFormatSelectors)

	desc := first(doc, descriptionSelectors)
	if desc.Length() > 0 {
		if inner, err := desc.Html(); err == nil {
			raw.DescriptionHTML = optional(inner)
		}
		raw.DescriptionText = optional(BlockText(desc))
	}
	if raw.DescriptionText == nil {
		errs = append(errs, missing("description"))
	} else {
		sections := splitSections(*raw.DescriptionText)
		raw.DutiesText = optional(sections["duties"])
		raw.RequirementsText = optional(sections["requirements"])
		raw.NiceToHaveText = optional(sections["nice_to_have"])
		raw.BenefitsText = optional(sections["conditions"])
	}

	raw.KeySkills = extractSkills(doc)
	if raw.KeySkills == nil {
		errs = append(errs, missing("key_skills"))
	}

	raw.EmployerBlockText = optional(BlockText(first(doc, employerSelectors)))

	if m := publishedPattern.FindStringSubmatch(fullText); m != nil {
		raw.PublicationText = optional(m[1])
	} else {
		raw.PublicationText = optional(InlineText(first(doc, createdSelectors)))
	}
	if raw.PublicationText == nil {
		errs = append(errs, missing("published_at"))
	}

	if m := vacancyCodePattern.FindStringSubmatch(fullText); m != nil {
		raw.VacancyCode = optional(m[1])
	}

	return raw, errs
}

// first returns the first non-empty match among selectors.
func first(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return doc.Find(selectors[0])
}

func matchOrSelect(text string, re *regexp.Regexp, doc *goquery.Document, selectors []string) *string {
	if m := re.FindStringSubmatch(text); m != nil {
		return optional(m[len(m)-1])
	}
	return optional(InlineText(first(doc, selectors)))
}

func canonicalID(doc *goquery.Document) (int64, bool) {
	for _, sel := range []string{"link[rel='canonical']", "meta[property='og:url']"} {
		s := doc.Find(sel).First()
		v, ok := s.Attr("href")
		if !ok {
			v, ok = s.Attr("content")
		}
		if ok {
			if id, ok := VacancyIDFromURL(v); ok {
				return id, true
			}
		}
	}
	return 0, false
}

func absoluteURL(href string) string {
	base, _ := url.Parse(SiteBase)
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.RawQuery = ""
	resolved.Fragment = ""
	return resolved.String()
}

// extractSkills reads the key-skill tags, falling back to structured data
// embedded in the page. It returns nil when no skills block exists at all.
func extractSkills(doc *goquery.Document) []string {
	var skills []string
	for _, sel := range skillSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if text := InlineText(s); text != "" {
				skills = append(skills, text)
			}
		})
		if len(skills) > 0 {
			return NormalizeSkills(skills)
		}
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if len(skills) > 0 {
			return
		}
		text := s.Text()
		if t, _ := s.Attr("type"); t == "application/ld+json" {
			skills = append(skills, ldJSONSkills(text)...)
		}
		if len(skills) == 0 {
			if m := skillsJSONPattern.FindStringSubmatch(text); m != nil {
				for _, nm := range skillNamePattern.FindAllStringSubmatch(m[1], -1) {
					skills = append(skills, nm[1])
				}
			}
		}
	})
	if len(skills) > 0 {
		return NormalizeSkills(skills)
	}
	return nil
}

func ldJSONSkills(text string) []string {
	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil
	}
	entries, ok := data.([]any)
	if !ok {
		entries = []any{data}
	}

	var out []string
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			continue
		}
		list, ok := obj["keySkills"].([]any)
		if !ok {
			list, _ = obj["skills"].([]any)
		}
		for _, item := range list {
			switch v := item.(type) {
			case string:
				out = append(out, v)
			case map[string]any:
				if name, ok := v["name"].(string); ok {
					out = append(out, name)
				}
			}
		}
	}
	return out
}

// splitSections groups description lines under the most recent section heading.
func splitSections(text string) map[string]string {
	sections := make(map[string]string)
	current := ""
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name := sectionHeading(trimmed); name != "" {
			current = name
			continue
		}
		if current != "" {
			sections[current] += trimmed + "\n"
		}
	}
	return sections
}

func sectionHeading(line string) string {
	if strings.HasPrefix(line, Bullet) || utf8.RuneCountInString(line) > maxHeadingRunes {
		return ""
	}
	lower := strings.ToLower(line)
	for _, h := range sectionHeadings {
		for _, kw := range h.keywords {
			if strings.Contains(lower, kw) {
				return h.name
			}
		}
	}
	return ""
}
