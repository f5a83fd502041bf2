package parsing

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/skillra/hh-harvester/internal/types"
)

var (
	ratingSelectors = []string{
		"[data-qa='employer-rating-value']",
		"[data-qa='employer-review-rating-value']",
		"[data-qa='employer-header-rating-value']",
		"[itemprop='ratingValue']",
		"[data-qa='employer-rating']",
		"[data-qa='employer-review-rating']",
		"[data-qa='rating-score']",
	}
	totalRatingPattern   = regexp.MustCompile(`(?i)"?totalRating"?\s*[:=]\s*(?:\{[^}]*?"value"\s*:\s*)?["']?([0-9]+(?:[.,][0-9]+)?)`)
	ratingValuePattern   = regexp.MustCompile(`(?i)"?ratingValue"?\s*[:=]\s*["']?([0-9]+(?:[.,][0-9]+)?)`)
	reviewsTextPattern   = regexp.MustCompile(`([0-9][0-9\s]*)\s+отзыв`)
	reviewsCountPattern  = regexp.MustCompile(`"reviewsCount"\s*:\s*"?([0-9][0-9\s]*)`)
	advantagesPattern    = regexp.MustCompile(`"advantages"\s*:\s*(\[[^\]]*\])`)
	ratingNumberPattern  = regexp.MustCompile(`[0-9]+(?:[.,][0-9]+)?`)
	escapedQuoteReplacer = strings.NewReplacer(`\"`, `"`, `\/`, `/`)
)

// ParseEmployer extracts raw employer-level fields from a company page.
// The rating is returned as text only when it reads as a number in 0..5.
func ParseEmployer(body string) *types.EmployerFields {
	fields := &types.EmployerFields{}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fields
	}

	fields.FullText = optional(BlockText(doc.Find("body")))
	fields.RatingText = employerRating(doc, body)
	fields.ReviewsText = employerReviews(doc, body, fields.FullText)

	if m := advantagesPattern.FindStringSubmatch(unescape(body)); m != nil {
		var items []string
		if err := json.Unmarshal([]byte(m[1]), &items); err == nil {
			fields.AdvantagesText = optional(strings.Join(items, "\n"))
		} else {
			fields.AdvantagesText = optional(m[1])
		}
	}

	fields.TypeText = optional(InlineText(doc.Find("[data-qa='employer-type']").First()))

	return fields
}

func employerRating(doc *goquery.Document, body string) *string {
	for _, sel := range ratingSelectors {
		s := doc.Find(sel).First()
		if s.Length() == 0 {
			continue
		}
		value, ok := s.Attr("content")
		if !ok {
			value, ok = s.Attr("value")
		}
		if !ok {
			value = InlineText(s)
		}
		if r := validRating(ratingNumberPattern.FindString(value)); r != nil {
			return r
		}
	}

	var found *string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, entry := range ldJSONEntries(s.Text()) {
			agg, ok := entry["aggregateRating"].(map[string]any)
			if !ok {
				continue
			}
			if r := validRating(scalarString(agg["ratingValue"])); r != nil {
				found = r
				return false
			}
		}
		return true
	})
	if found != nil {
		return found
	}

	for _, variant := range []string{body, unescape(body)} {
		for _, re := range []*regexp.Regexp{totalRatingPattern, ratingValuePattern} {
			for _, m := range re.FindAllStringSubmatch(variant, -1) {
				if r := validRating(m[1]); r != nil {
					return r
				}
			}
		}
	}
	return nil
}

func employerReviews(doc *goquery.Document, body string, fullText *string) *string {
	if text := InlineText(doc.Find("[data-qa='employer-reviews-link']").First()); digitsOnly(text) != "" {
		return optional(digitsOnly(text))
	}
	if fullText != nil {
		if m := reviewsTextPattern.FindStringSubmatch(*fullText); m != nil {
			return optional(digitsOnly(m[1]))
		}
	}

	var found *string
	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, entry := range ldJSONEntries(s.Text()) {
			agg, ok := entry["aggregateRating"].(map[string]any)
			if !ok {
				continue
			}
			for _, key := range []string{"reviewCount", "ratingCount"} {
				if v := digitsOnly(scalarString(agg[key])); v != "" {
					found = &v
					return false
				}
			}
		}
		return true
	})
	if found != nil {
		return found
	}

	if m := reviewsCountPattern.FindStringSubmatch(unescape(body)); m != nil {
		return optional(digitsOnly(m[1]))
	}
	return nil
}

func validRating(s string) *string {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || v > 5 {
		return nil
	}
	return &s
}

func ldJSONEntries(text string) []map[string]any {
	var data any
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return nil
	}
	var out []map[string]any
	switch v := data.(type) {
	case map[string]any:
		out = append(out, v)
	case []any:
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func unescape(s string) string {
	return escapedQuoteReplacer.Replace(s)
}
