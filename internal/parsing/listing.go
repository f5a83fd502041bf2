// Package parsing extracts raw fields from search-result and posting pages.
// All functions are pure: they take a page body and never touch the network.
package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var vacancyIDPattern = regexp.MustCompile(`/vacancy/(\d+)`)

// ListingPage is the result of parsing one search-result page.
type ListingPage struct {
	IDs         []int64
	HasNextPage bool
	// TotalPages is the number of pages the pager reports, 0 when unknown.
	TotalPages int
}

// ParseListing extracts posting ids in page order. Duplicates within the page
// are dropped. Markup without result links yields an empty page with no next page.
func ParseListing(body string) ListingPage {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return ListingPage{}
	}

	var page ListingPage
	seen := make(map[int64]struct{})
	doc.Find("a[data-qa='serp-item__title']").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		id, ok := VacancyIDFromURL(href)
		if !ok {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		page.IDs = append(page.IDs, id)
	})

	if len(page.IDs) == 0 {
		return ListingPage{}
	}

	page.HasNextPage = doc.Find("a[data-qa='pager-next']").Length() > 0
	doc.Find("[data-qa='pager-page']").Each(func(_ int, s *goquery.Selection) {
		if n, err := strconv.Atoi(InlineText(s)); err == nil && n > page.TotalPages {
			page.TotalPages = n
		}
	})

	return page
}

// VacancyIDFromURL returns the numeric posting id embedded in a posting URL.
func VacancyIDFromURL(u string) (int64, bool) {
	m := vacancyIDPattern.FindStringSubmatch(u)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
