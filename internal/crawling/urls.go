package crawling

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skillra/hh-harvester/internal/parsing"
	"github.com/skillra/hh-harvester/internal/types"
)

// ItemsPerPage is the listing page size requested from the search.
const ItemsPerPage = 20

// URLBuilder produces search, posting and employer URLs against one site base.
type URLBuilder struct {
	base           *url.URL
	query          string
	onlyWithSalary bool
}

// NewURLBuilder validates baseURL. An empty baseURL means the public site.
func NewURLBuilder(baseURL, query string, onlyWithSalary bool) (*URLBuilder, error) {
	if baseURL == "" {
		baseURL = parsing.SiteBase
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, &URLError{Message: "failed to parse base URL", Cause: err}
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, &URLError{Message: fmt.Sprintf("invalid base URL: %s (must have scheme and host)", baseURL)}
	}
	base.Path = strings.TrimSuffix(base.Path, "/")
	return &URLBuilder{base: base, query: query, onlyWithSalary: onlyWithSalary}, nil
}

// Search returns the listing URL for one shard page, newest postings first.
func (b *URLBuilder) Search(shard types.SearchShard) string {
	q := url.Values{}
	q.Set("text", b.query)
	q.Set("area", strconv.Itoa(shard.AreaID))
	q.Set("experience", string(shard.Bucket))
	q.Set("page", strconv.Itoa(shard.Page))
	q.Set("items_on_page", strconv.Itoa(ItemsPerPage))
	q.Set("order_by", "publication_time")
	if b.onlyWithSalary {
		q.Set("only_with_salary", "true")
	}
	u := *b.base
	u.Path += "/search/vacancy"
	u.RawQuery = q.Encode()
	return u.String()
}

// Vacancy returns the posting URL for id.
func (b *URLBuilder) Vacancy(id int64) string {
	u := *b.base
	u.Path += "/vacancy/" + strconv.FormatInt(id, 10)
	return u.String()
}

// Employer maps an employer link found on a posting onto the site base.
// Links to other domains are rejected.
func (b *URLBuilder) Employer(href string) (string, error) {
	link, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", &URLError{Message: "failed to parse employer link", Cause: err}
	}
	site, _ := url.Parse(parsing.SiteBase)
	resolved := site.ResolveReference(link)
	if !sameSite(resolved.Host, site.Host) && resolved.Host != b.base.Host {
		return "", &URLError{Message: fmt.Sprintf("employer link outside the site: %s", href)}
	}
	if !strings.HasPrefix(resolved.Path, "/employer/") {
		return "", &URLError{Message: fmt.Sprintf("not an employer page: %s", href)}
	}

	u := *b.base
	u.Path += resolved.Path
	return u.String(), nil
}

// sameSite accepts the site host and its regional subdomains.
func sameSite(host, site string) bool {
	return host == site || strings.HasSuffix(host, "."+site)
}
