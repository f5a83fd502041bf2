package fetch

import (
	"net/url"
	"sync"
)

// DefaultRotateAfter is the number of successful calls after which the proxy advances.
const DefaultRotateAfter = 25

// Identity is one browser identity presented to the service.
type Identity struct {
	UserAgent      string
	Referer        string
	AcceptLanguage string
}

// DefaultIdentities returns the built-in identity pool.
func DefaultIdentities() []Identity {
	const lang = "ru-RU,ru;q=0.9,en-US;q=0.8,en;q=0.7"
	return []Identity{
		{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36",
			Referer:        "https://hh.ru/",
			AcceptLanguage: lang,
		},
		{
			UserAgent:      "Mozilla/5.0 (Macintosh; Intel Mac OS X 13_3_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.4 Safari/605.1.15",
			Referer:        "https://hh.ru/search/vacancy",
			AcceptLanguage: lang,
		},
		{
			UserAgent:      "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0",
			Referer:        "https://www.google.com/",
			AcceptLanguage: lang,
		},
		{
			UserAgent:      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
			Referer:        "https://hh.ru/",
			AcceptLanguage: lang,
		},
		{
			UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:124.0) Gecko/20100101 Firefox/124.0",
			Referer:        "https://yandex.ru/",
			AcceptLanguage: lang,
		},
	}
}

// Rotation is the identity and proxy rotation state for one run.
// It is owned by a Transport; all methods are safe for concurrent use.
type Rotation struct {
	mu          sync.Mutex
	identities  []Identity
	proxies     []*url.URL
	identityIdx int
	proxyIdx    int
	successes   int
	rotateAfter int
}

// NewRotation creates rotation state. An empty identity pool falls back to
// DefaultIdentities; an empty proxy list means direct connections.
func NewRotation(identities []Identity, proxies []*url.URL, rotateAfter int) *Rotation {
	if len(identities) == 0 {
		identities = DefaultIdentities()
	}
	if rotateAfter <= 0 {
		rotateAfter = DefaultRotateAfter
	}
	return &Rotation{
		identities:  identities,
		proxies:     proxies,
		rotateAfter: rotateAfter,
	}
}

// Next returns the next identity and the current proxy (nil when none is configured).
func (r *Rotation) Next() (Identity, *url.URL) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.identities[r.identityIdx%len(r.identities)]
	r.identityIdx++
	return id, r.currentLocked()
}

// ReportSuccess counts a successful call made through proxy and advances
// the proxy once rotateAfter successes have accumulated on it.
func (r *Rotation) ReportSuccess(proxy *url.URL) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 || !sameProxy(proxy, r.currentLocked()) {
		return
	}
	r.successes++
	if r.successes >= r.rotateAfter {
		r.advanceLocked()
	}
}

// ReportFailure advances away from proxy if it is still the current one.
// Failures reported by calls that started on an older proxy are ignored.
func (r *Rotation) ReportFailure(proxy *url.URL) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.proxies) == 0 || !sameProxy(proxy, r.currentLocked()) {
		return
	}
	r.advanceLocked()
}

// Proxies returns the number of configured proxies.
func (r *Rotation) Proxies() int {
	return len(r.proxies)
}

func (r *Rotation) currentLocked() *url.URL {
	if len(r.proxies) == 0 {
		return nil
	}
	return r.proxies[r.proxyIdx%len(r.proxies)]
}

func (r *Rotation) advanceLocked() {
	r.proxyIdx = (r.proxyIdx + 1) % len(r.proxies)
	r.successes = 0
}

func sameProxy(a, b *url.URL) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.String() == b.String()
}
