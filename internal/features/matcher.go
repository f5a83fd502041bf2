package features

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher tests normalized text for one variant of a feature.
type Matcher interface {
	Match(text string) bool
}

type term string

func (t term) Match(text string) bool {
	return strings.Contains(text, string(t))
}

// Term matches a literal substring, case-insensitively.
func Term(s string) Matcher {
	return term(Normalize(s))
}

// Terms is shorthand for a list of Term matchers.
func Terms(ss ...string) []Matcher {
	out := make([]Matcher, 0, len(ss))
	for _, s := range ss {
		out = append(out, Term(s))
	}
	return out
}

type pattern struct {
	re *regexp.Regexp
}

func (p pattern) Match(text string) bool {
	return p.re.MatchString(text)
}

// Pattern matches a regular expression, case-insensitively. It panics on an
// invalid expression, so it is meant for package-level tables.
func Pattern(expr string) Matcher {
	return pattern{re: regexp.MustCompile(`(?i)` + expr)}
}

type except struct {
	m       Matcher
	phrases *strings.Replacer
}

func (e except) Match(text string) bool {
	return e.m.Match(e.phrases.Replace(text))
}

// Except matches m after blanking out the given phrases, for words that are
// also common in ordinary prose.
func Except(m Matcher, phrases ...string) Matcher {
	pairs := make([]string, 0, 2*len(phrases))
	for _, p := range phrases {
		pairs = append(pairs, Normalize(p), " ")
	}
	return except{m: m, phrases: strings.NewReplacer(pairs...)}
}

// Hit is one gazetteer entry found in a text.
type Hit struct {
	Name string
	Pos  int
}

// Gazetteer matches whole named entities, such as metro stations, in a text.
// An entry only counts when it is not glued to a neighbouring word on its
// left and is followed by the end of the text or a list separator.
type Gazetteer struct {
	names      []string
	normalized []string
}

// NewGazetteer creates a gazetteer over the given display names.
func NewGazetteer(names ...string) *Gazetteer {
	g := &Gazetteer{}
	for _, n := range names {
		g.names = append(g.names, n)
		g.normalized = append(g.normalized, Normalize(n))
	}
	return g
}

// Find returns every entry found in text, ordered by position, each name at most once.
func (g *Gazetteer) Find(text string) []Hit {
	text = Normalize(text)
	var hits []Hit
	for i, entry := range g.normalized {
		if pos := g.index(text, entry); pos >= 0 {
			hits = append(hits, Hit{Name: g.names[i], Pos: pos})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Pos < hits[b].Pos })
	return hits
}

// Match reports whether any entry occurs in text.
func (g *Gazetteer) Match(text string) bool {
	return len(g.Find(text)) > 0
}

func (g *Gazetteer) index(text, entry string) int {
	from := 0
	for {
		i := strings.Index(text[from:], entry)
		if i < 0 {
			return -1
		}
		start := from + i
		end := start + len(entry)
		if leftBoundary(text, start) && rightBoundary(text, end) {
			return start
		}
		from = start + 1
	}
}

func leftBoundary(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func rightBoundary(text string, pos int) bool {
	if pos == len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return r == ',' || r == ';' || r == '(' || r == '\n'
}
