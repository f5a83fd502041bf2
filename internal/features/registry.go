package features

// Feature is one named boolean flag and the variants that set it.
type Feature struct {
	Name     string
	Matchers []Matcher
}

// Match reports whether any variant occurs in normalized text.
func (f Feature) Match(text string) bool {
	for _, m := range f.Matchers {
		if m.Match(text) {
			return true
		}
	}
	return false
}

// Family is an ordered group of flags evaluated over the same text source.
type Family struct {
	Name     string
	Features []Feature
}

// Names returns the flag names in registry order.
func (f Family) Names() []string {
	names := make([]string, len(f.Features))
	for i, feat := range f.Features {
		names[i] = feat.Name
	}
	return names
}

// Evaluate sets every flag of the family into flags. Flags never exclude
// each other. When the source text is absent nothing is written, which
// leaves the whole family absent.
func (f Family) Evaluate(text string, present bool, flags map[string]bool) {
	if !present {
		return
	}
	for _, feat := range f.Features {
		flags[feat.Name] = feat.Match(text)
	}
}

// Family names used by the engine.
const (
	FamilyRole      = "role"
	FamilyStack     = "stack"
	FamilyDataSkill = "data_skill"
	FamilyBenefit   = "benefit"
	FamilySoft      = "soft"
	FamilyDomain    = "domain"
	FamilyEmployer  = "employer"
)

// Registry holds the flag families in column order.
type Registry struct {
	families []Family
	index    map[string]int
}

// NewRegistry builds a registry. Adding a skill is a new Feature entry in
// one of the families; nothing else needs to change.
func NewRegistry(families ...Family) *Registry {
	r := &Registry{index: make(map[string]int)}
	for _, f := range families {
		r.index[f.Name] = len(r.families)
		r.families = append(r.families, f)
	}
	return r
}

// Family returns the family with the given name.
func (r *Registry) Family(name string) (Family, bool) {
	i, ok := r.index[name]
	if !ok {
		return Family{}, false
	}
	return r.families[i], true
}

// Families returns all families in registry order.
func (r *Registry) Families() []Family {
	return r.families
}

// CountTrue counts the true flags among names.
func CountTrue(flags map[string]bool, names ...string) int {
	n := 0
	for _, name := range names {
		if flags[name] {
			n++
		}
	}
	return n
}
