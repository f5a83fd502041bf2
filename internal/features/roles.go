package features

import "sort"

// DefaultRole and DefaultDomain are the roll-up values when no flag is set.
const (
	DefaultRole   = "other"
	DefaultDomain = "none"
)

// rolePrecedence decides primary_role when several role flags are set.
var rolePrecedence = []string{
	"ml", "data", "devops", "backend", "frontend", "fullstack", "mobile", "qa", "product", "manager", "analyst",
}

// PrimaryRole returns the highest-precedence role whose flag is true.
func PrimaryRole(flags map[string]bool) string {
	for _, role := range rolePrecedence {
		if flags["role_"+role] {
			return role
		}
	}
	return DefaultRole
}

// DomainPolicy picks primary_domain from the true domain names.
type DomainPolicy interface {
	Primary(domains []string) string
}

// PriorityPolicy walks a fixed priority list.
type PriorityPolicy struct {
	Order []string
}

// DefaultDomainPriority is the order used by the default engine.
var DefaultDomainPriority = []string{"finance", "ecommerce", "retail", "telecom", "state", "it_product"}

// Primary implements DomainPolicy.
func (p PriorityPolicy) Primary(domains []string) string {
	set := make(map[string]struct{}, len(domains))
	for _, d := range domains {
		set[d] = struct{}{}
	}
	for _, d := range p.Order {
		if _, ok := set[d]; ok {
			return d
		}
	}
	return DefaultDomain
}

// AlphabeticalPolicy picks the alphabetically first domain.
type AlphabeticalPolicy struct{}

// Primary implements DomainPolicy.
func (AlphabeticalPolicy) Primary(domains []string) string {
	if len(domains) == 0 {
		return DefaultDomain
	}
	sorted := append([]string(nil), domains...)
	sort.Strings(sorted)
	return sorted[0]
}

// trueDomains lists the domain names (without prefix) whose flags are true.
func trueDomains(family Family, flags map[string]bool) []string {
	var out []string
	for _, name := range family.Names() {
		if flags[name] {
			out = append(out, name[len("domain_"):])
		}
	}
	return out
}
