package parsing

import (
	"strings"
)

// skillNormalizations maps common key-skill variants to canonical names
var skillNormalizations = map[string]string{
	"golang":       "Go",
	"go lang":      "Go",
	"javascript":   "JavaScript",
	"js":           "JavaScript",
	"typescript":   "TypeScript",
	"ts":           "TypeScript",
	"k8s":          "Kubernetes",
	"kubernetes":   "Kubernetes",
	"react.js":     "React",
	"reactjs":      "React",
	"vue.js":       "Vue",
	"vuejs":        "Vue",
	"node.js":      "Node.js",
	"nodejs":       "Node.js",
	"postgres":     "PostgreSQL",
	"postgresql":   "PostgreSQL",
	"ms sql":       "MS SQL",
	"mssql":        "MS SQL",
	"power bi":     "Power BI",
	"powerbi":      "Power BI",
	"scikit-learn": "scikit-learn",
	"sklearn":      "scikit-learn",
	"c#":           "C#",
	"c++":          "C++",
	"1c":           "1С",
	"1с":           "1С",
}

// NormalizeSkillName normalizes a skill name to its canonical form
func NormalizeSkillName(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	return normalized
}

// NormalizeSkills canonicalizes skill names and drops case-insensitive duplicates,
// keeping the first occurrence. A nil input stays nil so that a missing
// skills block remains distinguishable from an empty one.
func NormalizeSkills(skills []string) []string {
	if skills == nil {
		return nil
	}

	normalized := make([]string, 0, len(skills))
	seen := make(map[string]struct{})

	for _, skill := range skills {
		name := NormalizeSkillName(skill)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, name)
	}

	return normalized
}
