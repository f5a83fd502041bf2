package features

import (
	"strings"
	"unicode/utf8"
)

// TextStats are the structural counters of a description.
type TextStats struct {
	Chars      int
	Words      int
	Bullets    int
	Paragraphs int
}

// DescribeText counts runes, words, bullet lines and paragraphs. A paragraph
// is a run of non-blank lines; non-empty text always has at least one.
func DescribeText(text string) TextStats {
	s := TextStats{
		Chars: utf8.RuneCountInString(text),
		Words: len(strings.Fields(text)),
	}
	prevBlank := true
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			prevBlank = true
			continue
		}
		if isBullet(line) {
			s.Bullets++
		}
		if prevBlank {
			s.Paragraphs++
		}
		prevBlank = false
	}
	return s
}

// countItems counts the non-blank lines of a section, which is how many
// requirements or duties it lists.
func countItems(section *string) int {
	if section == nil {
		return 0
	}
	n := 0
	for _, line := range strings.Split(*section, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") || strings.HasPrefix(line, "•")
}

// sectionSkillHits counts the true stack and data-skill flags whose matchers
// also hit the given section.
func sectionSkillHits(section *string, flags map[string]bool, families ...Family) int {
	if section == nil {
		return 0
	}
	t := Normalize(*section)
	n := 0
	for _, f := range families {
		for _, feat := range f.Features {
			if flags[feat.Name] && feat.Match(t) {
				n++
			}
		}
	}
	return n
}
