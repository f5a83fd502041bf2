package features

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/types"
)

func TestColumnsAreStable(t *testing.T) {
	cols := Columns()
	names := ColumnNames(cols)

	assert.Equal(t, names, ColumnNames(Columns()))
	assert.Equal(t, "vacancy_id", names[0])

	seen := map[string]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate column %s", n)
		seen[n] = true
	}
	for _, want := range []string{"salary_bucket", "has_python", "employer_has_remote", "primary_domain", "lang_other_count", "tech_stack_size"} {
		assert.True(t, seen[want], "missing column %s", want)
	}

	index := func(name string) int {
		for i, n := range names {
			if n == name {
				return i
			}
		}
		return -1
	}
	assert.Less(t, index("salary_from"), index("city"))
	assert.Less(t, index("role_ml"), index("has_python"))
	assert.Less(t, index("has_python"), index("skill_sql"))
	assert.Less(t, index("domain_finance"), index("edu_required"))
}

func TestCategoryColumnsNeverAbsent(t *testing.T) {
	rec := Default().Derive(&types.RawVacancyFields{ID: 5}, testScrapeTime)

	var categories []string
	for _, c := range Columns() {
		if c.Kind != KindCategory {
			continue
		}
		categories = append(categories, c.Name)
		assert.NotNil(t, c.Get(rec), c.Name)
	}
	assert.ElementsMatch(t, []string{
		"city_tier", "employer_type", "employment_type", "schedule", "work_format", "work_mode",
		"grade", "grade_from_experience", "grade_final", "primary_role", "primary_domain", "lang_english_level",
	}, categories)
}

func TestAsMap(t *testing.T) {
	rec := Default().Derive(pythonVacancy(), testScrapeTime)
	rec.ScrapeRunID = "run-1"
	m := AsMap(Columns(), rec)

	assert.Equal(t, int64(1001), m["vacancy_id"])
	assert.Equal(t, "run-1", m["scrape_run_id"])
	assert.Equal(t, "2025-03-12", m["published_at"])
	assert.Equal(t, testScrapeTime.Format(time.RFC3339), m["scraped_at"])
	assert.Equal(t, true, m["has_python"])
	assert.Nil(t, m["employer_has_remote"])
	assert.Nil(t, m["salary_bucket"])
	assert.Equal(t, 4, m["skills_count"])
}

func TestColumnFormat(t *testing.T) {
	c := Column{Kind: KindFloat}
	assert.Equal(t, "", c.Format(nil))
	assert.Equal(t, "185000", c.Format(185000.0))
	assert.Equal(t, "4.3", c.Format(4.3))
	assert.Equal(t, "true", c.Format(true))
	assert.Equal(t, "42", c.Format(int64(42)))

	d := Column{Kind: KindDate}
	require.Equal(t, "2025-03-12", d.Format(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)))
}
