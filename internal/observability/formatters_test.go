package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/skillra/hh-harvester/internal/crawling"
	"github.com/skillra/hh-harvester/internal/types"
)

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(&crawling.RunStats{
		RunID:         "run-1",
		Duration:      90 * time.Second,
		Rows:          42,
		Accepted:      44,
		Discarded:     2,
		Pages:         7,
		Shards:        48,
		ShardsRetired: 48,
		TargetReached: true,
	}, "data/out.csv")
	output := buf.String()

	assert.Contains(t, output, "CRAWL SUMMARY")
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "data/out.csv")
	assert.Contains(t, output, "1m30s")
	assert.Contains(t, output, "Rows:       42")
	assert.Contains(t, output, "48 of 48 retired")
	assert.Contains(t, output, "Target row count reached")
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRunSummary(nil, "x")
	assert.Empty(t, buf.String())
}

func TestPrintRecord(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	title := "Очень длинное название вакансии для проверки обрезки строки в рамке"
	mid := 185000.0
	p.PrintRecord(&types.VacancyRecord{
		VacancyID:    7,
		Title:        &title,
		GradeFinal:   "senior",
		PrimaryRole:  "backend",
		WorkMode:     "remote",
		SalaryMidRUB: &mid,
		Flags: map[string]bool{
			"has_go": true, "has_python": true, "has_java": false,
			"skill_sql": true, "role_backend": true, "soft_communication": true, "benefit_dms": true,
		},
	})
	output := buf.String()

	assert.Contains(t, output, "DERIVED VACANCY")
	assert.Contains(t, output, "185000 RUB")
	assert.Contains(t, output, "Flags set: 6")
	assert.Contains(t, output, "benefit_dms")
	assert.Contains(t, output, "... and 1 more")
	assert.NotContains(t, output, "has_java")
	assert.Contains(t, output, "...")

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 60, line)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	assert.Empty(t, buf.String())

	NewLogger(&buf, true).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "k=v")
}
