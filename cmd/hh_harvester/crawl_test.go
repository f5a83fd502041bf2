package main

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillra/hh-harvester/internal/config"
)

// newSite serves one vacancy in the no-experience shard of every area and
// empty listings everywhere else.
func newSite(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case r.URL.Path == "/search/vacancy":
			if r.URL.Query().Get("experience") == "noExperience" {
				_, _ = fmt.Fprint(w, `<html><body><a data-qa="serp-item__title" href="/vacancy/501">Junior</a></body></html>`)
				return
			}
			_, _ = fmt.Fprint(w, `<html><body></body></html>`)
		case r.URL.Path == "/vacancy/501":
			_, _ = fmt.Fprint(w, `<html><body>
<h1 data-qa="vacancy-title">Junior Go developer</h1>
<div data-qa="vacancy-salary">от 90 000 ₽ на руки</div>
<div data-qa="vacancy-description"><p>Go, PostgreSQL, Docker.</p></div>
</body></html>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestCrawlCommand_WritesCSV(t *testing.T) {
	server, _ := newSite(t)
	output := filepath.Join(t.TempDir(), "out.csv")

	stdout, _, err := executeCommand(t, "crawl",
		"--base-url", server.URL,
		"--areas", "1",
		"--delay", "0",
		"--workers", "2",
		"--output", output,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "CRAWL SUMMARY")
	assert.Contains(t, stdout, "Accepted rows: 1")
	assert.Contains(t, stdout, "Output: "+output)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "vacancy_id", rows[0][0])
	assert.Equal(t, "501", rows[1][0])
	assert.Contains(t, strings.Join(rows[1], ","), "https://hh.ru/vacancy/501")
}

func TestCrawlCommand_ConfigErrorsAbortBeforeFetch(t *testing.T) {
	server, hits := newSite(t)
	dir := t.TempDir()
	proxies := filepath.Join(dir, "proxies.txt")
	require.NoError(t, os.WriteFile(proxies, []byte("not a proxy\n"), 0o644))

	tests := []struct {
		name  string
		args  []string
		field string
	}{
		{"non-positive area", []string{"--areas", "0"}, "Areas"},
		{"missing proxy file", []string{"--proxies", filepath.Join(dir, "missing.txt")}, "proxies"},
		{"malformed proxy", []string{"--proxies", proxies}, "proxies"},
		{"unreachable database", []string{"--output", "postgres://nobody@127.0.0.1:1/none?connect_timeout=1"}, "output"},
		{"missing config file", []string{"--config", filepath.Join(dir, "missing.yaml")}, "config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"crawl", "--base-url", server.URL, "--delay", "0",
				"--output", filepath.Join(t.TempDir(), "out.csv")}, tt.args...)
			_, _, err := executeCommand(t, args...)

			var cfgErr *config.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Contains(t, cfgErr.Field, tt.field)
		})
	}
	assert.Zero(t, hits.Load())
}

func TestCrawlCommand_FlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("limit: 5\nworkers: 3\nareas: [1, 2]\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.NoError(t, crawlCmd.Flags().Parse([]string{"--workers", "7", "--areas", "9"}))
	t.Cleanup(func() { resetFlags(crawlCmd) })
	applyCrawlFlags(crawlCmd.Flags(), cfg)

	assert.Equal(t, 5, cfg.Target)
	assert.Equal(t, 7, cfg.Workers)
	assert.Equal(t, []int{9}, cfg.Areas)
}
