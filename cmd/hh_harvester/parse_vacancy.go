package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/skillra/hh-harvester/internal/config"
	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/observability"
	"github.com/skillra/hh-harvester/internal/parsing"
	"github.com/skillra/hh-harvester/internal/schemas"
)

var parseVacancyCmd = &cobra.Command{
	Use:   "parse-vacancy",
	Short: "Derive the feature row of a saved posting page",
	Long: "Parse a saved vacancy page (and optionally its employer page) offline and print the " +
		"derived row as JSON. With --validate the row is checked against the output JSON schema.",
	Args: cobra.NoArgs,
	RunE: runParseVacancy,
}

var (
	parseFile         string
	parseEmployerFile string
	parsePageURL      string
	parseConfigFile   string
	parseValidate     bool
	parseSummary      bool
)

func init() {
	f := parseVacancyCmd.Flags()
	f.StringVarP(&parseFile, "file", "f", "", "Path to saved vacancy HTML (required)")
	f.StringVar(&parseEmployerFile, "employer-file", "", "Path to saved employer HTML")
	f.StringVar(&parsePageURL, "url", "", "Original page URL, used when the page carries no id")
	f.StringVarP(&parseConfigFile, "config", "c", "", "YAML configuration file (currency rates, domain policy)")
	f.BoolVar(&parseValidate, "validate", false, "Validate the row against the output JSON schema")
	f.BoolVar(&parseSummary, "summary", false, "Print a readable digest instead of JSON")
	_ = parseVacancyCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(parseVacancyCmd)
}

func runParseVacancy(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(parseConfigFile)
	if err != nil {
		return err
	}

	body, err := os.ReadFile(parseFile)
	if err != nil {
		return fmt.Errorf("failed to read vacancy file: %w", err)
	}
	raw, fieldErrs := parsing.ParseVacancy(string(body), parsePageURL)
	for _, fe := range fieldErrs {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", fe)
	}
	if raw.ID != 0 {
		raw.URL = fmt.Sprintf("%s/vacancy/%d", parsing.SiteBase, raw.ID)
	}

	if parseEmployerFile != "" {
		employer, err := os.ReadFile(parseEmployerFile)
		if err != nil {
			return fmt.Errorf("failed to read employer file: %w", err)
		}
		raw.Employer = parsing.ParseEmployer(string(employer))
	}

	engine := cfg.Engine()
	rec := engine.Derive(raw, time.Now())
	rec.ScrapeRunID = uuid.NewString()

	cols := engine.Columns()
	row := features.AsMap(cols, rec)
	if parseValidate {
		if err := schemas.ValidateRecord(cols, row); err != nil {
			return fmt.Errorf("derived row does not validate against schema: %w", err)
		}
	}

	if parseSummary {
		observability.NewPrinter(cmd.OutOrStdout()).PrintRecord(rec)
		return nil
	}
	jsonBytes, err := json.MarshalIndent(row, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
	return nil
}
