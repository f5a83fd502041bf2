package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/skillra/hh-harvester/internal/features"
	"github.com/skillra/hh-harvester/internal/types"
)

// dialect holds the differences between the two SQL backends.
type dialect struct {
	types       map[features.Kind]string
	placeholder func(n int) string
	// value converts a column value into a driver argument.
	value func(c features.Column, v any) any
}

var postgresDialect = dialect{
	types: map[features.Kind]string{
		features.KindInt:      "BIGINT",
		features.KindFloat:    "DOUBLE PRECISION",
		features.KindBool:     "BOOLEAN",
		features.KindText:     "TEXT",
		features.KindCategory: "TEXT",
		features.KindDate:     "DATE",
		features.KindTime:     "TIMESTAMPTZ",
	},
	placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	value:       func(_ features.Column, v any) any { return v },
}

var sqliteDialect = dialect{
	types: map[features.Kind]string{
		features.KindInt:      "INTEGER",
		features.KindFloat:    "REAL",
		features.KindBool:     "INTEGER",
		features.KindText:     "TEXT",
		features.KindCategory: "TEXT",
		features.KindDate:     "TEXT",
		features.KindTime:     "TEXT",
	},
	placeholder: func(int) string { return "?" },
	value: func(c features.Column, v any) any {
		switch x := v.(type) {
		case time.Time:
			// UTC keeps the text comparable in the upsert guard
			if c.Kind == features.KindTime {
				x = x.UTC()
			}
			return c.Format(x)
		case bool:
			if x {
				return 1
			}
			return 0
		}
		return v
	},
}

func (d dialect) createTable(columns []features.Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		def := c.Name + " " + d.types[c.Kind]
		if c.Name == "vacancy_id" {
			def += " PRIMARY KEY"
		}
		defs[i] = def
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", TableName, strings.Join(defs, ",\n\t"))
}

// upsert inserts a row, replacing an existing one only when the new row was
// scraped later.
func (d dialect) upsert(columns []features.Column) string {
	names := features.ColumnNames(columns)
	params := make([]string, len(columns))
	var updates []string
	for i, c := range columns {
		params[i] = d.placeholder(i + 1)
		if c.Name != "vacancy_id" {
			updates = append(updates, fmt.Sprintf("%s = excluded.%s", c.Name, c.Name))
		}
	}
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)\nON CONFLICT (vacancy_id) DO UPDATE SET %s\nWHERE %s.scraped_at < excluded.scraped_at",
		TableName, strings.Join(names, ", "), strings.Join(params, ", "), strings.Join(updates, ", "), TableName,
	)
}

func (d dialect) updateBucket() string {
	return fmt.Sprintf("UPDATE %s SET salary_bucket = %s WHERE vacancy_id = %s",
		TableName, d.placeholder(1), d.placeholder(2))
}

func (d dialect) args(columns []features.Column, rec *types.VacancyRecord) []any {
	args := make([]any, len(columns))
	for i, c := range columns {
		args[i] = d.value(c, c.Get(rec))
	}
	return args
}
