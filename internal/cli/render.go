package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mickamy/sqltrail"
	"github.com/mickamy/sqltrail/internal/cli/config"
)

func renderRecords(w io.Writer, records []*sqltrail.Metadata, format string) error {
	if format == config.OutputJSON {
		out := make([]map[string]any, len(records))
		for i, m := range records {
			out[i] = m.Map()
		}
		return renderJSON(w, out)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "operation", "tables", "operator", "operated at"})
	for i, m := range records {
		op := string(m.Operation())
		if op == "" {
			op = "-"
		}
		t.AppendRow(table.Row{i, op, strings.Join(m.Tables(), ", "), m.Operator().Name, m.Time().Format(time.RFC3339)})
	}
	t.Render()
	return nil
}

func renderRows(w io.Writer, rows *sql.Rows, format string) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return err
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if format == config.OutputJSON {
		if results == nil {
			results = []map[string]any{}
		}
		return renderJSON(w, results)
	}
	if len(results) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := make(table.Row, len(cols))
	for i, col := range cols {
		header[i] = col
	}
	t.AppendHeader(header)
	for _, result := range results {
		row := make(table.Row, len(cols))
		for i, col := range cols {
			row[i] = result[col]
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
