package services

import "strings"

// The CSV files produced and accepted here follow the usual quoting rules:
// fields containing a comma, quote or newline are wrapped in double quotes
// with internal quotes doubled. The parser is deliberately lenient so that
// hand-edited spreadsheet exports survive the trip.

// parseCSV scans text left to right with a single in-quotes flag. A doubled
// quote inside a quoted field emits one literal quote, an unquoted comma ends
// a field, an unquoted newline ends a row and carriage returns are skipped.
// Rows whose fields are all blank after trimming are dropped.
func parseCSV(text string) [][]string {
	var rows [][]string
	var row []string
	var field strings.Builder
	inQuotes := false

	i := 0
	for i < len(text) {
		c := text[i]
		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i += 2
					continue
				}
				inQuotes = false
				i++
				continue
			}
			field.WriteByte(c)
			i++
			continue
		}

		switch c {
		case '"':
			inQuotes = true
		case ',':
			row = append(row, field.String())
			field.Reset()
		case '\n':
			row = append(row, field.String())
			field.Reset()
			rows = append(rows, row)
			row = nil
		case '\r':
			// ignored
		default:
			field.WriteByte(c)
		}
		i++
	}
	row = append(row, field.String())
	rows = append(rows, row)

	kept := rows[:0]
	for _, r := range rows {
		for _, cell := range r {
			if strings.TrimSpace(cell) != "" {
				kept = append(kept, r)
				break
			}
		}
	}
	return kept
}

// writeCSV renders rows as CSV text with standard quoting
func writeCSV(rows [][]string) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(cell))
		}
	}
	return b.String()
}

func escapeCSV(v string) string {
	if strings.ContainsAny(v, ",\"\n\r") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}

// headerIndex maps trimmed header names to their column position. Columns are
// located by name on import, so extra or reordered columns are tolerated. The
// first occurrence of a duplicated header wins.
func headerIndex(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, seen := m[h]; !seen {
			m[h] = i
		}
	}
	return m
}

// cell returns the trimmed value at the given column, tolerating short rows
// and missing columns
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizeItemName builds the upsert key used by the bulk import: trimmed,
// case-insensitive, inner whitespace collapsed to single spaces.
func normalizeItemName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
