package parsers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

var (
	riderColumns    = []string{"rider", "rider name", "name", "athlete"}
	positionColumns = []string{"pos", "position", "place", "finish", "result"}
	classColumns    = []string{"class", "category"}
)

func normalizeColumn(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "", ".", "").Replace(s)
}

// findColumn searches for a column by multiple possible names (case-insensitive).
func findColumn(header []string, possibleNames []string) int {
	for i, col := range header {
		colNorm := normalizeColumn(col)
		for _, name := range possibleNames {
			if colNorm == normalizeColumn(name) {
				return i
			}
		}
	}
	return -1
}

// detectHeaderRow scans the first rows for one naming both a rider and a
// position column.
func detectHeaderRow(rows [][]string) int {
	maxRows := min(len(rows), 5)
	for i := 0; i < maxRows; i++ {
		if findColumn(rows[i], riderColumns) >= 0 && findColumn(rows[i], positionColumns) >= 0 {
			return i
		}
	}
	return -1
}

// parsePosition accepts "1", "1st", "P3". Anything else (DNF, DNS, DQ)
// reports ok=false.
func parsePosition(s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "p")
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		s = strings.TrimSuffix(s, suffix)
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// extractRows reads rider rows below the detected header. Rows without a
// numeric position are skipped.
func extractRows(rows [][]string) ([]Row, error) {
	headerIdx := detectHeaderRow(rows)
	if headerIdx < 0 {
		return nil, fmt.Errorf("no header row with rider and position columns")
	}
	header := rows[headerIdx]
	riderCol := findColumn(header, riderColumns)
	posCol := findColumn(header, positionColumns)
	classCol := findColumn(header, classColumns)

	var out []Row
	for _, row := range rows[headerIdx+1:] {
		if riderCol >= len(row) || posCol >= len(row) {
			continue
		}
		rider := strings.Join(strings.Fields(row[riderCol]), " ")
		if rider == "" {
			continue
		}
		pos, ok := parsePosition(row[posCol])
		if !ok {
			continue
		}
		r := Row{Rider: rider, Position: pos}
		if classCol >= 0 && classCol < len(row) {
			r.Class = strings.TrimSpace(row[classCol])
		}
		out = append(out, r)
	}
	return out, nil
}

// preprocessCSVData strips a UTF-8 BOM, normalizes line endings, and
// auto-detects a comma or tab delimiter from the first lines.
func preprocessCSVData(data []byte) (string, rune, error) {
	if len(data) == 0 {
		return "", ',', fmt.Errorf("empty CSV data")
	}
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	cleaned := string(bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n")))

	lines := strings.SplitN(cleaned, "\n", 6)
	commaCount, tabCount := 0, 0
	for _, line := range lines[:min(len(lines), 5)] {
		commaCount += strings.Count(line, ",")
		tabCount += strings.Count(line, "\t")
	}
	if tabCount > commaCount {
		return cleaned, '\t', nil
	}
	return cleaned, ',', nil
}
