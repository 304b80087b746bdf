package pretty

import (
	"strings"
)

// Column formatting constants.
const (
	columnGap      = 2
	maxColumnWidth = 60
)

// FormatColumns renders rows as space-aligned columns, sized to the
// widest cell in each column and capped at maxColumnWidth. A non-empty
// header row is styled and underlined with a separator.
func (s *Styles) FormatColumns(header []string, rows [][]string) string {
	widths := columnWidths(header, rows)
	if len(widths) == 0 {
		return ""
	}

	var builder strings.Builder

	if len(header) > 0 {
		builder.WriteString(s.ColumnHeader.Render(formatColumnRow(header, widths)))
		builder.WriteString("\n")
		builder.WriteString(s.ColumnSeparator.Render(strings.Repeat("-", totalColumnWidth(widths))))
		builder.WriteString("\n")
	}

	for _, row := range rows {
		builder.WriteString(formatColumnRow(row, widths))
		builder.WriteString("\n")
	}

	return builder.String()
}

// columnWidths finds the display width of each column.
func columnWidths(header []string, rows [][]string) []int {
	count := len(header)
	for _, row := range rows {
		if len(row) > count {
			count = len(row)
		}
	}
	if count == 0 {
		return nil
	}

	widths := make([]int, count)
	measure := func(row []string) {
		for i, cell := range row {
			if n := len(cell); n > widths[i] {
				widths[i] = n
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	for i := range widths {
		if widths[i] > maxColumnWidth {
			widths[i] = maxColumnWidth
		}
	}
	return widths
}

// formatColumnRow pads each cell to its column width. The last cell is
// left unpadded so lines carry no trailing spaces.
func formatColumnRow(row []string, widths []int) string {
	var builder strings.Builder
	for i, cell := range row {
		cell = truncateString(cell, widths[i])
		if i == len(row)-1 {
			builder.WriteString(cell)
			break
		}
		builder.WriteString(cell)
		builder.WriteString(strings.Repeat(" ", widths[i]-len(cell)+columnGap))
	}
	return builder.String()
}

// totalColumnWidth is the full row width including gaps.
func totalColumnWidth(widths []int) int {
	total := 0
	for _, w := range widths {
		total += w
	}
	return total + columnGap*(len(widths)-1)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	if maxLen <= 3 {
		return str[:maxLen]
	}
	return str[:maxLen-3] + "..."
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[len(path)-maxLen:]
	}
	return "..." + path[len(path)-maxLen+3:]
}
