// Package level parses the row-based power-up layouts raced on.
//
// A level is an ordered list of fixed-width rows. Each character maps to a
// lane: '.' is empty and '1' places a power-up. Rows repeat once the list is
// exhausted. Lines starting with '#' are comments.
//
//	# opening
//	..1
//	.1.
//	1.1
package level

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Row characters.
const (
	CellEmpty   = '.'
	CellPowerUp = '1'
	CommentMark = '#'
)

// RowError describes a row that was skipped while parsing.
type RowError struct {
	Line   int    // 1-based source line
	Text   string // Raw row text
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("level: line %d %q: %s", e.Line, e.Text, e.Reason)
}

// Level is an immutable power-up layout.
type Level struct {
	ID      string
	Name    string
	Width   int
	Rows    [][]bool
	Skipped []RowError // Rows rejected during parsing
}

// Len returns the number of valid rows.
func (l *Level) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Rows)
}

// Empty reports whether the level has no usable rows.
func (l *Level) Empty() bool {
	return l.Len() == 0
}

// Row returns row i, wrapping with modulo so rows repeat.
// Returns nil for an empty level.
func (l *Level) Row(i int) []bool {
	n := l.Len()
	if n == 0 {
		return nil
	}
	i %= n
	if i < 0 {
		i += n
	}
	return l.Rows[i]
}

// Count returns the number of power-ups placed in one pass over the rows.
func (l *Level) Count() int {
	if l == nil {
		return 0
	}
	count := 0
	for _, row := range l.Rows {
		for _, on := range row {
			if on {
				count++
			}
		}
	}
	return count
}

// Parse reads rows from r. Blank and comment lines are ignored; rows with the wrong width
// or characters outside the alphabet are recorded in Skipped rather than
// failing the whole level. Only read errors are returned.
func Parse(r io.Reader, width int) (*Level, error) {
	lvl := &Level{Width: width}

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if ignored(text) {
			continue
		}
		row, reason := parseRow(text, width)
		if reason != "" {
			lvl.Skipped = append(lvl.Skipped, RowError{Line: line, Text: text, Reason: reason})
			continue
		}
		lvl.Rows = append(lvl.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("level: read rows: %w", err)
	}

	return lvl, nil
}

func ignored(text string) bool {
	return text == "" || text[0] == CommentMark
}

// ParseString is Parse over an in-memory string.
func ParseString(s string, width int) *Level {
	// strings.Reader never fails
	lvl, _ := Parse(strings.NewReader(s), width)
	return lvl
}

// FromRows builds a level from row strings, skipping malformed ones.
func FromRows(id, name string, width int, rows []string) *Level {
	lvl := &Level{ID: id, Name: name, Width: width}
	for i, text := range rows {
		text = strings.TrimSpace(text)
		if ignored(text) {
			continue
		}
		row, reason := parseRow(text, width)
		if reason != "" {
			lvl.Skipped = append(lvl.Skipped, RowError{Line: i + 1, Text: text, Reason: reason})
			continue
		}
		lvl.Rows = append(lvl.Rows, row)
	}
	return lvl
}

// parseRow converts one row. A non-empty reason means the row is invalid.
func parseRow(text string, width int) ([]bool, string) {
	if len(text) != width {
		return nil, fmt.Sprintf("width %d, want %d", len(text), width)
	}

	row := make([]bool, width)
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case CellEmpty:
		case CellPowerUp:
			row[i] = true
		default:
			return nil, fmt.Sprintf("invalid character %q at column %d", text[i], i+1)
		}
	}
	return row, ""
}
