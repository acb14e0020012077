// Package token holds source positions shared by the PHP syntax layer and lint diagnostics.
package token

import "fmt"

// Position represents a location in a PHP source file.
type Position struct {
	Line   int `json:"line"`   // 1-based line number
	Column int `json:"column"` // 1-based column number (bytes)
	Offset int `json:"offset"` // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// String formats the position as "line:column", or "-" when unknown.
func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}
