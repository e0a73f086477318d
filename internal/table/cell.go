// =============================================================================
// Sales Data Merge - Cell Type
// =============================================================================
//
// A Cell is a single typed value in a Table. Cells carry one of five kinds:
//
//   Missing - an absent value (empty input cell, failed parse)
//   String  - free text
//   Int     - 64-bit integer
//   Float   - 64-bit float
//   Date    - a calendar date with no time component
//
// ORDERING:
//   Cells of the same kind compare naturally (numeric, chronological,
//   lexicographic). Cells of different kinds compare by their canonical
//   string form, except that Int and Float compare numerically with each
//   other. Missing sorts after every other value, so ascending sorts place
//   absent data last.
//
// =============================================================================

package table

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of value a Cell holds.
type Kind int

const (
	// KindMissing marks an absent value.
	KindMissing Kind = iota

	// KindString marks free text.
	KindString

	// KindInt marks a 64-bit integer.
	KindInt

	// KindFloat marks a 64-bit float.
	KindFloat

	// KindDate marks a calendar date (midnight UTC, no time component).
	KindDate
)

// Cell is one value in a Table. The zero value is a Missing cell.
type Cell struct {
	Kind  Kind
	Str   string
	Int   int64
	Float float64
	Date  time.Time
}

// Missing returns an absent-value cell.
func Missing() Cell {
	return Cell{Kind: KindMissing}
}

// NewString returns a text cell.
func NewString(s string) Cell {
	return Cell{Kind: KindString, Str: s}
}

// NewInt returns an integer cell.
func NewInt(v int64) Cell {
	return Cell{Kind: KindInt, Int: v}
}

// NewFloat returns a float cell.
func NewFloat(v float64) Cell {
	return Cell{Kind: KindFloat, Float: v}
}

// NewDate returns a date cell. Any time-of-day component of t is dropped.
func NewDate(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{Kind: KindDate, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool {
	return c.Kind == KindMissing
}

// String renders the canonical text form of the cell. Missing cells render
// as the empty string; serialization substitutes the missing token instead.
func (c Cell) String() string {
	switch c.Kind {
	case KindString:
		return c.Str
	case KindInt:
		return strconv.FormatInt(c.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(c.Float, 'f', -1, 64)
	case KindDate:
		return c.Date.Format("2006-01-02")
	default:
		return ""
	}
}

// Number returns the cell's numeric value and whether it has one.
// Int and Float cells convert directly; String cells are parsed after
// normalizing a comma decimal separator to a dot.
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case KindInt:
		return float64(c.Int), true
	case KindFloat:
		return c.Float, true
	case KindString:
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(c.Str), ",", "."), 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// Compare orders two cells: negative if c sorts before other, zero if they
// rank equally, positive if c sorts after. Missing ranks after everything.
func (c Cell) Compare(other Cell) int {
	if c.Kind == KindMissing || other.Kind == KindMissing {
		switch {
		case c.Kind == other.Kind:
			return 0
		case c.Kind == KindMissing:
			return 1
		default:
			return -1
		}
	}

	// Same-kind comparisons use the natural ordering.
	if c.Kind == other.Kind {
		switch c.Kind {
		case KindInt:
			return compareInt64(c.Int, other.Int)
		case KindFloat:
			return compareFloat64(c.Float, other.Float)
		case KindDate:
			return c.Date.Compare(other.Date)
		default:
			return strings.Compare(c.Str, other.Str)
		}
	}

	// Int and Float interoperate numerically.
	if (c.Kind == KindInt || c.Kind == KindFloat) && (other.Kind == KindInt || other.Kind == KindFloat) {
		a, _ := c.Number()
		b, _ := other.Number()
		return compareFloat64(a, b)
	}

	// Everything else falls back to the canonical string forms.
	return strings.Compare(c.String(), other.String())
}

// CompareText orders two cells by their canonical string form, missing last.
// Used where identifiers must sort as text regardless of inferred type.
func (c Cell) CompareText(other Cell) int {
	if c.Kind == KindMissing || other.Kind == KindMissing {
		return c.Compare(other)
	}
	return strings.Compare(c.String(), other.String())
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
