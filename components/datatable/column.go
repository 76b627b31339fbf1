package datatable

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Direction is the sort direction applied to a column.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection normalizes a direction string. Unknown values return "".
func ParseDirection(value string) Direction {
	switch Direction(strings.ToLower(strings.TrimSpace(value))) {
	case Asc:
		return Asc
	case Desc:
		return Desc
	default:
		return ""
	}
}

// Cell is the display projection of one field value.
type Cell struct {
	Text    string `json:"text"`
	Class   string `json:"class,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// FilterFunc reports whether a row passes the requested filter values.
type FilterFunc[R any] func(row R, values []string) bool

// Column maps one record field to an extractor, a renderer and an optional
// filter predicate. Nil hooks fall back to accessor-based defaults.
type Column[R any] struct {
	Key            string
	Header         string
	Accessor       func(R) any
	Compare        func(a, b R) int
	Render         func(R) Cell
	Filter         FilterFunc[R]
	DisableSorting bool
	DisableHiding  bool
}

func (c Column[R]) value(row R) any {
	if c.Accessor == nil {
		return nil
	}
	return c.Accessor(row)
}

func (c Column[R]) compare(a, b R) int {
	if c.Compare != nil {
		return c.Compare(a, b)
	}
	return CompareValues(c.value(a), c.value(b))
}

func (c Column[R]) render(row R) Cell {
	if c.Render != nil {
		return c.Render(row)
	}
	return Cell{Text: fmt.Sprint(c.value(row))}
}

func (c Column[R]) matches(row R, values []string) bool {
	if len(values) == 0 {
		return true
	}
	if c.Filter != nil {
		return c.Filter(row, values)
	}
	return InSet(fmt.Sprint(c.value(row)), values)
}

// InSet is the set-membership predicate used by enumerated columns.
func InSet(value string, accepted []string) bool {
	return slices.Contains(accepted, value)
}

// CompareValues orders two accessor values of the same kind.
func CompareValues(a, b any) int {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return cmp.Compare(av, bv)
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return cmp.Compare(av, bv)
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv)
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv)
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		}
	case fmt.Stringer:
		if bv, ok := b.(fmt.Stringer); ok {
			return strings.Compare(av.String(), bv.String())
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
