package market

import (
	"fmt"
	"strings"
)

// Side: +1 long, -1 short
type Side int8

const (
	Long  Side = +1
	Short Side = -1
)

func (s Side) String() string {
	switch s {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return fmt.Sprintf("Side(%d)", int8(s))
	}
}

func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long":
		return Long, nil
	case "short":
		return Short, nil
	default:
		return 0, fmt.Errorf("unknown side %q (supported: long, short)", s)
	}
}

// Sides is the set of trading directions enabled for a run.
type Sides struct {
	Long  bool
	Short bool
}

func (s Sides) Any() bool {
	return s.Long || s.Short
}

func (s Sides) String() string {
	switch {
	case s.Long && s.Short:
		return "long+short"
	case s.Long:
		return "long"
	case s.Short:
		return "short"
	default:
		return "none"
	}
}

// ParseSides accepts names like ["long"] or ["long", "short"].
func ParseSides(names []string) (Sides, error) {
	var out Sides
	for _, n := range names {
		side, err := ParseSide(n)
		if err != nil {
			return Sides{}, err
		}
		if side == Long {
			out.Long = true
		} else {
			out.Short = true
		}
	}
	return out, nil
}
