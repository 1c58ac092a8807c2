package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a length unit.
type Unit string

// Length units.
const (
	Px      Unit = "px"
	Pt      Unit = "pt"
	Mm      Unit = "mm"
	Cm      Unit = "cm"
	In      Unit = "in"
	Percent Unit = "%"
	Em      Unit = "em"
	Rem     Unit = "rem"
)

// CSS reference pixel density.
const pxPerInch = 96.0

// Length is a numeric value with a unit.
type Length struct {
	Value float64
	Unit  Unit
}

// Pixels returns a px length.
func Pixels(v float64) Length { return Length{Value: v, Unit: Px} }

// ToPx converts absolute units to pixels. Relative units (%, em, rem)
// report false because they need a reference size.
func (l Length) ToPx() (float64, bool) {
	switch l.Unit {
	case Px, "":
		return l.Value, true
	case Pt:
		return l.Value * pxPerInch / 72, true
	case Mm:
		return l.Value * pxPerInch / 25.4, true
	case Cm:
		return l.Value * pxPerInch / 2.54, true
	case In:
		return l.Value * pxPerInch, true
	}
	return 0, false
}

// Resolve converts l to pixels, using base for percentages and fontSize
// for em/rem.
func (l Length) Resolve(base, fontSize float64) float64 {
	if px, ok := l.ToPx(); ok {
		return px
	}
	switch l.Unit {
	case Percent:
		return base * l.Value / 100
	case Em, Rem:
		return fontSize * l.Value
	}
	return 0
}

// IsRelative reports whether the length needs a reference size.
func (l Length) IsRelative() bool {
	_, ok := l.ToPx()
	return !ok
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + string(l.Unit)
}

var unitSuffixes = []Unit{Rem, Px, Pt, Mm, Cm, In, Em, Percent}

// ParseLength parses strings such as "16px", "1.5em" or "50%".
// A bare number is read as pixels.
func ParseLength(s string) (Length, error) {
	s = strings.TrimSpace(s)
	unit := Px
	num := s
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(s, string(u)))
			break
		}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("invalid length %q", s)
	}
	return Length{Value: v, Unit: unit}, nil
}
