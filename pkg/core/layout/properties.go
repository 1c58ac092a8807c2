package layout

import (
	"math"
	"strings"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/core/layout/grid"
)

// maxTokenDepth bounds token-to-token indirection in property values.
const maxTokenDepth = 16

// props reads typed values from an element's properties, resolving design
// tokens and relative lengths.
type props struct {
	list     []ast.Property
	tokens   map[string]ast.PropertyValue
	fontSize float64
}

func (p props) value(name string) (ast.PropertyValue, bool) {
	v, ok := ast.Lookup(p.list, name)
	if !ok {
		return nil, false
	}
	for depth := 0; depth < maxTokenDepth; depth++ {
		ref, isRef := v.(ast.TokenRef)
		if !isRef {
			return v, true
		}
		if v, ok = p.tokens[ref.Path]; !ok {
			return nil, false
		}
	}
	return nil, false
}

// length returns a property in pixels. Percentages resolve against base.
func (p props) length(name string, base float64) (float64, bool) {
	v, ok := p.value(name)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case ast.Number:
		return float64(x), true
	case ast.Length:
		return x.Resolve(base, p.fontSize), true
	case ast.String:
		if l, err := ast.ParseLength(string(x)); err == nil {
			return l.Resolve(base, p.fontSize), true
		}
	}
	return 0, false
}

func (p props) number(name string) (float64, bool) {
	v, ok := p.value(name)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case ast.Number:
		return float64(x), true
	case ast.Length:
		if px, ok := x.ToPx(); ok {
			return px, true
		}
	}
	return 0, false
}

func (p props) str(name string) (string, bool) {
	v, ok := p.value(name)
	if !ok {
		return "", false
	}
	switch x := v.(type) {
	case ast.Keyword:
		return string(x), true
	case ast.String:
		return string(x), true
	}
	return "", false
}

func (p props) boolean(name string) (bool, bool) {
	v, ok := p.value(name)
	if !ok {
		return false, false
	}
	switch x := v.(type) {
	case ast.Bool:
		return bool(x), true
	case ast.Keyword, ast.String:
		s, _ := p.str(name)
		switch strings.ToLower(s) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

// tracks returns the first of names holding a track list, converted to grid
// tracks. Percent tracks resolve against base.
func (p props) tracks(base float64, names ...string) ([]grid.Track, bool) {
	for _, name := range names {
		v, ok := p.value(name)
		if !ok {
			continue
		}
		list, ok := v.(ast.GridTracks)
		if !ok {
			continue
		}
		out := make([]grid.Track, len(list))
		for i, t := range list {
			out[i] = p.track(t, base)
		}
		return out, true
	}
	return nil, false
}

func (p props) track(t ast.TrackSize, base float64) grid.Track {
	switch x := t.(type) {
	case ast.TrackFixed:
		return grid.Px(x.Length.Resolve(base, p.fontSize))
	case ast.TrackFraction:
		return grid.Fr(float64(x))
	case ast.TrackMinContent:
		return grid.Track{Kind: grid.TrackMinContent}
	case ast.TrackMaxContent:
		return grid.Track{Kind: grid.TrackMaxContent}
	case ast.TrackMinMax:
		return grid.MinMax(p.trackMin(x.Min, base), p.trackMax(x.Max, base))
	case ast.TrackRepeat:
		// Only the first size of the pattern is used.
		if len(x.Sizes) > 0 {
			return p.track(x.Sizes[0], base)
		}
	}
	return grid.Auto()
}

func (p props) trackMin(t ast.TrackSize, base float64) float64 {
	switch x := t.(type) {
	case ast.TrackFixed:
		return x.Length.Resolve(base, p.fontSize)
	case ast.TrackMinMax:
		return p.trackMin(x.Min, base)
	}
	return 0
}

func (p props) trackMax(t ast.TrackSize, base float64) float64 {
	switch x := t.(type) {
	case ast.TrackFixed:
		return x.Length.Resolve(base, p.fontSize)
	case ast.TrackMinMax:
		return p.trackMax(x.Max, base)
	}
	return math.Inf(1)
}

// gridLine reads a grid-column or grid-row property as 1-indexed start and
// end lines. Non-positive lines are left unset.
func (p props) gridLine(name string) (start, end int) {
	v, ok := p.value(name)
	if !ok {
		return 0, 0
	}
	switch x := v.(type) {
	case ast.GridLine:
		if x.Start > 0 {
			start = x.Start
		}
		if x.End > 0 {
			end = x.End
		}
	case ast.Number:
		if n := int(x); n > 0 {
			start, end = n, n+1
		}
	}
	return start, end
}
