package io

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
)

// trackProperties hold grid track lists.
var trackProperties = map[string]bool{
	"grid-template-columns": true,
	"grid-template-rows":    true,
	"columns":               true,
	"rows":                  true,
}

// lineProperties hold grid placements.
var lineProperties = map[string]bool{
	"grid-column": true,
	"grid-row":    true,
}

var keywordRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*$`)

// number converts decoded JSON and TOML numbers.
func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	}
	return 0, false
}

// propertyValue converts a decoded property value.
func propertyValue(name string, v any) (ast.PropertyValue, error) {
	if trackProperties[name] {
		return tracksValue(v)
	}
	if lineProperties[name] {
		if s, ok := v.(string); ok && !strings.HasPrefix(s, "$") {
			return gridLineString(s)
		}
		if m, ok := v.(map[string]any); ok {
			return gridLineObject(m)
		}
	}

	if n, ok := number(v); ok {
		return ast.Number(n), nil
	}
	switch x := v.(type) {
	case bool:
		return ast.Bool(x), nil
	case string:
		return stringValue(x)
	case []any:
		return tracksValue(x)
	case map[string]any:
		if _, ok := x["start"]; ok {
			return gridLineObject(x)
		}
	}
	return nil, fmt.Errorf("unsupported value %v", v)
}

func stringValue(s string) (ast.PropertyValue, error) {
	s = strings.TrimSpace(s)
	if path, ok := strings.CutPrefix(s, "$"); ok {
		if err := errors.ValidateTokenPath(path); err != nil {
			return nil, err
		}
		return ast.TokenRef{Path: path}, nil
	}
	if s != "" && (isDigit(s[0]) || s[0] == '.' || s[0] == '-') {
		if l, err := ast.ParseLength(s); err == nil {
			return l, nil
		}
	}
	if keywordRegex.MatchString(s) {
		return ast.Keyword(s), nil
	}
	return ast.String(s), nil
}

func tracksValue(v any) (ast.GridTracks, error) {
	var items []any
	switch x := v.(type) {
	case string:
		parts, err := splitTopLevel(x, ' ')
		if err != nil {
			return nil, err
		}
		for _, p := range parts {
			items = append(items, p)
		}
	case []any:
		items = x
	default:
		return nil, fmt.Errorf("track list must be an array or string, got %T", v)
	}
	out := make(ast.GridTracks, 0, len(items))
	for _, it := range items {
		t, err := trackValue(it)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func trackValue(v any) (ast.TrackSize, error) {
	if n, ok := number(v); ok {
		return ast.TrackFixed{Length: ast.Pixels(n)}, nil
	}
	switch x := v.(type) {
	case string:
		return trackString(x)
	case map[string]any:
		if mm, ok := x["minmax"]; ok {
			pair, ok := mm.([]any)
			if !ok || len(pair) != 2 {
				return nil, fmt.Errorf("minmax needs two sizes")
			}
			lo, err := trackValue(pair[0])
			if err != nil {
				return nil, err
			}
			hi, err := trackValue(pair[1])
			if err != nil {
				return nil, err
			}
			return ast.TrackMinMax{Min: lo, Max: hi}, nil
		}
		if rep, ok := x["repeat"].(map[string]any); ok {
			r := ast.TrackRepeat{}
			if err := repeatCount(&r, rep["count"]); err != nil {
				return nil, err
			}
			sizes, err := tracksValue(rep["sizes"])
			if err != nil {
				return nil, err
			}
			r.Sizes = sizes
			return r, nil
		}
	}
	return nil, fmt.Errorf("invalid track %v", v)
}

func repeatCount(r *ast.TrackRepeat, v any) error {
	if n, ok := number(v); ok && n >= 1 {
		r.Kind, r.Count = ast.RepeatCount, int(n)
		return nil
	}
	switch v {
	case "auto-fill":
		r.Kind = ast.RepeatAutoFill
		return nil
	case "auto-fit":
		r.Kind = ast.RepeatAutoFit
		return nil
	}
	if s, ok := v.(string); ok {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			r.Kind, r.Count = ast.RepeatCount, n
			return nil
		}
	}
	return fmt.Errorf("invalid repeat count %v", v)
}

func trackString(s string) (ast.TrackSize, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "auto":
		return ast.TrackAuto{}, nil
	case "min-content":
		return ast.TrackMinContent{}, nil
	case "max-content":
		return ast.TrackMaxContent{}, nil
	}
	if args, ok := callArgs(s, "minmax"); ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("minmax needs two sizes: %q", s)
		}
		lo, err := trackString(args[0])
		if err != nil {
			return nil, err
		}
		hi, err := trackString(args[1])
		if err != nil {
			return nil, err
		}
		return ast.TrackMinMax{Min: lo, Max: hi}, nil
	}
	if args, ok := callArgs(s, "repeat"); ok {
		if len(args) != 2 {
			return nil, fmt.Errorf("repeat needs a count and sizes: %q", s)
		}
		r := ast.TrackRepeat{}
		if err := repeatCount(&r, strings.TrimSpace(args[0])); err != nil {
			return nil, err
		}
		sizes, err := tracksValue(args[1])
		if err != nil {
			return nil, err
		}
		r.Sizes = sizes
		return r, nil
	}
	if fr, ok := strings.CutSuffix(s, "fr"); ok {
		v, err := strconv.ParseFloat(fr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid fraction %q", s)
		}
		return ast.TrackFraction(v), nil
	}
	l, err := ast.ParseLength(s)
	if err != nil {
		return nil, err
	}
	return ast.TrackFixed{Length: l}, nil
}

// callArgs splits "name(a, b)" into its top-level arguments.
func callArgs(s, name string) ([]string, bool) {
	inner, ok := strings.CutPrefix(s, name+"(")
	if !ok {
		return nil, false
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, false
	}
	args, err := splitTopLevel(inner, ',')
	if err != nil {
		return nil, false
	}
	return args, true
}

// splitTopLevel splits s on sep outside parentheses, dropping empty parts.
func splitTopLevel(s string, sep rune) ([]string, error) {
	var (
		out   []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
		case sep:
			if depth == 0 {
				if part := strings.TrimSpace(s[start:i]); part != "" {
					out = append(out, part)
				}
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	if part := strings.TrimSpace(s[start:]); part != "" {
		out = append(out, part)
	}
	return out, nil
}

// gridLineString parses "2" or "1 / 3".
func gridLineString(s string) (ast.PropertyValue, error) {
	startStr, endStr, hasEnd := strings.Cut(s, "/")
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return nil, fmt.Errorf("invalid grid line %q", s)
	}
	if !hasEnd {
		return ast.Number(start), nil
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return nil, fmt.Errorf("invalid grid line %q", s)
	}
	return ast.GridLine{Start: start, End: end}, nil
}

func gridLineObject(m map[string]any) (ast.PropertyValue, error) {
	var line ast.GridLine
	start, ok := number(m["start"])
	if !ok {
		return nil, fmt.Errorf("grid line needs a numeric start")
	}
	line.Start = int(start)
	if v, ok := m["end"]; ok {
		end, ok := number(v)
		if !ok {
			return nil, fmt.Errorf("grid line end must be a number")
		}
		line.End = int(end)
	}
	return line, nil
}
