package io

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/seed/pkg/core/ast"
)

// WriteDocument encodes doc as JSON in the format [ReadJSON] accepts.
//
// The output is canonical: object keys are sorted, tokens are flattened
// into dotted paths and expressions are written in infix form. Two
// documents with equal content produce equal bytes, which makes the output
// suitable for hashing.
func WriteDocument(doc *ast.Document, w io.Writer) error {
	out := map[string]any{
		"elements": encodeElements(doc.Elements),
	}
	if len(doc.Tokens) > 0 {
		tokens := make(map[string]any, len(doc.Tokens))
		for path, v := range doc.Tokens {
			tokens[path] = encodeValue(v)
		}
		out["tokens"] = tokens
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func encodeElements(elems []ast.Element) []any {
	out := make([]any, 0, len(elems))
	for _, el := range elems {
		out = append(out, encodeElement(el))
	}
	return out
}

func encodeElement(el ast.Element) map[string]any {
	m := map[string]any{"type": string(el.Kind())}
	if name := el.ElementName(); name != "" {
		m["name"] = name
	}
	if props := el.ElementProperties(); len(props) > 0 {
		pm := make(map[string]any, len(props))
		for _, p := range props {
			pm[p.Name] = encodeValue(p.Value)
		}
		m["properties"] = pm
	}
	if cs := el.ElementConstraints(); len(cs) > 0 {
		list := make([]any, len(cs))
		for i, c := range cs {
			list[i] = encodeConstraint(c)
		}
		m["constraints"] = list
	}
	if children := el.ElementChildren(); len(children) > 0 {
		m["children"] = encodeElements(children)
	}
	switch e := el.(type) {
	case *ast.Text:
		m["content"] = e.Content
	case *ast.Svg:
		if vb := e.ViewBox; vb != nil {
			m["view_box"] = []float64{vb.MinX, vb.MinY, vb.Width, vb.Height}
		}
	case *ast.Image:
		m["source"] = e.Source
	case *ast.Icon:
		m["icon"] = e.Icon
	case *ast.Part:
		m["ref"] = e.Ref
	case *ast.Component:
		m["component"] = e.Component
	}
	return m
}

func encodeConstraint(c ast.Constraint) map[string]any {
	m := map[string]any{}
	if c.Priority != 0 {
		m["priority"] = c.Priority.String()
	}
	switch k := c.Kind.(type) {
	case ast.Equality:
		m["kind"] = "equality"
		m["property"] = k.Property
		m["value"] = k.Value.String()
	case ast.Inequality:
		m["kind"] = "inequality"
		m["property"] = k.Property
		m["op"] = string(k.Op)
		m["value"] = k.Value.String()
	case ast.Alignment:
		m["kind"] = "alignment"
		m["edge"] = string(k.Edge)
		m["target"] = k.Target.String()
		if k.TargetEdge != "" {
			m["target_edge"] = string(k.TargetEdge)
		}
	case ast.Relative:
		m["kind"] = "relative"
		m["relation"] = string(k.Relation)
		m["target"] = k.Target.String()
		if k.Gap != nil {
			m["gap"] = k.Gap.String()
		}
	}
	return m
}

func encodeValue(v ast.PropertyValue) any {
	switch x := v.(type) {
	case ast.Number:
		return float64(x)
	case ast.Bool:
		return bool(x)
	case ast.String:
		return string(x)
	case ast.Keyword:
		return string(x)
	case ast.Length:
		return x.String()
	case ast.TokenRef:
		return x.String()
	case ast.GridLine:
		m := map[string]any{"start": x.Start}
		if x.End != 0 {
			m["end"] = x.End
		}
		return m
	case ast.GridTracks:
		list := make([]string, len(x))
		for i, t := range x {
			list[i] = formatTrack(t)
		}
		return list
	}
	return nil
}

// formatTrack writes a track in the syntax trackString parses.
func formatTrack(t ast.TrackSize) string {
	switch x := t.(type) {
	case ast.TrackMinMax:
		return "minmax(" + formatTrack(x.Min) + ", " + formatTrack(x.Max) + ")"
	case ast.TrackRepeat:
		sizes := make([]string, len(x.Sizes))
		for i, s := range x.Sizes {
			sizes[i] = formatTrack(s)
		}
		count := strconv.Itoa(x.Count)
		switch x.Kind {
		case ast.RepeatAutoFill:
			count = "auto-fill"
		case ast.RepeatAutoFit:
			count = "auto-fit"
		}
		return "repeat(" + count + ", " + strings.Join(sizes, " ") + ")"
	case fmt.Stringer:
		return x.String()
	}
	return ""
}
