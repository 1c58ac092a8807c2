package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
)

// ReadDocument decodes a document in the given format from r.
//
// ReadDocument returns an INVALID_DOCUMENT error if:
//   - The input is malformed
//   - An element has an unknown type or an invalid name
//   - A property value, constraint or expression cannot be parsed
//
// Errors name the element path that caused them, for example
// elements[0].children[2]. ReadDocument does not close r.
func ReadDocument(r io.Reader, format Format) (*ast.Document, error) {
	var raw map[string]any
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	default:
		dec := json.NewDecoder(r)
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	}
	return decodeDocument(raw)
}

// ReadJSON decodes a JSON document from r.
func ReadJSON(r io.Reader) (*ast.Document, error) { return ReadDocument(r, FormatJSON) }

// ReadTOML decodes a TOML document from r.
func ReadTOML(r io.Reader) (*ast.Document, error) { return ReadDocument(r, FormatTOML) }

// ParseDocument decodes a document held in memory.
func ParseDocument(data []byte, format Format) (*ast.Document, error) {
	return ReadDocument(bytes.NewReader(data), format)
}

// ImportDocument reads the document at path. The format is chosen by
// [FormatFromPath].
func ImportDocument(path string) (*ast.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := ReadDocument(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func invalid(path string, err error) error {
	if errors.GetCode(err) != "" {
		return fmt.Errorf("%s: %w", path, err)
	}
	return errors.Wrap(errors.ErrCodeInvalidDocument, err, "%s", path)
}

func decodeDocument(raw map[string]any) (*ast.Document, error) {
	doc := &ast.Document{}
	if t, ok := raw["tokens"]; ok {
		m, ok := t.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "tokens must be an object")
		}
		doc.Tokens = make(map[string]ast.PropertyValue)
		if err := flattenTokens(doc.Tokens, "", m); err != nil {
			return nil, err
		}
	}
	elems, err := elements("elements", raw["elements"])
	if err != nil {
		return nil, err
	}
	doc.Elements = elems
	return doc, nil
}

// flattenTokens stores nested token objects under dotted paths.
func flattenTokens(dst map[string]ast.PropertyValue, prefix string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if err := errors.ValidateTokenPath(path); err != nil {
			return err
		}
		if nested, ok := m[k].(map[string]any); ok {
			if err := flattenTokens(dst, path, nested); err != nil {
				return err
			}
			continue
		}
		v, err := propertyValue(k, m[k])
		if err != nil {
			return invalid("tokens."+path, err)
		}
		dst[path] = v
	}
	return nil
}

func elements(path string, v any) ([]ast.Element, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := toList(v)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "%s must be an array", path)
	}
	out := make([]ast.Element, 0, len(list))
	for i, item := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(map[string]any)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "%s must be an object", p)
		}
		el, err := element(p, m)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

// toList accepts JSON arrays and TOML arrays of tables.
func toList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func element(path string, m map[string]any) (ast.Element, error) {
	typ, _ := m["type"].(string)
	name, _ := m["name"].(string)
	if err := errors.ValidateElementName(name); err != nil {
		return nil, invalid(path, err)
	}
	base := ast.Base{Name: name}

	props, err := properties(path, m["properties"])
	if err != nil {
		return nil, err
	}
	base.Properties = props

	if cs, ok := m["constraints"]; ok {
		list, ok := toList(cs)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "%s.constraints must be an array", path)
		}
		for i, c := range list {
			con, err := constraint(c)
			if err != nil {
				return nil, invalid(fmt.Sprintf("%s.constraints[%d]", path, i), err)
			}
			base.Constraints = append(base.Constraints, con)
		}
	}

	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}

	switch ast.ElementKind(typ) {
	case ast.KindFrame:
		children, err := elements(path+".children", m["children"])
		if err != nil {
			return nil, err
		}
		return &ast.Frame{Base: base, Children: children}, nil
	case ast.KindText:
		return &ast.Text{Base: base, Content: str("content")}, nil
	case ast.KindSvg:
		svg := &ast.Svg{Base: base}
		if vb, ok := m["view_box"]; ok {
			box, err := viewBox(vb)
			if err != nil {
				return nil, invalid(path+".view_box", err)
			}
			svg.ViewBox = box
		}
		return svg, nil
	case ast.KindImage:
		return &ast.Image{Base: base, Source: str("source")}, nil
	case ast.KindIcon:
		return &ast.Icon{Base: base, Icon: str("icon")}, nil
	case ast.KindPart:
		return &ast.Part{Base: base, Ref: str("ref")}, nil
	case ast.KindComponent:
		children, err := elements(path+".children", m["children"])
		if err != nil {
			return nil, err
		}
		return &ast.Component{Base: base, Component: str("component"), Children: children}, nil
	case ast.KindSlot:
		return &ast.Slot{Base: base}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidDocument, "%s: unknown element type %q", path, typ)
}

// properties converts the property map in name order so documents decode
// deterministically.
func properties(path string, v any) ([]ast.Property, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "%s.properties must be an object", path)
	}
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]ast.Property, 0, len(names))
	for _, name := range names {
		val, err := propertyValue(name, m[name])
		if err != nil {
			return nil, invalid(path+".properties."+name, err)
		}
		out = append(out, ast.Property{Name: name, Value: val})
	}
	return out, nil
}

func viewBox(v any) (*ast.ViewBox, error) {
	list, ok := v.([]any)
	if !ok || len(list) != 4 {
		return nil, fmt.Errorf("view_box must be [min_x, min_y, width, height]")
	}
	var f [4]float64
	for i, x := range list {
		n, ok := number(x)
		if !ok {
			return nil, fmt.Errorf("view_box[%d] must be a number", i)
		}
		f[i] = n
	}
	return &ast.ViewBox{MinX: f[0], MinY: f[1], Width: f[2], Height: f[3]}, nil
}

func priority(v any) (ast.Priority, error) {
	if v == nil {
		return 0, nil
	}
	if n, ok := number(v); ok {
		return ast.Priority(int(n)), nil
	}
	s, _ := v.(string)
	p, ok := ast.ParsePriority(strings.ToLower(s))
	if !ok {
		return 0, fmt.Errorf("unknown priority %v", v)
	}
	return p, nil
}

func constraint(v any) (ast.Constraint, error) {
	if s, ok := v.(string); ok {
		return constraintString(s)
	}
	m, ok := v.(map[string]any)
	if !ok {
		return ast.Constraint{}, fmt.Errorf("constraint must be an object or string")
	}
	pri, err := priority(m["priority"])
	if err != nil {
		return ast.Constraint{}, err
	}
	str := func(key string) string {
		s, _ := m[key].(string)
		return s
	}

	c := ast.Constraint{Priority: pri}
	switch kind := str("kind"); kind {
	case "equality":
		val, err := expression(m["value"])
		if err != nil {
			return c, err
		}
		c.Kind = ast.Equality{Property: str("property"), Value: val}
	case "inequality":
		op := ast.InequalityOp(str("op"))
		switch op {
		case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		default:
			return c, fmt.Errorf("unknown inequality operator %q", op)
		}
		val, err := expression(m["value"])
		if err != nil {
			return c, err
		}
		c.Kind = ast.Inequality{Property: str("property"), Op: op, Value: val}
	case "alignment":
		c.Kind = ast.Alignment{
			Edge:       ast.Edge(str("edge")),
			Target:     ast.ParseElementRef(str("target")),
			TargetEdge: ast.Edge(str("target_edge")),
		}
	case "relative":
		r := ast.Relative{Relation: ast.Relation(str("relation")), Target: ast.ParseElementRef(str("target"))}
		if g, ok := m["gap"]; ok {
			if r.Gap, err = expression(g); err != nil {
				return c, err
			}
		}
		c.Kind = r
	default:
		return c, fmt.Errorf("unknown constraint kind %q", kind)
	}
	return c, nil
}

var constraintOps = []string{">=", "<=", "==", "=", ">", "<"}

// constraintString parses "width >= 100px" or "x = Parent.x + 8 @high".
func constraintString(s string) (ast.Constraint, error) {
	var c ast.Constraint
	body, pri, hasPri := strings.Cut(s, "@")
	if hasPri {
		p, err := priority(strings.TrimSpace(pri))
		if err != nil {
			return c, err
		}
		c.Priority = p
	}
	for _, op := range constraintOps {
		lhs, rhs, ok := strings.Cut(body, op)
		if !ok {
			continue
		}
		prop := strings.TrimSpace(lhs)
		val, err := ParseExpression(rhs)
		if err != nil {
			return c, err
		}
		switch op {
		case "=", "==":
			c.Kind = ast.Equality{Property: prop, Value: val}
		default:
			c.Kind = ast.Inequality{Property: prop, Op: ast.InequalityOp(op), Value: val}
		}
		return c, nil
	}
	return c, fmt.Errorf("constraint %q has no comparison operator", s)
}

func expression(v any) (ast.Expression, error) {
	if n, ok := number(v); ok {
		return ast.Literal(n), nil
	}
	switch x := v.(type) {
	case string:
		return ParseExpression(x)
	case map[string]any:
		if op, ok := x["op"].(string); ok {
			left, err := expression(x["left"])
			if err != nil {
				return nil, err
			}
			right, err := expression(x["right"])
			if err != nil {
				return nil, err
			}
			switch o := ast.BinaryOperator(op); o {
			case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv:
				return ast.BinaryOp{Op: o, Left: left, Right: right}, nil
			}
			return nil, errors.New(errors.ErrCodeInvalidExpression, "unknown operator %q", op)
		}
		if fn, ok := x["fn"].(string); ok {
			f := ast.Function{Name: fn}
			args, _ := x["args"].([]any)
			for _, a := range args {
				e, err := expression(a)
				if err != nil {
					return nil, err
				}
				f.Args = append(f.Args, e)
			}
			return f, nil
		}
	}
	return nil, errors.New(errors.ErrCodeInvalidExpression, "invalid expression %v", v)
}
