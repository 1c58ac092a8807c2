package io

import (
	"testing"

	"github.com/matzehuels/seed/pkg/core/ast"
	"github.com/matzehuels/seed/pkg/errors"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"100", "100"},
		{"16px", "16px"},
		{"-8px", "-8px"},
		{"50%", "50%"},
		{"$spacing.md", "$spacing.md"},
		{"Parent.width", "Parent.width"},
		{"Header.bottom", "Header.bottom"},
		{"Parent.width - 32px", "(Parent.width - 32px)"},
		{"Parent.width / 2 + 8", "((Parent.width / 2) + 8)"},
		{"2 * (Parent.height - 10)", "(2 * (Parent.height - 10))"},
		{"max(Parent.width - 32px, 200px)", "max((Parent.width - 32px), 200px)"},
		{"-Parent.x", "(-1 * Parent.x)"},
		{"1e2", "100"},
		{"my-card.width", "my-card.width"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := ParseExpression(tt.in)
			if err != nil {
				t.Fatalf("ParseExpression(%q) error: %v", tt.in, err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("ParseExpression(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseExpressionTypes(t *testing.T) {
	e, err := ParseExpression("Previous.right")
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := e.(ast.PropertyRef)
	if !ok {
		t.Fatalf("got %T, want ast.PropertyRef", e)
	}
	if ref.Element.Kind != ast.RefPrevious || ref.Property != "right" {
		t.Errorf("ref = %+v, want Previous.right", ref)
	}

	e, err = ParseExpression("12")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.(ast.Literal); !ok {
		t.Errorf("12 parsed as %T, want ast.Literal", e)
	}
}

func TestParseExpressionErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"Parent.width +",
		"(1 + 2",
		"1 2",
		"width",
		"max(1,",
		"#",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseExpression(in)
			if err == nil {
				t.Fatalf("ParseExpression(%q) expected error", in)
			}
			if !errors.Is(err, errors.ErrCodeInvalidExpression) {
				t.Errorf("GetCode() = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidExpression)
			}
		})
	}
}
