package ast

import (
	"math"
	"testing"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		in      string
		want    Length
		wantErr bool
	}{
		{"16px", Length{16, Px}, false},
		{"16", Length{16, Px}, false},
		{"1.5em", Length{1.5, Em}, false},
		{"2rem", Length{2, Rem}, false},
		{"50%", Length{50, Percent}, false},
		{"12pt", Length{12, Pt}, false},
		{" 10 mm ", Length{10, Mm}, false},
		{"px", Length{}, true},
		{"wide", Length{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLength(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLength(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLength(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLengthToPx(t *testing.T) {
	tests := []struct {
		l      Length
		want   float64
		wantOK bool
	}{
		{Length{10, Px}, 10, true},
		{Length{72, Pt}, 96, true},
		{Length{25.4, Mm}, 96, true},
		{Length{2.54, Cm}, 96, true},
		{Length{1, In}, 96, true},
		{Length{50, Percent}, 0, false},
		{Length{2, Em}, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.l.ToPx()
		if ok != tt.wantOK || math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%v.ToPx() = (%v, %v), want (%v, %v)", tt.l, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLengthResolve(t *testing.T) {
	if got := (Length{50, Percent}).Resolve(300, 16); got != 150 {
		t.Errorf("Resolve(50%%) = %v, want 150", got)
	}
	if got := (Length{2, Em}).Resolve(300, 16); got != 32 {
		t.Errorf("Resolve(2em) = %v, want 32", got)
	}
	if got := (Length{5, Px}).Resolve(300, 16); got != 5 {
		t.Errorf("Resolve(5px) = %v, want 5", got)
	}
}

func TestLookupLastWins(t *testing.T) {
	props := []Property{
		{Name: "width", Value: Number(1)},
		{Name: "height", Value: Number(2)},
		{Name: "width", Value: Number(3)},
	}
	v, ok := Lookup(props, "width")
	if !ok || v != Number(3) {
		t.Errorf("Lookup(width) = %v, %v, want 3, true", v, ok)
	}
	if _, ok := Lookup(props, "depth"); ok {
		t.Error("Lookup(depth) found a value, want none")
	}
}

func TestWalk(t *testing.T) {
	leaf := &Text{Base: Base{Name: "Label"}}
	inner := &Frame{Base: Base{Name: "Inner"}, Children: []Element{leaf}}
	root := &Frame{Base: Base{Name: "Root"}, Children: []Element{inner}}

	var names []string
	var depths []int
	Walk([]Element{root}, func(el Element, depth int) bool {
		names = append(names, el.ElementName())
		depths = append(depths, depth)
		return true
	})

	want := []string{"Root", "Inner", "Label"}
	for i := range want {
		if names[i] != want[i] || depths[i] != i {
			t.Errorf("Walk()[%d] = %s@%d, want %s@%d", i, names[i], depths[i], want[i], i)
		}
	}
}

func TestPriorityEffective(t *testing.T) {
	if got := Priority(0).Effective(); got != PriorityRequired {
		t.Errorf("Priority(0).Effective() = %v, want required", got)
	}
	if got := PriorityLow.Effective(); got != PriorityLow {
		t.Errorf("PriorityLow.Effective() = %v, want low", got)
	}
}
