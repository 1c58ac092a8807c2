package cassowary

// Strength weights a constraint's error terms in the objective.
type Strength float64

// NewStrength combines three lexicographic components into one weight.
// Each component is clamped to [0, 1000].
func NewStrength(strong, medium, weak, w float64) Strength {
	clamp := func(v float64) float64 { return max(0, min(1000, v*w)) }
	return Strength(clamp(strong)*1_000_000 + clamp(medium)*1_000 + clamp(weak))
}

// Predefined strengths.
var (
	Required = NewStrength(1000, 1000, 1000, 1)
	Strong   = NewStrength(1, 0, 0, 1)
	Medium   = NewStrength(0, 1, 0, 1)
	Weak     = NewStrength(0, 0, 1, 1)
)

func clipStrength(s Strength) Strength {
	return max(0, min(Required, s))
}

func (s Strength) String() string {
	switch s {
	case Required:
		return "required"
	case Strong:
		return "strong"
	case Medium:
		return "medium"
	case Weak:
		return "weak"
	}
	return "custom"
}
