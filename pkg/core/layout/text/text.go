package text

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const (
	// advanceFactor approximates the average glyph advance as a fraction of
	// the font size.
	advanceFactor = 0.55
	// baselineFactor places the first baseline below the top of the line.
	baselineFactor = 0.8
)

// Style holds the font properties that affect measurement.
type Style struct {
	FontFamily    string
	FontSize      float64
	FontWeight    int
	LineHeight    float64 // multiple of FontSize
	LetterSpacing float64 // extra advance per glyph, in px
}

// DefaultStyle returns the style used when an element sets no font
// properties.
func DefaultStyle() Style {
	return Style{
		FontFamily: "sans-serif",
		FontSize:   16,
		FontWeight: 400,
		LineHeight: 1.2,
	}
}

// withDefaults fills zero-valued fields from [DefaultStyle].
func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.FontFamily == "" {
		s.FontFamily = d.FontFamily
	}
	if s.FontSize <= 0 {
		s.FontSize = d.FontSize
	}
	if s.FontWeight <= 0 {
		s.FontWeight = d.FontWeight
	}
	if s.LineHeight <= 0 {
		s.LineHeight = d.LineHeight
	}
	return s
}

// Metrics is the measured size of a block of text.
type Metrics struct {
	Width    float64
	Height   float64
	Baseline float64
	Lines    int
}

// Measurer computes the intrinsic size of text. A maxWidth of zero or less
// disables wrapping.
type Measurer interface {
	Measure(content string, style Style, maxWidth float64) Metrics
}

// Approximate is a [Measurer] that estimates glyph advances from the font
// size alone.
type Approximate struct{}

// Measure implements [Measurer].
func (Approximate) Measure(content string, style Style, maxWidth float64) Metrics {
	style = style.withDefaults()
	lines := wrap(content, style, maxWidth)
	return metricsOf(lines, style)
}

// Measure measures content with the [Approximate] measurer.
func Measure(content string, style Style, maxWidth float64) Metrics {
	return Approximate{}.Measure(content, style, maxWidth)
}

func metricsOf(lines []Line, style Style) Metrics {
	lineHeight := style.FontSize * style.LineHeight
	n := max(len(lines), 1)
	var w float64
	for _, l := range lines {
		w = max(w, l.Width)
	}
	return Metrics{
		Width:    w,
		Height:   float64(n) * lineHeight,
		Baseline: style.FontSize * baselineFactor,
		Lines:    n,
	}
}

// advance returns the average advance of one narrow glyph.
func advance(style Style) float64 {
	return style.FontSize*advanceFactor + style.LetterSpacing
}

// runeWidth returns how many advances a rune occupies.
func runeWidth(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// stringWidth returns the advance of s without wrapping.
func stringWidth(s string, style Style) float64 {
	adv := advance(style)
	if utf8.RuneCountInString(s) == len(s) {
		return float64(len(s)) * adv
	}
	var units float64
	for _, r := range s {
		units += runeWidth(r)
	}
	return units * adv
}

// Line is one shaped line of text.
type Line struct {
	Text  string
	X     float64 // offset from the left edge of the text box
	Y     float64 // baseline offset from the top of the text box
	Width float64
}

func wrap(content string, style Style, maxWidth float64) []Line {
	if content == "" {
		return nil
	}
	if maxWidth <= 0 {
		var lines []Line
		for _, s := range strings.Split(content, "\n") {
			lines = append(lines, Line{Text: s, Width: stringWidth(s, style)})
		}
		return lines
	}

	space := advance(style)
	var (
		lines []Line
		cur   []string
		curW  float64
	)
	flush := func() {
		lines = append(lines, Line{Text: strings.Join(cur, " "), Width: curW})
		cur, curW = cur[:0], 0
	}
	for _, para := range strings.Split(content, "\n") {
		for _, word := range strings.Fields(para) {
			w := stringWidth(word, style)
			switch {
			case len(cur) == 0:
				cur, curW = append(cur, word), w
			case curW+space+w <= maxWidth:
				cur, curW = append(cur, word), curW+space+w
			default:
				flush()
				cur, curW = append(cur, word), w
			}
		}
		flush()
	}
	return lines
}

// Align is the horizontal alignment of shaped lines.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// ParseAlign parses "left", "center" or "right". Anything else is left.
func ParseAlign(s string) Align {
	switch strings.ToLower(s) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	}
	return AlignLeft
}

// Shaped is text broken into positioned lines.
type Shaped struct {
	Lines   []Line
	Metrics Metrics
}

// Shape wraps content to maxWidth and positions each line. Lines are aligned
// within maxWidth when it is positive, otherwise within the widest line.
func Shape(content string, style Style, maxWidth float64, align Align) Shaped {
	style = style.withDefaults()
	lines := wrap(content, style, maxWidth)
	m := metricsOf(lines, style)

	box := m.Width
	if maxWidth > 0 {
		box = maxWidth
	}
	lineHeight := style.FontSize * style.LineHeight
	for i := range lines {
		switch align {
		case AlignCenter:
			lines[i].X = (box - lines[i].Width) / 2
		case AlignRight:
			lines[i].X = box - lines[i].Width
		}
		lines[i].Y = float64(i)*lineHeight + m.Baseline
	}
	return Shaped{Lines: lines, Metrics: m}
}
