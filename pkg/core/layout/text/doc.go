// Package text measures text for layout.
//
// The layout composer asks a [Measurer] for the intrinsic size of every text
// element whose width or height the constraint solver left at zero. The
// default [Approximate] measurer needs no font files: it estimates each
// glyph's advance from the font size, which keeps layout deterministic and
// fast at the cost of typographic precision.
//
// # Metrics
//
// For a font size fs, line height factor lh and letter spacing ls:
//
//   - average advance = fs × 0.55 + ls (doubled for East Asian wide runes)
//   - line height = fs × lh
//   - baseline = fs × 0.8 from the top of the first line
//
// Empty text measures zero wide and one line tall.
//
// # Wrapping
//
// When a positive max width is given, words (split on whitespace) are placed
// greedily: a word joins the current line if the line plus one space plus the
// word still fits, otherwise it starts a new line. A single word wider than
// the max width overflows its own line rather than being broken.
//
// # Shaping
//
// [Shape] returns the wrapped lines with per-line x offsets for left, center
// or right alignment, for renderers that place text line by line.
package text
