// Package grid places children on a two-dimensional track grid.
//
// A grid is described by column and row [Track] lists plus gaps. Track sizes
// are resolved against the container's content box:
//
//   - [Px] tracks take their fixed size.
//   - [Auto], min-content and max-content tracks contribute nothing, since
//     children are not measured into tracks. With [Config.StretchAuto] set
//     and no fraction tracks present, they share the remaining space equally.
//   - [Fr] tracks divide the space left after fixed tracks and gaps in
//     proportion to their weight.
//   - [MinMax] tracks count their minimum as fixed and resolve to the auto
//     share clamped to [min, max].
//
// Track offsets are a running sum of sizes and gaps.
//
// # Placement
//
// Each child carries a [Placement] with 1-indexed start and end lines; zero
// means unset. A [PlacementStrategy] fills in unset placements. The default
// [RowAuto] strategy puts child i at column i+1 of the first row, so
// auto-placed children always form a single row.
//
// # Alignment
//
// Within its cell a child is positioned by [Config.JustifyItems] on the
// horizontal axis and [Config.AlignItems] on the vertical axis. [Stretch]
// fills the cell; the other alignments keep the child's size hint, capped at
// the cell size.
package grid
