// Package layout composes solved constraints into a positioned tree.
//
// # Overview
//
// [Compute] runs a full layout pass over a document:
//
//  1. A fresh [constraint.System] is built from the document and solved.
//  2. Every element becomes a [Node] whose bounds come from the solution.
//     Root elements the constraints leave unsized fill the viewport.
//  3. Leaves with a zero width or height are measured: text through a
//     [text.Measurer], svg by its view box, images and icons by fixed
//     defaults.
//  4. Frames whose `layout` property selects an arrangement mode
//     reposition their children, overriding the solved bounds.
//  5. A final top-down pass fills every node's AbsoluteBounds.
//
// Nothing survives between passes. Call [Compute] again after the document
// changes.
//
// # Arrangement Modes
//
// The `layout` property of a frame selects how its children are placed:
//
//   - unset or unrecognized: children keep their solved bounds
//   - horizontal, row: [autolayout] along the x axis
//   - vertical, column, stack: [autolayout] along the y axis
//   - grid: [grid] tracks from grid-template-columns and grid-template-rows
//
// Arranging containers lay out their children first so the children's sizes
// can serve as hints, then place them in the container's content box (its
// size minus padding). When a container changes the size of a child that is
// itself an arranging container, the child's own children are placed again.
//
// # Coordinates
//
// Solved values are in document space. A node's Bounds are relative to its
// parent, so a constraint-placed child's bounds are its solved position minus
// its parent's solved position. AbsoluteBounds are always document space.
package layout
