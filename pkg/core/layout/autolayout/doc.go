// Package autolayout arranges children along a single axis.
//
// Auto layout is the row/column arrangement used by containers whose
// `layout` property is horizontal, row, vertical, column or stack. Children
// are placed one after another along the main axis without wrapping:
//
//	x := 0
//	for each child:
//	    extent := child's main-axis size hint (or min size, or 0)
//	    place child at x
//	    x += extent + gap
//
// On the cross axis each child is positioned according to [Alignment]:
// [Start] places it at 0, [Center] at (available − size) / 2, [End] at
// available − size, and [Stretch] widens it to fill the available extent.
//
// [Justify] distributes leftover main-axis space. The default [JustifyStart]
// leaves children packed at the start, exactly as the walk above.
//
// Flex grow and shrink factors are accepted on [ChildSize] but are neutral:
// no child grows beyond or shrinks below its hint.
package autolayout
