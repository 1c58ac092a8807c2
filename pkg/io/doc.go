// Package io reads Seed documents and writes layout results.
//
// # Documents
//
// A document is a JSON or TOML file with two top-level fields:
//
//	{
//	  "tokens": {"spacing": {"md": "16px"}},
//	  "elements": [
//	    {
//	      "type": "frame",
//	      "name": "Card",
//	      "properties": {"width": "320px", "layout": "vertical", "gap": "$spacing.md"},
//	      "constraints": [
//	        {"kind": "equality", "property": "height", "value": "Parent.height / 2", "priority": "high"}
//	      ],
//	      "children": [
//	        {"type": "text", "name": "Title", "content": "Hello"}
//	      ]
//	    }
//	  ]
//	}
//
// Nested token objects are flattened into dotted paths, so the token above is
// referenced as $spacing.md.
//
// # Element Fields
//
// Required:
//   - type: frame, text, svg, image, icon, part, component or slot
//
// Optional:
//   - name: identifier used by `Name.property` references
//   - properties: map of property name to value
//   - constraints: list of constraint objects or strings
//   - children: nested elements (frame and component)
//   - content (text), view_box (svg), source (image), icon (icon),
//     ref (part), component (component)
//
// # Property Values
//
// Numbers and booleans map directly. Strings are read as token references
// ($path), lengths (16px, 50%, 1.5em) or keywords. Grid track lists are arrays
// or space-separated strings of 1fr, 100px, auto, min-content, max-content,
// minmax(a, b) and repeat(n, ...). grid-column and grid-row accept a number,
// "1 / 3" or {"start": 1, "end": 3}.
//
// # Expressions
//
// Constraint values are numbers, strings or objects. Strings use infix
// syntax with + - * /, parentheses, min() and max(), lengths, token
// references and property references:
//
//	"max(Parent.width - 32px, 200px)"
//
// Objects spell the same tree explicitly: {"op": "+", "left": e, "right": e}
// and {"fn": "max", "args": [e, ...]}.
//
// # Results
//
// [WriteTree] writes a layout tree as {"roots": [...], "nodes": [...]} and
// [ReadTree] reads it back. [WriteSolution] writes the solved values as an
// ordered list.
package io
