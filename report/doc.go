// Package report renders parse diagnostics against their source text.
//
// Each diagnostic becomes a block naming the message, the location and the
// offending line with the span underlined and labelled by its reason:
//
//	Error: expected operator, found '2'
//	   ╭─[test.hl:2:3]
//	   │
//	 2 │ g 2
//	   │   ┬
//	   │   ╰── expected operator
//	───╯
//
// Column arithmetic counts terminal cells, so wide runes and combined
// grapheme clusters line up. Colors follow the terminal profile of the output
// unless overridden with [WithColor] or [WithProfile].
package report
