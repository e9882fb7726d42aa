// Package shape measures per-character advances for the line breaker.
//
// Shaper runs HarfBuzz shaping from go-text/typesetting and attributes
// every glyph advance to the character its cluster starts at. Mono is a
// fixed-pitch measurer that uses East Asian Width to give wide characters
// two cells. Both satisfy linebreak.Measurer, and GoText and MonoTypesetter
// expose them as layout.Typesetter implementations.
package shape
