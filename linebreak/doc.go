/*
Package linebreak computes paragraph line breaks from per-character advance
widths, break opportunities and tab-stop geometry.

A paragraph is first turned into an ordered sequence of [Primitive] values
(boxes, glue, penalties, tabs and in-word fallback breaks), then one of two
strategies picks the breaks:

  - [Greedy] fits as much as possible on each line in a single forward scan.
  - [Optimal] runs a Knuth-Plass style dynamic program that minimises the
    sum of squared width deficits over the whole paragraph.

Both strategies honour a per-line width budget ([LineWidth]) with distinct
first-line and rest-of-paragraph widths. A token wider than its line is
never dropped or truncated; it overflows the line instead.

The entry point for callers holding widths and break opportunities is
[ComputeBreaks]. Hosts that measure text themselves can use a [Builder],
which owns reusable text and width buffers and asks a [Segmenter] for the
break opportunities.

All functions are pure and synchronous. A [Builder] is not safe for
concurrent use; independent builders are.
*/
package linebreak
