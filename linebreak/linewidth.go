package linebreak

// LineWidth maps a line index to its maximum width: the first
// FirstLineCount lines get First, every later line gets Rest.
type LineWidth struct {
	First          float64
	FirstLineCount int
	Rest           float64
}

// At returns the width budget of line (0-based).
func (lw LineWidth) At(line int) float64 {
	if line < lw.FirstLineCount {
		return lw.First
	}
	return lw.Rest
}
