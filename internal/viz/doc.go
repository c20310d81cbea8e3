// Package viz renders run summaries for the terminal.
//
// Styles are lipgloss definitions shared by the CLI. [PlotXY] draws the
// rotating-frame x-y projection of several trajectories as text, one glyph
// per series, with the primaries and the libration point marked.
package viz
