// Package viz renders pattern frames in the terminal.
//
// Frames are rasterised onto a Braille [Canvas] (2×4 dots per cell) with
// colors taken from the active scheme. Two Bubble Tea programs sit on top:
//
//   - [Model]: live preview of one pattern with a side panel of settings
//   - [BoardModel]: every panel of a moodboard ticking side by side
//
// Each pattern is ticked by its own tea.Tick at the mode's interval, so a
// tick always runs on the program's event loop.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Tab   - Next pattern
//	↑/↓   - Speed
//	+/-   - Global intensity
//	T     - Cycle color schemes
//	F     - Toggle favorite
//	S     - Save SVG snapshot
//	?     - Show help overlay
//
// # Presentation
//
// With a presentation duration set the live view counts down and quits when
// the time is up.
package viz
