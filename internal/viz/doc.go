// Package viz renders completed eyespot solutions: dominant-pigment maps
// and species heatmaps in the terminal, time-series plots of species
// totals, GIF animations, and an interactive player built on Bubble Tea.
//
// # Player key bindings
//
//	Space - Play/Pause
//	[ ]   - Step one evaluation time back/forward
//	Home  - First frame, End - last frame
//	S     - Cycle the plotted species
//	T     - Cycle color themes
//	G     - Save the solution as a GIF
//	?     - Show help overlay
//
// Rendering never mutates the solution; every view decodes its own copy
// through the solution's codec.
package viz
