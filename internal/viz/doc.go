// Package viz draws bodies in the terminal.
//
// The live view uses the Bubble Tea framework:
//
//   - [Model]: steps an experiment every tick and draws it
//   - [Canvas]: braille pixel canvas with one color per cell
//   - [RunInteractive]: preset picker in front of the live view
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	R     - Reset to the initial bodies
//	+/-   - Change steps per tick
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G starts and stops recording; frames are written to orbitsim.gif in the
// current directory, one pixel block per braille dot.
package viz
