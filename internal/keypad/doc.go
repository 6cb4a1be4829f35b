// Package keypad implements the calculator keypad as a pure state machine.
//
// A State is the visible display plus the formula being built. Apply takes
// a State and a Key and returns the next State; nothing is mutated in
// place, so a sequence of presses can be replayed deterministically by the
// conformance harness and the press command.
//
// Pressing "=" evaluates the formula with calc.Evaluate. Successful
// results are handed to a Recorder (usually the history store) before
// they are shown.
package keypad
