// Package suggest asks a remote text-generation endpoint for engineering
// and scientific formulas that fit a list of numbers.
//
// Requests and responses are checked against the CUE definitions #Input
// and #Output in schema.cue, so a misbehaving endpoint surfaces as
// ErrSchemaViolation instead of a half-decoded result.
package suggest
