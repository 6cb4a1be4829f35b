// Package units converts values between units of the same physical
// category (length, temperature, mass, area, volume, time).
//
// Unit tables are written in CUE and checked against an embedded #Unit
// schema before being compiled into a Table. The default tables are
// embedded; LoadDir reads replacement tables from a directory.
//
// Every unit is linear relative to its category's base unit:
//
//	base  = (value + offset) * factor
//	value = base / factor - offset
package units
