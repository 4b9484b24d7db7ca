// Package color picks an accent color for playlist artwork.
//
// A thumbnail is reduced to a small palette by median cut and the entry with
// the highest saturation plus value wins.
package color
