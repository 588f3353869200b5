// Package conv provides checked numeric conversions.
//
// Use them on values read from files (counts, lengths, quantized coordinates
// carried in float columns). Conversions that are provably safe by
// construction should stay plain casts.
package conv
