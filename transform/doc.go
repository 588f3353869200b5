// Package transform holds the reversible range transforms applied to splat
// attributes: a signed log1p compression of coordinates and the conversion
// between degree-0 spherical harmonic coefficients and integer RGB.
package transform
