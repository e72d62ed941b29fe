// Package packed decodes the fixed-point vector encodings of compressed
// mass properties and derives motion state from them.
//
// Decoding is read-only: packed vectors are never produced, only expanded
// into float32 lanes bit-exactly.
package packed
