// Package protocol owns the CQC wire contract and its codec primitives.
//
// Ownership boundary:
// - header definitions and closed enumerations
// - canonical big-endian encode/decode of every fixed-layout header
// - decode error taxonomy shared by the builder and response packages
//
// Nothing in this package performs I/O. Byte-stream helpers live in frame.
package protocol
