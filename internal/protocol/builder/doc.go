// Package builder assembles well-formed CQC requests.
//
// Ownership boundary:
// - one construction entry point per instruction family
// - qubit id, target and option validation at construction time
// - derived fields (ACTION bit, protocol header length)
// - node-side parsing of inbound requests against the same contract
//
// A Request can only be obtained from this package, so every Request in the
// program satisfies the header ordering and length invariants.
package builder
