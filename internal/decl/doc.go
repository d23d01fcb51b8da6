// Package decl holds the storage primitives behind the declaration store.
//
// Declarations live in per-kind slice arenas and are addressed by typed IDs.
// Index 0 of every arena is reserved so the zero ID never refers to a body.
// A Ref is the copyable handle that the rest of the compiler passes around:
// it caches the declaration's name and span for diagnostics, while the body
// itself stays in the arena and can be replaced in place without invalidating
// outstanding refs.
//
// Arenas hand out clones on Get, so a caller that mutates a fetched body never
// changes the stored template behind everyone else's back. The only way to
// change a stored body is Replace.
//
// Mapping records old->new identity correspondence produced while cloning
// declarations during monomorphization; Rewire applies it to a Ref.
package decl
