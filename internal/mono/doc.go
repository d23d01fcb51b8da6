// Package mono instantiates generic trait declarations.
//
// An instantiation never writes the template: every member is cloned,
// substituted and inserted as a new store entry. The old->new identities are
// returned as two declaration mappings, one for the interface surface and one
// for the provided items.
package mono
