// Package ty contains typed declarations: the result of checking a trait
// and its members, stored in a DeclStore and referenced by decl.Ref handles.
//
// Equality and hashing of these nodes cannot be derived from their fields
// alone. Handles only mean something relative to the store, and TypeIDs
// must be compared through the type interner's canonical form. Every node
// therefore implements EqualWith and HashWith taking the shared Engines.
// Attributes and spans never take part in either.
package ty
