// Package sema turns parsed trait and impl declarations into checked
// declarations stored in ty.Engines.
//
// Traits are lowered into templates: required members go to the interface
// surface, provided members to the items. An impl is checked against the
// surface instantiated for its implementing type, and the instantiated items
// are bound to the impl and finalized.
package sema
