// Package ast holds parsed-level declarations: traits, impls and their
// members exactly as written in a declaration file, before any name or
// type resolution. Package sema lowers them into internal/ty declarations.
//
// Declaration files use TOML (see Decode); type expressions inside them use
// a small grammar parsed by ParseType.
package ast
