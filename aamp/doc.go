// Package aamp reads and writes the binary parameter archive format used
// for actor, AI, and physics configuration data. A document is a tree of
// parameter lists and parameter objects rooted at "param_root"; leaf
// parameters are typed scalars, vectors, strings, or response curves.
// Serialization preserves declaration order, so a document parsed and
// re-serialized for the same platform is byte-identical.
package aamp
