// Package ident derives the deterministic, content-addressed identifiers
// used throughout the graph. Identity depends only on the inputs, never on
// scan order or wall-clock time, so analyzing the same tree twice produces
// byte-identical ids.
package ident

import (
	"crypto/sha256"
	"encoding/hex"
)

// NodeID returns the id for a file node: the hex sha256 of its
// root-relative path.
func NodeID(relPath string) string {
	return hash(relPath)
}

// SymbolID returns the id for a symbol node, derived from the file it was
// declared in and the symbol name.
func SymbolID(relPath, name string) string {
	return hash(relPath + "::" + name)
}

// EdgeID returns the id for an edge between two node ids. The type string
// participates so parallel edges of different types stay distinct, while
// re-emitting the same relationship reproduces the same id.
func EdgeID(source, target, edgeType string) string {
	return hash(source + "->" + target + ":" + edgeType)
}

// FileHash returns the content hash recorded on scanned files.
func FileHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
