package handlers

import (
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/resolver"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// EntryTTL is the attr/entry cache TTL the dispatcher advertises to the
// kernel for every lookup and getattr reply.
const EntryTTL = 1_000_000_000 // 1s, expressed in nanoseconds

// LookupResult is what Lookup returns on success: the resolved node plus
// its current attributes, ready for the dispatcher to intern and reply
// with.
type LookupResult struct {
	Node node.Node
	Attr Attr
}

// Lookup resolves (parent, name) and renders its attributes. Interning
// the result into the inode registry is the dispatcher's job, not this
// package's — C5 only knows about Nodes, not inode numbers.
func Lookup(parent node.Node, name string, store *state.Store) (LookupResult, error) {
	n, err := resolver.Resolve(parent, name, store)
	if err != nil {
		return LookupResult{}, err
	}
	attr, err := GetAttr(n, store)
	if err != nil {
		return LookupResult{}, err
	}
	return LookupResult{Node: n, Attr: attr}, nil
}
