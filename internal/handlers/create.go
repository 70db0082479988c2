package handlers

import (
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/resolver"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// Create allocates a new CorpusFile node under parent. It is permitted
// only under a CorpusDir; the dispatcher opens a handle with an empty
// write buffer for the returned node. Membership in the index's corpus
// is only committed once the search port acknowledges the add on
// release, so this does not touch the State Store.
func Create(parent node.Node, name string) (node.Node, error) {
	if err := resolver.ValidateName(name); err != nil {
		return node.NotFound, err
	}
	if parent.Kind() != node.KindCorpusDir {
		return node.NotFound, vfserr.NotPermittedf("create not permitted under this directory")
	}
	return node.CorpusFile(parent.ID, name), nil
}
