package handlers

import (
	"context"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/resolver"
	"github.com/Delta-in-hub/FuseLLM/internal/searchport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// MkDir creates a new entity under parent: a conversation under
// ConversationsDir, or a search index under SearchDir (after the remote
// service acknowledges create-index). Every other directory rejects
// mkdir with NotPermitted.
func MkDir(ctx context.Context, parent node.Node, name string, store *state.Store, search searchport.Port) (node.Node, error) {
	if err := resolver.ValidateName(name); err != nil {
		return node.NotFound, err
	}
	if resolver.IsReservedChildName(parent.Kind(), name) {
		return node.NotFound, vfserr.InvalidInputf("reserved name: %q", name)
	}

	switch parent.Kind() {
	case node.KindConversationsDir:
		if err := store.CreateConversation(name); err != nil {
			return node.NotFound, err
		}
		return node.ConversationDir(name), nil

	case node.KindSearchDir:
		if err := search.CreateIndex(ctx, name); err != nil {
			return node.NotFound, err
		}
		if err := store.CreateIndex(name); err != nil {
			return node.NotFound, err
		}
		return node.SearchIndexDir(name), nil
	}

	return node.NotFound, vfserr.NotPermittedf("mkdir not permitted under this directory")
}
