package handlers

import (
	"context"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/searchport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// RmDir removes a conversation or a search index, the inverse of MkDir.
// Conversation removal fails with Busy if a request is in flight. Index
// removal requires the remote service to acknowledge deletion before the
// local record is dropped.
func RmDir(ctx context.Context, parent node.Node, name string, store *state.Store, search searchport.Port) error {
	switch parent.Kind() {
	case node.KindConversationsDir:
		return store.DropConversation(name)

	case node.KindSearchDir:
		if err := search.DeleteIndex(ctx, name); err != nil {
			return err
		}
		return store.DropIndex(name)
	}

	return vfserr.NotPermittedf("rmdir not permitted under this directory")
}
