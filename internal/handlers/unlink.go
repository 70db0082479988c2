package handlers

import (
	"context"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/searchport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// Unlink removes a CorpusFile (triggering remote removal, then local),
// or treats unlink of PromptFile/ContextFile as "clear": it resets the
// conversation's context or, for PromptFile, clears LatestResponse.
// Every other node rejects unlink with NotPermitted.
func Unlink(ctx context.Context, n node.Node, store *state.Store, search searchport.Port) error {
	switch n.Kind() {
	case node.KindCorpusFile:
		if err := search.RemoveDocument(ctx, n.ID, n.Name); err != nil {
			return err
		}
		return store.RemoveCorpusFile(n.ID, n.Name)

	case node.KindPromptFile:
		return store.ClearLatestResponse(n.ID)

	case node.KindContextFile:
		return store.SetContext(n.ID, "")
	}

	return vfserr.NotPermittedf("unlink not permitted on this node")
}
