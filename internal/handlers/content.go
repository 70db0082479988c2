// Package handlers implements the per-node-kind operation handlers (C5):
// one function per FUSE operation, each keyed by node.Kind and operating
// on the State Store under the caller's lock discipline. This file holds
// the content-rendering formulas shared by read and getattr (size is
// always len(render(...))).
package handlers

import (
	"fmt"
	"strings"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// RenderHistory formats a conversation's turns as
// "<role>: <content>\n" lines, one per turn, no trailing blank line.
func RenderHistory(turns []state.Turn) string {
	var b strings.Builder
	for _, t := range turns {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	return b.String()
}

// Render returns the current text content of a readable file node. It
// never performs network I/O — it only reflects already-committed state.
func Render(n node.Node, store *state.Store) (string, error) {
	switch n.Kind() {
	case node.KindPromptFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		return c.LatestResponse, nil

	case node.KindHistoryFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		return RenderHistory(c.History), nil

	case node.KindContextFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		return c.Context, nil

	case node.KindConvModelFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		model := c.Config.Model
		if model == "" {
			model = store.DefaultModel()
		}
		return model + "\n", nil

	case node.KindConvSystemPromptFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		sp := ""
		if c.Config.SystemPrompt != nil {
			sp = *c.Config.SystemPrompt
		}
		return sp + "\n", nil

	case node.KindConvSettingsFile:
		c, err := store.GetConversation(n.ID)
		if err != nil {
			return "", err
		}
		return state.EncodeConversationConfig(c.Config)

	case node.KindGlobalSettingsFile:
		return state.EncodeGlobalConfig(store.GlobalConfigSnapshot())

	case node.KindConfigModelSettingsFile:
		g := store.GlobalConfigSnapshot()
		return state.EncodeModelOverride(g.Models[n.Name])

	case node.KindQueryFile:
		idx, err := store.GetIndex(n.ID)
		if err != nil {
			return "", err
		}
		return idx.LatestQueryResult, nil

	case node.KindModelFile:
		return store.ModelResponse(n.Name), nil

	case node.KindCorpusFile:
		// Corpus file content lives on the remote search service, not in
		// local state; the local record only tracks membership. Reading
		// one back is not supported by the search wire protocol, so this
		// renders empty rather than round-tripping the write buffer.
		return "", nil

	case node.KindLatestConversationLink:
		id := store.LatestConversationID()
		if id == "" {
			return "", vfserr.NotFoundf("no conversations yet")
		}
		return id, nil

	case node.KindDefaultModelLink:
		model := store.DefaultModel()
		if model == "" {
			return "", vfserr.NotFoundf("no default model configured")
		}
		return model, nil

	case node.KindDefaultIndexLink:
		id := store.DefaultIndexID()
		if id == "" {
			return "", vfserr.NotFoundf("no search indexes yet")
		}
		return id, nil
	}

	return "", vfserr.Unsupportedf("node kind %v is not readable", n.Kind())
}
