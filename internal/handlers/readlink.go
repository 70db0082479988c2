package handlers

import (
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// ReadLink returns the target string for a symlink node: `latest`
// resolves to the id of the conversation most recently created or sent a
// prompt (context, config and reply updates do not count),
// `default` under models resolves to the configured default model, and
// `default` under semantic_search resolves to the first index by
// insertion order. All three are rendered by the same formula Render
// uses for getattr's size, so this simply delegates.
func ReadLink(n node.Node, store *state.Store) (string, error) {
	return Render(n, store)
}
