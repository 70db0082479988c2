package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

func names(entries []DirEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func TestChildrenRoot(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	entries, err := Children(node.Root, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "conversations", "models", "semantic_search"}, names(entries))
}

func TestChildrenConfigDir(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	entries, err := Children(node.ConfigDir, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"models", "settings"}, names(entries))
}

func TestChildrenConversationsDirPutsLatestLastAfterInsertionOrder(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.CreateConversation("c2"))

	entries, err := Children(node.ConversationsDir, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"c1", "c2", "latest"}, names(entries))
}

func TestChildrenConversationDir(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))

	entries, err := Children(node.ConversationDir("c1"), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"config", "context", "history", "prompt"}, names(entries))
}

func TestChildrenConvConfigDir(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	entries, err := Children(node.ConvConfigDir("c1"), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"model", "settings", "system_prompt"}, names(entries))
}

func TestChildrenSearchDirPutsDefaultLast(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateIndex("idx-1"))
	require.NoError(t, s.CreateIndex("idx-2"))

	entries, err := Children(node.SearchDir, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"idx-1", "idx-2", "default"}, names(entries))
}

func TestChildrenSearchIndexDir(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	entries, err := Children(node.SearchIndexDir("idx-1"), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"corpus", "query"}, names(entries))
}

func TestChildrenCorpusDirFollowsInsertionOrder(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateIndex("idx-1"))
	require.NoError(t, s.AddCorpusFile("idx-1", "b.txt"))
	require.NoError(t, s.AddCorpusFile("idx-1", "a.txt"))

	entries, err := Children(node.CorpusDir("idx-1"), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "a.txt"}, names(entries))
}

func TestChildrenCorpusDirPropagatesMissingIndex(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	_, err := Children(node.CorpusDir("missing"), s)
	assert.Error(t, err)
}

func TestChildrenConfigModelsDirIsSortedByName(t *testing.T) {
	s := state.New(state.GlobalConfig{
		Models: map[string]state.ModelOverride{
			"zeta":  {},
			"alpha": {},
		},
	})
	entries, err := Children(node.ConfigModelsDir, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, names(entries))
}

func TestChildrenModelsDirListsConfiguredModelsThenDefaultLast(t *testing.T) {
	s := state.New(state.GlobalConfig{
		Models: map[string]state.ModelOverride{
			"zeta":  {},
			"alpha": {},
		},
	})
	entries, err := Children(node.ModelsDir, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta", "default"}, names(entries))
}

func TestChildrenUnsupportedKind(t *testing.T) {
	_, err := Children(node.PromptFile("c1"), state.New(state.GlobalConfig{}))
	assert.Error(t, err)
}
