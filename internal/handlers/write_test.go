package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
)

func TestCheckWritableAllowsWritableKinds(t *testing.T) {
	assert.NoError(t, CheckWritable(node.PromptFile("c1")))
	assert.NoError(t, CheckWritable(node.ContextFile("c1")))
	assert.NoError(t, CheckWritable(node.ConvModelFile("c1")))
	assert.NoError(t, CheckWritable(node.ModelFile("gpt-4")))
	assert.NoError(t, CheckWritable(node.CorpusFile("idx-1", "doc.txt")))
}

func TestCheckWritableRejectsReadOnlyKinds(t *testing.T) {
	assert.Error(t, CheckWritable(node.HistoryFile("c1")))
	assert.Error(t, CheckWritable(node.Root))
	assert.Error(t, CheckWritable(node.LatestConversationLink))
}
