package handlers

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

func TestGetAttrDirHasZeroSize(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	attr, err := GetAttr(node.ConversationsDir, s)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), attr.Size)
	assert.Equal(t, dirMode, attr.Mode)
}

func TestGetAttrConversationDirMtimeTracksUpdatedAt(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	c, err := s.GetConversation("c1")
	require.NoError(t, err)

	attr, err := GetAttr(node.ConversationDir("c1"), s)
	require.NoError(t, err)
	assert.Equal(t, c.UpdatedAt, attr.Mtime)
}

func TestGetAttrSymlinkSizeIsTargetLength(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateConversation("abc"))

	attr, err := GetAttr(node.LatestConversationLink, s)
	require.NoError(t, err)
	assert.Equal(t, uint64(len("abc")), attr.Size)
	assert.Equal(t, symlinkMode, attr.Mode)
}

func TestGetAttrSymlinkPropagatesRenderError(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	_, err := GetAttr(node.LatestConversationLink, s)
	assert.Error(t, err)
}

func TestGetAttrFileSizeIsContentLength(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "hi"))
	s.EndRequest("c1", "hello", nil)

	attr, err := GetAttr(node.PromptFile("c1"), s)
	require.NoError(t, err)
	assert.Equal(t, uint64(len("hello")), attr.Size)
	assert.Equal(t, fileMode, attr.Mode)
	assert.Equal(t, os.FileMode(0644), attr.Mode&os.ModePerm)
}

func TestGetAttrFilePropagatesRenderError(t *testing.T) {
	s := state.New(state.GlobalConfig{})
	_, err := GetAttr(node.PromptFile("missing"), s)
	assert.Error(t, err)
}
