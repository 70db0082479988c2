package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversationRejectsDuplicate(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	assert.Error(t, s.CreateConversation("c1"))
}

func TestLatestConversationIDTracksMostRecentlyTouched(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.CreateConversation("c2"))
	assert.Equal(t, "c2", s.LatestConversationID())

	require.NoError(t, s.BeginRequest("c1", "hi"))
	assert.Equal(t, "c1", s.LatestConversationID())
}

func TestDropConversationRejectsWhileInFlight(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "hi"))

	err := s.DropConversation("c1")
	assert.Error(t, err)
	assert.True(t, s.HasConversation("c1"))
}

func TestDropConversationUpdatesLatestWhenLatestIsDropped(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.CreateConversation("c2"))
	require.NoError(t, s.DropConversation("c2"))
	assert.Equal(t, "c1", s.LatestConversationID())

	require.NoError(t, s.DropConversation("c1"))
	assert.Equal(t, "", s.LatestConversationID())
}

func TestBeginRequestRejectsSecondConcurrentRequest(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "first"))

	err := s.BeginRequest("c1", "second")
	assert.Error(t, err)

	c, err := s.GetConversation("c1")
	require.NoError(t, err)
	assert.Len(t, c.History, 1)
	assert.True(t, c.InFlight)
}

func TestEndRequestAppendsAssistantTurnOnSuccess(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "hello"))

	s.EndRequest("c1", "hi there", nil)

	c, err := s.GetConversation("c1")
	require.NoError(t, err)
	assert.False(t, c.InFlight)
	assert.Equal(t, "hi there", c.LatestResponse)
	require.Len(t, c.History, 2)
	assert.Equal(t, Turn{Role: "user", Content: "hello"}, c.History[0])
	assert.Equal(t, Turn{Role: "assistant", Content: "hi there"}, c.History[1])
}

func TestEndRequestRecordsErrorAsLatestResponseOnFailure(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "hello"))

	s.EndRequest("c1", "", errors.New("upstream boom"))

	c, err := s.GetConversation("c1")
	require.NoError(t, err)
	assert.False(t, c.InFlight)
	assert.Equal(t, "error: upstream boom", c.LatestResponse)
	assert.Len(t, c.History, 1, "a failed request never appends an assistant turn")
}

func TestClearLatestResponseRejectsWhileInFlight(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateConversation("c1"))
	require.NoError(t, s.BeginRequest("c1", "hi"))
	assert.Error(t, s.ClearLatestResponse("c1"))
}

func TestEffectiveConfigForMergesGlobalModelAndConversationLayers(t *testing.T) {
	globalTemp := 0.5
	modelTemp := 0.9
	convTemp := 1.2
	global := GlobalConfig{
		DefaultModel: "base-model",
		Temperature:  &globalTemp,
		Models: map[string]ModelOverride{
			"special-model": {Temperature: &modelTemp},
		},
	}
	s := New(global)
	require.NoError(t, s.CreateConversation("c1"))

	eff, err := s.EffectiveConfigFor("c1")
	require.NoError(t, err)
	assert.Equal(t, "base-model", eff.Model)
	assert.Equal(t, &globalTemp, eff.Temperature)

	require.NoError(t, s.SetConversationConfig("c1", ConversationConfig{Model: "special-model"}))
	eff, err = s.EffectiveConfigFor("c1")
	require.NoError(t, err)
	assert.Equal(t, "special-model", eff.Model)
	assert.Equal(t, &modelTemp, eff.Temperature)

	require.NoError(t, s.SetConversationConfig("c1", ConversationConfig{Model: "special-model", Temperature: &convTemp}))
	eff, err = s.EffectiveConfigFor("c1")
	require.NoError(t, err)
	assert.Equal(t, &convTemp, eff.Temperature)
}

func TestCreateIndexRejectsDuplicate(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateIndex("idx-1"))
	assert.Error(t, s.CreateIndex("idx-1"))
}

func TestDefaultIndexIDIsFirstByInsertionOrder(t *testing.T) {
	s := New(GlobalConfig{})
	assert.Equal(t, "", s.DefaultIndexID())
	require.NoError(t, s.CreateIndex("idx-1"))
	require.NoError(t, s.CreateIndex("idx-2"))
	assert.Equal(t, "idx-1", s.DefaultIndexID())
}

func TestAddCorpusFileIsIdempotent(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateIndex("idx-1"))
	require.NoError(t, s.AddCorpusFile("idx-1", "doc.txt"))
	require.NoError(t, s.AddCorpusFile("idx-1", "doc.txt"))

	idx, err := s.GetIndex("idx-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"doc.txt"}, idx.CorpusOrder)
}

func TestRemoveCorpusFileWithdrawsMembership(t *testing.T) {
	s := New(GlobalConfig{})
	require.NoError(t, s.CreateIndex("idx-1"))
	require.NoError(t, s.AddCorpusFile("idx-1", "doc.txt"))
	require.NoError(t, s.RemoveCorpusFile("idx-1", "doc.txt"))
	assert.False(t, s.HasCorpusFile("idx-1", "doc.txt"))
}

func TestModelResponseCacheIsStatelessPerModel(t *testing.T) {
	s := New(GlobalConfig{})
	assert.Equal(t, "", s.ModelResponse("gpt-4"))
	s.SetModelResponse("gpt-4", "hello")
	assert.Equal(t, "hello", s.ModelResponse("gpt-4"))
	assert.Equal(t, "", s.ModelResponse("other-model"))
}

func TestReplaceGlobalConfigIsVisibleInSnapshot(t *testing.T) {
	s := New(GlobalConfig{DefaultModel: "a"})
	s.ReplaceGlobalConfig(GlobalConfig{DefaultModel: "b"})
	assert.Equal(t, "b", s.DefaultModel())
	assert.Equal(t, "b", s.GlobalConfigSnapshot().DefaultModel)
}
