package handlers

import (
	"context"

	"github.com/Delta-in-hub/FuseLLM/internal/asyncbridge"
	"github.com/Delta-in-hub/FuseLLM/internal/llmport"
	"github.com/Delta-in-hub/FuseLLM/internal/searchport"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// Ports bundles the network boundaries a release handler may need,
// passed in by the dispatcher so this package stays free of any
// knowledge of how they were constructed (config, transport, etc).
type Ports struct {
	LLM    llmport.Port
	Search searchport.Port
	Bridge *asyncbridge.Pool
}

// ReleasePrompt is called when a PromptFile handle closes (or fsyncs).
// buf is the fully assembled user message. It appends the user turn and
// marks the conversation in-flight synchronously (so a concurrent second
// write observes Busy immediately), then submits the chat call to the
// priority queue; the reply is committed asynchronously.
func ReleasePrompt(ctx context.Context, store *state.Store, ports Ports, convID string, buf []byte) error {
	userMsg := string(buf)
	if err := store.BeginRequest(convID, userMsg); err != nil {
		return err
	}

	eff, err := store.EffectiveConfigFor(convID)
	if err != nil {
		store.EndRequest(convID, "", err)
		return err
	}

	ctxPrefix, _ := store.TakeContext(convID)

	ports.Bridge.SubmitPriority(ctx, func(jobCtx context.Context) {
		c, err := store.GetConversation(convID)
		if err != nil {
			return
		}
		turns := c.History
		if ctxPrefix != "" {
			turns = append([]state.Turn{{Role: "user", Content: ctxPrefix}}, turns...)
		}
		msgs := llmport.BuildMessages(eff, turns)
		reply, callErr := ports.LLM.Chat(jobCtx, eff, msgs)
		store.EndRequest(convID, reply, callErr)
	})

	return nil
}

// ReleaseContext replaces a conversation's scratchpad context. No
// network I/O is involved.
func ReleaseContext(store *state.Store, convID string, buf []byte) error {
	return store.SetContext(convID, string(buf))
}

// ReleaseModelFile is called when a ModelFile handle closes. The buffer
// is sent as a single-shot stateless prompt; the reply is cached under
// the model name.
func ReleaseModelFile(ctx context.Context, store *state.Store, ports Ports, model string, buf []byte) error {
	prompt := string(buf)
	eff := store.GlobalConfigSnapshot().Merge(model, state.ConversationConfig{})
	msgs := llmport.BuildMessages(eff, []state.Turn{{Role: "user", Content: prompt}})

	ports.Bridge.SubmitPriority(ctx, func(jobCtx context.Context) {
		reply, err := ports.LLM.Chat(jobCtx, eff, msgs)
		if err != nil {
			store.SetModelResponse(model, "error: "+err.Error())
			return
		}
		store.SetModelResponse(model, reply)
	})
	return nil
}

// ReleaseQuery is called when a QueryFile handle closes. The buffer is
// sent as a query to the search port; the reply replaces the index's
// latest query result.
func ReleaseQuery(ctx context.Context, store *state.Store, ports Ports, indexID string, buf []byte, topK int) error {
	if !store.HasIndex(indexID) {
		return vfserr.NotFoundf("search index %q not found", indexID)
	}
	text := string(buf)

	ports.Bridge.Submit(ctx, func(jobCtx context.Context) {
		result, err := ports.Search.Query(jobCtx, indexID, text, topK)
		if err != nil {
			_ = store.SetQueryResult(indexID, "error: "+err.Error())
			return
		}
		_ = store.SetQueryResult(indexID, result)
	})
	return nil
}

// ReleaseCorpusFile is called when a CorpusFile handle closes. The
// buffer is forwarded to the search port as an add/update; on failure
// the in-progress membership is withdrawn and the error is surfaced.
func ReleaseCorpusFile(ctx context.Context, store *state.Store, ports Ports, indexID, name string, buf []byte) error {
	content := string(buf)
	if err := ports.Search.AddDocument(ctx, indexID, name, content); err != nil {
		_ = store.RemoveCorpusFile(indexID, name)
		return err
	}
	return store.AddCorpusFile(indexID, name)
}

// ReleaseGlobalSettings parses and installs a new global config snapshot.
// On parse or validation failure the existing snapshot is left
// untouched, byte-for-byte, as the writer's prior content.
func ReleaseGlobalSettings(store *state.Store, buf []byte) error {
	cfg, err := state.DecodeGlobalConfig(string(buf))
	if err != nil {
		return err
	}
	if err := state.ValidateTemperature(cfg.Temperature); err != nil {
		return err
	}
	for _, ov := range cfg.Models {
		if err := state.ValidateTemperature(ov.Temperature); err != nil {
			return err
		}
	}
	store.ReplaceGlobalConfig(cfg)
	return nil
}

// ReleaseModelSettings parses and installs an override for one model
// under /config/models/<name>/settings.
func ReleaseModelSettings(store *state.Store, model string, buf []byte) error {
	ov, err := state.DecodeModelOverride(string(buf))
	if err != nil {
		return err
	}
	if err := state.ValidateTemperature(ov.Temperature); err != nil {
		return err
	}
	cfg := store.GlobalConfigSnapshot()
	if cfg.Models == nil {
		cfg.Models = make(map[string]state.ModelOverride)
	}
	cfg.Models[model] = ov
	store.ReplaceGlobalConfig(cfg)
	return nil
}

// ReleaseConvModel sets a conversation's model override.
func ReleaseConvModel(store *state.Store, convID string, buf []byte) error {
	c, err := store.GetConversation(convID)
	if err != nil {
		return err
	}
	cfg := c.Config
	cfg.Model = trimTrailingNewline(string(buf))
	return store.SetConversationConfig(convID, cfg)
}

// ReleaseConvSystemPrompt sets a conversation's system-prompt override.
func ReleaseConvSystemPrompt(store *state.Store, convID string, buf []byte) error {
	c, err := store.GetConversation(convID)
	if err != nil {
		return err
	}
	sp := trimTrailingNewline(string(buf))
	cfg := c.Config
	cfg.SystemPrompt = &sp
	return store.SetConversationConfig(convID, cfg)
}

// ReleaseConvSettings parses and installs a conversation's full config
// overlay from its TOML aggregate view.
func ReleaseConvSettings(store *state.Store, convID string, buf []byte) error {
	cfg, err := state.DecodeConversationConfig(string(buf))
	if err != nil {
		return err
	}
	if err := state.ValidateTemperature(cfg.Temperature); err != nil {
		return err
	}
	return store.SetConversationConfig(convID, cfg)
}

func trimTrailingNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		return s[:n-1]
	}
	return s
}
