// Package resolver implements the Path Resolver: routes a (parent, name)
// pair to the child Node it names, consulting the State Store for
// dynamic entities. It is a pure function over the store's current
// snapshot — no caching, no inode allocation (that is the registry's
// job).
package resolver

import (
	"strings"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

const maxNameLen = 255

// ValidateName checks a child name for the constraints common to every
// directory: no embedded '/' or NUL, length bound, and the reserved "."
// / ".." names.
func ValidateName(name string) error {
	if name == "" || len(name) > maxNameLen {
		return vfserr.InvalidInputf("invalid name length: %q", name)
	}
	if name == "." || name == ".." {
		return vfserr.InvalidInputf("reserved name: %q", name)
	}
	if strings.ContainsAny(name, "/\x00") {
		return vfserr.InvalidInputf("name contains illegal character: %q", name)
	}
	return nil
}

// IsReservedChildName reports whether name collides with a fixed child
// that parent's kind always resolves ahead of any dynamic entity (the
// "latest" symlink under ConversationsDir, "default" under SearchDir and
// ModelsDir). Creation paths (mkdir) must reject these names before they
// ever reach the store, since Resolve always prefers the fixed symlink
// over a same-named dynamic entry and the created entity would become
// permanently unreachable under that name.
func IsReservedChildName(parentKind node.Kind, name string) bool {
	switch parentKind {
	case node.KindConversationsDir:
		return name == "latest"
	case node.KindSearchDir, node.KindModelsDir:
		return name == "default"
	}
	return false
}

// Resolve returns the Node that (parent, name) names, or node.NotFound
// with a NotFound error if none exists. store may be nil: fixed children
// still resolve, and names that would need a store lookup (conversations,
// indexes, corpus files) resolve to NotFound.
func Resolve(parent node.Node, name string, store *state.Store) (node.Node, error) {
	if err := ValidateName(name); err != nil {
		return node.NotFound, err
	}

	switch parent.Kind() {
	case node.KindRoot:
		switch name {
		case "models":
			return node.ModelsDir, nil
		case "config":
			return node.ConfigDir, nil
		case "conversations":
			return node.ConversationsDir, nil
		case "semantic_search":
			return node.SearchDir, nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindModelsDir:
		if name == "default" {
			return node.DefaultModelLink, nil
		}
		return node.ModelFile(name), nil

	case node.KindConfigDir:
		switch name {
		case "settings":
			return node.GlobalSettingsFile, nil
		case "models":
			return node.ConfigModelsDir, nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindConfigModelsDir:
		return node.ConfigModelDir(name), nil

	case node.KindConfigModelDir:
		if name == "settings" {
			return node.ConfigModelSettingsFile(parent.Name), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindConversationsDir:
		if name == "latest" {
			return node.LatestConversationLink, nil
		}
		if store != nil && store.HasConversation(name) {
			return node.ConversationDir(name), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such conversation: %q", name)

	case node.KindConversationDir:
		switch name {
		case "prompt":
			return node.PromptFile(parent.ID), nil
		case "history":
			return node.HistoryFile(parent.ID), nil
		case "context":
			return node.ContextFile(parent.ID), nil
		case "config":
			return node.ConvConfigDir(parent.ID), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindConvConfigDir:
		switch name {
		case "model":
			return node.ConvModelFile(parent.ID), nil
		case "system_prompt":
			return node.ConvSystemPromptFile(parent.ID), nil
		case "settings":
			return node.ConvSettingsFile(parent.ID), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindSearchDir:
		if name == "default" {
			return node.DefaultIndexLink, nil
		}
		if store != nil && store.HasIndex(name) {
			return node.SearchIndexDir(name), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such index: %q", name)

	case node.KindSearchIndexDir:
		switch name {
		case "corpus":
			return node.CorpusDir(parent.ID), nil
		case "query":
			return node.QueryFile(parent.ID), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)

	case node.KindCorpusDir:
		if store != nil && store.HasCorpusFile(parent.ID, name) {
			return node.CorpusFile(parent.ID, name), nil
		}
		return node.NotFound, vfserr.NotFoundf("no such corpus file: %q", name)
	}

	return node.NotFound, vfserr.NotFoundf("no such entry: %q", name)
}
