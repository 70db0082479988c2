package handlers

import (
	"sort"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// DirEntry is one readdir row: a child name and the Node it names. The
// dispatcher turns this into a fuseutil.Dirent, assigning the inode via
// the registry and the offset via the snapshot position.
type DirEntry struct {
	Name string
	Node node.Node
}

// Children enumerates n's entries in the order: dynamic entries in
// insertion order, then fixed entries lexically. The dispatcher prepends
// "." and ".." and assigns stable 1-based offsets over this snapshot.
func Children(n node.Node, store *state.Store) ([]DirEntry, error) {
	switch n.Kind() {
	case node.KindRoot:
		return fixedSorted(map[string]node.Node{
			"models":          node.ModelsDir,
			"config":          node.ConfigDir,
			"conversations":   node.ConversationsDir,
			"semantic_search": node.SearchDir,
		}), nil

	case node.KindConfigDir:
		return fixedSorted(map[string]node.Node{
			"settings": node.GlobalSettingsFile,
			"models":   node.ConfigModelsDir,
		}), nil

	case node.KindConfigModelsDir:
		// Dynamic-by-name but no ordered registry of model names exists
		// independent of the global config; list configured overrides in
		// map iteration order sorted for determinism, since no insertion
		// order is tracked for this fixed-shape, rarely-listed directory.
		g := store.GlobalConfigSnapshot()
		names := make([]string, 0, len(g.Models))
		for name := range g.Models {
			names = append(names, name)
		}
		sort.Strings(names)
		entries := make([]DirEntry, 0, len(names))
		for _, name := range names {
			entries = append(entries, DirEntry{Name: name, Node: node.ConfigModelDir(name)})
		}
		return entries, nil

	case node.KindConfigModelDir:
		return fixedSorted(map[string]node.Node{
			"settings": node.ConfigModelSettingsFile(n.Name),
		}), nil

	case node.KindModelsDir:
		g := store.GlobalConfigSnapshot()
		names := make([]string, 0, len(g.Models))
		for name := range g.Models {
			names = append(names, name)
		}
		sort.Strings(names)
		entries := make([]DirEntry, 0, len(names)+1)
		for _, name := range names {
			entries = append(entries, DirEntry{Name: name, Node: node.ModelFile(name)})
		}
		entries = append(entries, DirEntry{Name: "default", Node: node.DefaultModelLink})
		return entries, nil

	case node.KindConversationsDir:
		ids := store.ConversationIDs()
		entries := make([]DirEntry, 0, len(ids)+1)
		for _, id := range ids {
			entries = append(entries, DirEntry{Name: id, Node: node.ConversationDir(id)})
		}
		entries = append(entries, DirEntry{Name: "latest", Node: node.LatestConversationLink})
		return entries, nil

	case node.KindConversationDir:
		return fixedSorted(map[string]node.Node{
			"prompt":  node.PromptFile(n.ID),
			"history": node.HistoryFile(n.ID),
			"context": node.ContextFile(n.ID),
			"config":  node.ConvConfigDir(n.ID),
		}), nil

	case node.KindConvConfigDir:
		return fixedSorted(map[string]node.Node{
			"model":         node.ConvModelFile(n.ID),
			"system_prompt": node.ConvSystemPromptFile(n.ID),
			"settings":      node.ConvSettingsFile(n.ID),
		}), nil

	case node.KindSearchDir:
		ids := store.IndexIDs()
		entries := make([]DirEntry, 0, len(ids)+1)
		for _, id := range ids {
			entries = append(entries, DirEntry{Name: id, Node: node.SearchIndexDir(id)})
		}
		entries = append(entries, DirEntry{Name: "default", Node: node.DefaultIndexLink})
		return entries, nil

	case node.KindSearchIndexDir:
		return fixedSorted(map[string]node.Node{
			"corpus": node.CorpusDir(n.ID),
			"query":  node.QueryFile(n.ID),
		}), nil

	case node.KindCorpusDir:
		idx, err := store.GetIndex(n.ID)
		if err != nil {
			return nil, err
		}
		entries := make([]DirEntry, 0, len(idx.CorpusOrder))
		for _, name := range idx.CorpusOrder {
			entries = append(entries, DirEntry{Name: name, Node: node.CorpusFile(n.ID, name)})
		}
		return entries, nil
	}

	return nil, vfserr.Unsupportedf("node kind %v is not a directory", n.Kind())
}

func fixedSorted(m map[string]node.Node) []DirEntry {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	entries := make([]DirEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, DirEntry{Name: name, Node: m[name]})
	}
	return entries
}
