package handlers

import (
	"os"
	"time"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// Attr is the handler-level getattr reply: enough to fill a FUSE
// InodeAttributes without this package depending on fuseops.
type Attr struct {
	Size  uint64
	Mtime time.Time
	Mode  os.FileMode
	Nlink uint32
}

const dirMode = os.ModeDir | 0755
const fileMode = os.FileMode(0644)
const symlinkMode = os.ModeSymlink | 0777

// GetAttr computes the attributes for n: directories have size 0,
// symlinks report their target length, and every other file renders its
// content (§ content formulas) and reports that length.
func GetAttr(n node.Node, store *state.Store) (Attr, error) {
	now := time.Now()

	switch {
	case n.IsDir():
		mtime := now
		if n.Kind() == node.KindConversationDir {
			if c, err := store.GetConversation(n.ID); err == nil {
				mtime = c.UpdatedAt
			}
		}
		return Attr{Size: 0, Mtime: mtime, Mode: dirMode, Nlink: 1}, nil

	case n.IsSymlink():
		target, err := Render(n, store)
		if err != nil {
			return Attr{}, err
		}
		return Attr{Size: uint64(len(target)), Mtime: now, Mode: symlinkMode, Nlink: 1}, nil

	default:
		content, err := Render(n, store)
		if err != nil {
			return Attr{}, err
		}
		mtime := now
		if n.Kind() == node.KindPromptFile || n.Kind() == node.KindHistoryFile || n.Kind() == node.KindContextFile {
			if c, err := store.GetConversation(n.ID); err == nil {
				mtime = c.UpdatedAt
			}
		}
		return Attr{Size: uint64(len(content)), Mtime: mtime, Mode: fileMode, Nlink: 1}, nil
	}
}
