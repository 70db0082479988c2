package handlers

import (
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
)

// Read renders n's content and returns the slice in [offset, offset+size),
// clamped to the rendered length. Reads never trigger network I/O — they
// always reflect the last committed state.
func Read(n node.Node, store *state.Store, offset int64, size int) ([]byte, error) {
	content, err := Render(n, store)
	if err != nil {
		return nil, err
	}
	data := []byte(content)

	if offset < 0 || offset >= int64(len(data)) {
		return []byte{}, nil
	}
	end := offset + int64(size)
	if end > int64(len(data)) {
		end = int64(len(data))
	}
	return data[offset:end], nil
}
