package handlers

import (
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// CheckWritable rejects a write(2) against a node kind that has no
// writable meaning. The dispatcher calls this before buffering any
// bytes; the actual write is message-oriented and only takes effect on
// release, per the write handler's per-handle-buffer design.
func CheckWritable(n node.Node) error {
	if !n.Writable() {
		return vfserr.NotPermittedf("write not permitted on this node")
	}
	return nil
}
