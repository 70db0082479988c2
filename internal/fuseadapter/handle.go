package fuseadapter

import (
	"sync"

	"github.com/jacobsa/fuse/fuseops"

	"github.com/Delta-in-hub/FuseLLM/internal/handlers"
	"github.com/Delta-in-hub/FuseLLM/internal/node"
)

// direntRow is one snapshotted readdir row: the offset a later ReadDirOp
// may resume from, and the entry itself.
type direntRow struct {
	offset fuseops.DirOffset
	name   string
	node   node.Node
}

// dirHandle is the snapshot taken at OpenDir time. FUSE directory offsets
// are opaque cookies, not byte counts, so a fresh slice fixes the ordering
// for the lifetime of the handle regardless of concurrent mutation.
type dirHandle struct {
	rows []direntRow
}

func newDirHandle(entries []handlers.DirEntry) *dirHandle {
	rows := make([]direntRow, 0, len(entries)+2)
	rows = append(rows, direntRow{offset: 1, name: ".", node: node.Root})
	rows = append(rows, direntRow{offset: 2, name: "..", node: node.Root})
	for i, e := range entries {
		rows = append(rows, direntRow{offset: fuseops.DirOffset(i + 3), name: e.Name, node: e.Node})
	}
	return &dirHandle{rows: rows}
}

// entriesFrom returns the rows whose offset is strictly greater than from,
// the resume point the kernel passes back on the next ReadDirOp.
func (d *dirHandle) entriesFrom(from fuseops.DirOffset) []direntRow {
	for i, r := range d.rows {
		if r.offset > from {
			return d.rows[i:]
		}
	}
	return nil
}

// fileHandle accumulates writes to a writable file node in memory. Nothing
// is committed to the State Store or the network until FlushFile or
// SyncFile commits the buffer; ReleaseFileHandle only drops the handle.
type fileHandle struct {
	node node.Node
	buf  []byte
}

func (fh *fileHandle) write(offset int64, data []byte) {
	end := offset + int64(len(data))
	if end > int64(len(fh.buf)) {
		grown := make([]byte, end)
		copy(grown, fh.buf)
		fh.buf = grown
	}
	copy(fh.buf[offset:end], data)
}

func (fh *fileHandle) truncate() {
	fh.buf = fh.buf[:0]
}

// handleTable mints and tracks the opaque fuseops.HandleID values handed
// back from OpenDir/OpenFile/CreateFile, guarded by its own mutex so the
// dispatcher never has to hold the State Store's lock while bookkeeping
// handles.
type handleTable struct {
	mu   sync.Mutex
	next fuseops.HandleID

	dirs  map[fuseops.HandleID]*dirHandle
	files map[fuseops.HandleID]*fileHandle
}

func newHandleTable() *handleTable {
	return &handleTable{
		dirs:  make(map[fuseops.HandleID]*dirHandle),
		files: make(map[fuseops.HandleID]*fileHandle),
	}
}

func (t *handleTable) allocLocked() fuseops.HandleID {
	t.next++
	return t.next
}

func (t *handleTable) openDir(entries []handlers.DirEntry) fuseops.HandleID {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.allocLocked()
	t.dirs[h] = newDirHandle(entries)
	return h
}

func (t *handleTable) dir(h fuseops.HandleID) (*dirHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	dh, ok := t.dirs[h]
	return dh, ok
}

func (t *handleTable) releaseDir(h fuseops.HandleID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.dirs, h)
}

func (t *handleTable) openFile(n node.Node) fuseops.HandleID {
	t.mu.Lock()
	defer t.mu.Unlock()
	h := t.allocLocked()
	t.files[h] = &fileHandle{node: n}
	return h
}

func (t *handleTable) file(h fuseops.HandleID) (*fileHandle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fh, ok := t.files[h]
	return fh, ok
}

func (t *handleTable) releaseFile(h fuseops.HandleID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, h)
}
