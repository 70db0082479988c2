package fuseadapter

import (
	"context"

	"github.com/jacobsa/fuse/fuseops"

	"github.com/Delta-in-hub/FuseLLM/internal/handlers"
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

// defaultQueryTopK is the result count requested of the search port for a
// query submitted via the query file; the wire protocol has no way for a
// single write(2) to also carry a result-count argument.
const defaultQueryTopK = 5

func (fs *FS) CreateFile(op *fuseops.CreateFileOp) {
	parent, ok := fs.nodeOrRespondErr(op.Parent)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown parent inode")))
		return
	}

	n, err := handlers.Create(parent, op.Name)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}

	attr, err := handlers.GetAttr(n, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}
	op.Entry = fs.childEntry(n, attr, op.Header.Uid, op.Header.Gid)
	op.Handle = fs.handles.openFile(n)
	op.Respond(nil)
}

// CreateSymlink is rejected: the three symlinks FuseLLM exposes (latest,
// default model, default index) are derived views the dispatcher computes
// from the State Store, not entities a caller can mint.
func (fs *FS) CreateSymlink(op *fuseops.CreateSymlinkOp) {
	op.Respond(vfserr.Errno(vfserr.NotPermittedf("symlinks are read-only views")))
}

// ReadSymlink is not part of this vendored fuseutil.FileSystem interface
// version and so is never dispatched by fuseutil.NewFileSystemServer, but
// is kept here (rather than relying solely on NotImplementedFileSystem's
// ENOSYS stub) so the intended behavior is documented alongside ReadLink.
func (fs *FS) ReadSymlink(op *fuseops.ReadSymlinkOp) {
	n, ok := fs.nodeOrRespondErr(op.Inode)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}
	target, err := handlers.ReadLink(n, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}
	op.Target = target
	op.Respond(nil)
}

func (fs *FS) OpenFile(op *fuseops.OpenFileOp) {
	n, ok := fs.nodeOrRespondErr(op.Inode)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}
	op.Handle = fs.handles.openFile(n)
	op.Respond(nil)
}

func (fs *FS) ReadFile(op *fuseops.ReadFileOp) {
	defer fs.track("read_file")()

	n, ok := fs.nodeOrRespondErr(op.Inode)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}

	data, err := handlers.Read(n, fs.store, op.Offset, op.Size)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}
	op.Data = data
	op.Respond(nil)
}

func (fs *FS) WriteFile(op *fuseops.WriteFileOp) {
	defer fs.track("write_file")()

	n, ok := fs.nodeOrRespondErr(op.Inode)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}
	if err := handlers.CheckWritable(n); err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}

	fh, ok := fs.handles.file(op.Handle)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown file handle")))
		return
	}
	fh.write(op.Offset, op.Data)
	op.Respond(nil)
}

// SyncFile commits the handle's accumulated write buffer immediately,
// giving msync(2)/fsync(2) callers a way to observe errors synchronously
// rather than waiting for close(2).
func (fs *FS) SyncFile(op *fuseops.SyncFileOp) {
	fh, ok := fs.handles.file(op.Handle)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown file handle")))
		return
	}
	op.Respond(vfserr.Errno(fs.commitWrite(context.Background(), fh)))
}

// FlushFile is sent once per close(2); this is where a buffered write
// actually becomes a prompt dispatch, a config update, or a corpus add.
func (fs *FS) FlushFile(op *fuseops.FlushFileOp) {
	defer fs.track("flush_file")()

	fh, ok := fs.handles.file(op.Handle)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown file handle")))
		return
	}
	op.Respond(vfserr.Errno(fs.commitWrite(context.Background(), fh)))
}

// ReleaseFileHandle only frees bookkeeping. The buffer was already
// committed by Flush (or Sync); recommitting here would double-submit a
// prompt or config write whenever a descriptor is duplicated and closed
// more than once.
func (fs *FS) ReleaseFileHandle(op *fuseops.ReleaseFileHandleOp) {
	fs.handles.releaseFile(op.Handle)
	op.Respond(nil)
}

// commitWrite dispatches a handle's accumulated buffer to the operation
// handler appropriate for its node kind, then clears the buffer so a
// second Flush on the same handle (duplicate fd, multiple close) is a
// no-op rather than a resubmission.
func (fs *FS) commitWrite(ctx context.Context, fh *fileHandle) error {
	if len(fh.buf) == 0 {
		return nil
	}
	buf := fh.buf
	fh.truncate()

	n := fh.node
	switch n.Kind() {
	case node.KindPromptFile:
		return handlers.ReleasePrompt(ctx, fs.store, fs.ports, n.ID, buf)
	case node.KindContextFile:
		return handlers.ReleaseContext(fs.store, n.ID, buf)
	case node.KindModelFile:
		return handlers.ReleaseModelFile(ctx, fs.store, fs.ports, n.Name, buf)
	case node.KindQueryFile:
		return handlers.ReleaseQuery(ctx, fs.store, fs.ports, n.ID, buf, defaultQueryTopK)
	case node.KindCorpusFile:
		return handlers.ReleaseCorpusFile(ctx, fs.store, fs.ports, n.ID, n.Name, buf)
	case node.KindGlobalSettingsFile:
		return handlers.ReleaseGlobalSettings(fs.store, buf)
	case node.KindConfigModelSettingsFile:
		return handlers.ReleaseModelSettings(fs.store, n.Name, buf)
	case node.KindConvModelFile:
		return handlers.ReleaseConvModel(fs.store, n.ID, buf)
	case node.KindConvSystemPromptFile:
		return handlers.ReleaseConvSystemPrompt(fs.store, n.ID, buf)
	case node.KindConvSettingsFile:
		return handlers.ReleaseConvSettings(fs.store, n.ID, buf)
	}

	return vfserr.NotPermittedf("write not permitted on this node")
}
