package fuseadapter

import (
	"context"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/Delta-in-hub/FuseLLM/internal/handlers"
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/resolver"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
)

func (fs *FS) MkDir(op *fuseops.MkDirOp) {
	parent, ok := fs.nodeOrRespondErr(op.Parent)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown parent inode")))
		return
	}

	n, err := handlers.MkDir(context.Background(), parent, op.Name, fs.store, fs.ports.Search)
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
	op.Respond(nil)
}

func (fs *FS) RmDir(op *fuseops.RmDirOp) {
	parent, ok := fs.nodeOrRespondErr(op.Parent)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown parent inode")))
		return
	}

	err := handlers.RmDir(context.Background(), parent, op.Name, fs.store, fs.ports.Search)
	op.Respond(vfserr.Errno(err))
}

func (fs *FS) Unlink(op *fuseops.UnlinkOp) {
	parent, ok := fs.nodeOrRespondErr(op.Parent)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown parent inode")))
		return
	}

	n, err := resolver.Resolve(parent, op.Name, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}

	err = handlers.Unlink(context.Background(), n, fs.store, fs.ports.Search)
	op.Respond(vfserr.Errno(err))
}

func (fs *FS) OpenDir(op *fuseops.OpenDirOp) {
	n, ok := fs.nodeOrRespondErr(op.Inode)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}
	if !n.IsDir() {
		op.Respond(vfserr.Errno(vfserr.NotPermittedf("not a directory")))
		return
	}

	entries, err := handlers.Children(n, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}
	op.Handle = fs.handles.openDir(entries)
	op.Respond(nil)
}

func (fs *FS) ReadDir(op *fuseops.ReadDirOp) {
	dh, ok := fs.handles.dir(op.Handle)
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown directory handle")))
		return
	}

	buf := make([]byte, op.Size)
	n := 0
	for _, row := range dh.entriesFrom(op.Offset) {
		ino := fs.registry.Intern(row.node)
		written := fuseutil.WriteDirent(buf[n:], fuseops.Dirent{
			Offset: row.offset,
			Inode:  fuseops.InodeID(ino),
			Name:   row.name,
			Type:   direntType(row.node),
		})
		if written == 0 {
			break
		}
		n += written
	}
	op.Data = buf[:n]
	op.Respond(nil)
}

func (fs *FS) ReleaseDirHandle(op *fuseops.ReleaseDirHandleOp) {
	fs.handles.releaseDir(op.Handle)
	op.Respond(nil)
}

// direntType maps a Node's kind to the FUSE dirent type the kernel uses to
// avoid a stat(2) round trip for common cases like "is this a directory".
func direntType(n node.Node) fuseops.DirentType {
	switch {
	case n.IsDir():
		return fuseops.DT_Directory
	case n.IsSymlink():
		return fuseops.DT_Link
	default:
		return fuseops.DT_File
	}
}
