// Package fuseadapter implements the FUSE Dispatcher (C8): the concrete
// fuseutil.FileSystem that the kernel adapter calls into. It resolves
// inodes via the Inode Registry (C1) and Path Resolver (C4), invokes the
// Operation Handlers (C5) under the State Store's lock, and releases
// that lock before any LLM or search-port call, which it hands off to
// the Async Bridge (C9).
package fuseadapter

import (
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/Delta-in-hub/FuseLLM/internal/handlers"
	"github.com/Delta-in-hub/FuseLLM/internal/inode"
	"github.com/Delta-in-hub/FuseLLM/internal/node"
	"github.com/Delta-in-hub/FuseLLM/internal/state"
	"github.com/Delta-in-hub/FuseLLM/internal/vfserr"
	"github.com/Delta-in-hub/FuseLLM/metrics"
)

// ttlDuration is the dispatcher's TTL for both getattr and entry caching,
// per the 1s rule.
const ttlDuration = time.Second

// FS implements fuseutil.FileSystem. It is the single point where
// kernel callbacks, inode identity, and the State Store meet.
type FS struct {
	fuseutil.NotImplementedFileSystem

	store    *state.Store
	registry *inode.Registry
	ports    handlers.Ports
	metrics  *metrics.Metrics

	handles *handleTable
}

// New builds an FS ready to be wrapped by fuseutil.NewFileSystemServer. m
// may be nil, in which case op timing is skipped.
func New(store *state.Store, ports handlers.Ports, m *metrics.Metrics) *FS {
	return &FS{
		store:    store,
		registry: inode.New(),
		ports:    ports,
		metrics:  m,
		handles:  newHandleTable(),
	}
}

// track starts timing op and returns a func that records the observation
// against FuseOpDuration when called, typically via defer. A nil metrics
// bundle makes this a no-op.
func (fs *FS) track(op string) func() {
	if fs.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		fs.metrics.FuseOpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

func (fs *FS) Init(op *fuseops.InitOp) {
	op.Respond(nil)
}

func toInodeAttributes(a handlers.Attr, uid, gid uint32) fuseops.InodeAttributes {
	return fuseops.InodeAttributes{
		Size:   a.Size,
		Nlink:  uint64(a.Nlink),
		Mode:   a.Mode,
		Atime:  a.Mtime,
		Mtime:  a.Mtime,
		Ctime:  a.Mtime,
		Crtime: a.Mtime,
		Uid:    uid,
		Gid:    gid,
	}
}

func (fs *FS) childEntry(n node.Node, attr handlers.Attr, uid, gid uint32) fuseops.ChildInodeEntry {
	ino := fs.registry.Intern(n)
	now := time.Now()
	return fuseops.ChildInodeEntry{
		Child:                fuseops.InodeID(ino),
		Generation:           0,
		Attributes:           toInodeAttributes(attr, uid, gid),
		AttributesExpiration: now.Add(ttlDuration),
		EntryExpiration:      now.Add(ttlDuration),
	}
}

func (fs *FS) LookUpInode(op *fuseops.LookUpInodeOp) {
	defer fs.track("lookup_inode")()

	parent, ok := fs.registry.Lookup(uint64(op.Parent))
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown parent inode")))
		return
	}

	res, err := handlers.Lookup(parent, op.Name, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}

	op.Entry = fs.childEntry(res.Node, res.Attr, op.Header.Uid, op.Header.Gid)
	op.Respond(nil)
}

func (fs *FS) GetInodeAttributes(op *fuseops.GetInodeAttributesOp) {
	defer fs.track("get_inode_attributes")()

	n, ok := fs.registry.Lookup(uint64(op.Inode))
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}

	attr, err := handlers.GetAttr(n, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}

	op.Attributes = toInodeAttributes(attr, op.Header.Uid, op.Header.Gid)
	op.AttributesExpiration = time.Now().Add(ttlDuration)
	op.Respond(nil)
}

// SetInodeAttributes is a best-effort no-op beyond reporting the node's
// current attributes: mode/time changes have no meaning for synthetic
// content, and truncate-before-write (Size != nil) needs no extra work
// here since every OpenFile/CreateFile already starts its handle with an
// empty write buffer, the same effect O_TRUNC asks for.
func (fs *FS) SetInodeAttributes(op *fuseops.SetInodeAttributesOp) {
	n, ok := fs.registry.Lookup(uint64(op.Inode))
	if !ok {
		op.Respond(vfserr.Errno(vfserr.NotFoundf("unknown inode")))
		return
	}

	attr, err := handlers.GetAttr(n, fs.store)
	if err != nil {
		op.Respond(vfserr.Errno(err))
		return
	}
	op.Attributes = toInodeAttributes(attr, op.Header.Uid, op.Header.Gid)
	op.AttributesExpiration = time.Now().Add(ttlDuration)
	op.Respond(nil)
}

func (fs *FS) ForgetInode(op *fuseops.ForgetInodeOp) {
	fs.registry.Forget(uint64(op.ID))
	op.Respond(nil)
}

func (fs *FS) nodeOrRespondErr(ino fuseops.InodeID) (node.Node, bool) {
	n, ok := fs.registry.Lookup(uint64(ino))
	return n, ok
}
