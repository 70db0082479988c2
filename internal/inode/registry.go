// Package inode implements the bidirectional inode-number <-> Node mapping.
// It is the sole owner of inode identity: callers never mint an inode
// number themselves, they intern a Node and get one back.
package inode

import (
	"sync"

	"github.com/Delta-in-hub/FuseLLM/internal/node"
)

// Base constants for each per-kind allocation range, per the inode-ranges
// rule: root=1, fixed structural nodes 2..99, conversations >=10000,
// per-conversation files >=20000..80000 with distinct kind bases, indexes
// >=100000, corpus files >=200000, query files >=300000.
const (
	RootIno uint64 = 1

	baseModelsDir        uint64 = 2
	baseConfigDir        uint64 = 3
	baseConversationsDir uint64 = 4
	baseSearchDir        uint64 = 5
	baseConfigModelsDir  uint64 = 6
	baseGlobalSettings   uint64 = 7
	baseLatestLink       uint64 = 8
	baseDefaultModelLink uint64 = 9
	baseDefaultIndexLink uint64 = 10

	baseModelFile             uint64 = 1000
	baseConfigModelDir        uint64 = 1200
	baseConfigModelSettings   uint64 = 1400

	baseConversationDir uint64 = 10000

	basePromptFile           uint64 = 20000
	baseHistoryFile          uint64 = 30000
	baseContextFile          uint64 = 40000
	baseConvModelFile        uint64 = 50000
	baseConvSystemPromptFile uint64 = 60000
	baseConvConfigDir        uint64 = 70000
	baseConvSettingsFile     uint64 = 80000

	baseSearchIndexDir uint64 = 100000
	baseCorpusDir      uint64 = 150000

	baseCorpusFile uint64 = 200000

	baseQueryFile uint64 = 300000
)

// Registry is the bidirectional ino<->Node table. Allocation is one
// monotonic counter per kind, starting at that kind's base constant;
// retired inodes are never reissued, so forgetting an entry only removes
// it from the maps without returning its number to the counter.
type Registry struct {
	mu sync.Mutex

	byIno  map[uint64]node.Node
	byNode map[node.Node]uint64

	counters map[node.Kind]uint64
}

// New builds an empty Registry with the Root node pre-interned at ino 1.
func New() *Registry {
	r := &Registry{
		byIno:    make(map[uint64]node.Node),
		byNode:   make(map[node.Node]uint64),
		counters: make(map[node.Kind]uint64),
	}
	r.byIno[RootIno] = node.Root
	r.byNode[node.Root] = RootIno
	return r
}

// baseFor returns the allocation base for a dynamic/fixed node's Kind.
// Structural singletons resolve to their own fixed constant instead of a
// counter (see Intern).
func baseFor(k node.Kind) uint64 {
	switch k {
	case node.KindModelFile:
		return baseModelFile
	case node.KindConfigModelDir:
		return baseConfigModelDir
	case node.KindConfigModelSettingsFile:
		return baseConfigModelSettings
	case node.KindConversationDir:
		return baseConversationDir
	case node.KindPromptFile:
		return basePromptFile
	case node.KindHistoryFile:
		return baseHistoryFile
	case node.KindContextFile:
		return baseContextFile
	case node.KindConvModelFile:
		return baseConvModelFile
	case node.KindConvSystemPromptFile:
		return baseConvSystemPromptFile
	case node.KindConvConfigDir:
		return baseConvConfigDir
	case node.KindConvSettingsFile:
		return baseConvSettingsFile
	case node.KindSearchIndexDir:
		return baseSearchIndexDir
	case node.KindCorpusDir:
		return baseCorpusDir
	case node.KindCorpusFile:
		return baseCorpusFile
	case node.KindQueryFile:
		return baseQueryFile
	default:
		return 0
	}
}

// fixedIno returns the pre-assigned inode for a structural singleton node,
// or 0 if n is not one.
func fixedIno(n node.Node) uint64 {
	switch n.Kind() {
	case node.KindRoot:
		return RootIno
	case node.KindModelsDir:
		return baseModelsDir
	case node.KindConfigDir:
		return baseConfigDir
	case node.KindConversationsDir:
		return baseConversationsDir
	case node.KindSearchDir:
		return baseSearchDir
	case node.KindConfigModelsDir:
		return baseConfigModelsDir
	case node.KindGlobalSettingsFile:
		return baseGlobalSettings
	case node.KindLatestConversationLink:
		return baseLatestLink
	case node.KindDefaultModelLink:
		return baseDefaultModelLink
	case node.KindDefaultIndexLink:
		return baseDefaultIndexLink
	default:
		return 0
	}
}

// Intern returns the stable inode number for n, allocating one on first
// use. Calling Intern again with a value-equal Node returns the same
// number — the map lookup makes this idempotent.
func (r *Registry) Intern(n node.Node) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.internLocked(n)
}

func (r *Registry) internLocked(n node.Node) uint64 {
	if ino, ok := r.byNode[n]; ok {
		return ino
	}
	if fixed := fixedIno(n); fixed != 0 {
		r.byIno[fixed] = n
		r.byNode[n] = fixed
		return fixed
	}

	base := baseFor(n.Kind())
	next := r.counters[n.Kind()]
	if next < base {
		next = base
	}
	ino := next
	r.counters[n.Kind()] = next + 1

	r.byIno[ino] = n
	r.byNode[n] = ino
	return ino
}

// Lookup returns the Node for ino, or node.NotFound with ok=false if ino
// is unknown or has been forgotten.
func (r *Registry) Lookup(ino uint64) (node.Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byIno[ino]
	if !ok {
		return node.NotFound, false
	}
	return n, true
}

// InoOf returns the already-assigned inode for n, or ok=false if n was
// never interned.
func (r *Registry) InoOf(n node.Node) (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ino, ok := r.byNode[n]
	return ino, ok
}

// Forget removes ino from the table. The number is never reused: later
// calls to Intern for any Node will allocate from the running counter,
// which this does not roll back.
func (r *Registry) Forget(ino uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byIno[ino]
	if !ok {
		return
	}
	delete(r.byIno, ino)
	delete(r.byNode, n)
}
