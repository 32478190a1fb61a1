package grid

import (
	"context"
	"errors"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/gridcache/store"
)

// Mode is a Node's runtime role.
type Mode int

const (
	// ModeClient marks a node attached to a remote grid.
	ModeClient Mode = iota + 1
	// ModePeer marks a node embedded as a grid member.
	ModePeer
)

func (m Mode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModePeer:
		return "peer"
	default:
		return "unknown"
	}
}

// Node is the concrete cache instance type for both roles. It implements
// ClientHandle and PeerHandle regardless of the mode it was built with, so
// role must be read from IsClient, never inferred from interface satisfaction.
type Node struct {
	name string
	mode Mode

	// client mode
	rdb     goredis.UniversalClient
	servers []string
	ownRdb  bool

	// peer mode
	engine store.Store

	mu      sync.Mutex
	regions map[string]Region
	closed  bool
}

var (
	_ ClientHandle = (*Node)(nil)
	_ PeerHandle   = (*Node)(nil)
	_ ModeReporter = (*Node)(nil)
)

// ClientConfig configures a client-mode node.
type ClientConfig struct {
	// Name identifies the instance; defaults to "client".
	Name string

	// Client is the grid connection. Required.
	Client goredis.UniversalClient

	// Servers lists the remote addresses, for reporting only; connection
	// routing is the Client's concern.
	Servers []string

	// CloseClient releases Client on Node.Close. Set only when the node
	// exclusively owns the connection.
	CloseClient bool
}

// PeerConfig configures a peer-mode node.
type PeerConfig struct {
	// Name identifies the member; defaults to "peer".
	Name string

	// Engine holds the member's data. Required. All regions share the engine
	// under region-prefixed keys.
	Engine store.Store
}

// Connect builds and registers a client-mode node attached to a remote grid.
// No I/O happens here; the connection is exercised lazily by region calls.
func Connect(cfg ClientConfig) (*Node, error) {
	if cfg.Client == nil {
		return nil, errors.New("grid: client connection is required")
	}
	n := &Node{
		name:    cfg.Name,
		mode:    ModeClient,
		rdb:     cfg.Client,
		servers: cfg.Servers,
		ownRdb:  cfg.CloseClient,
		regions: make(map[string]Region),
	}
	if n.name == "" {
		n.name = "client"
	}
	Register(n)
	return n, nil
}

// Join builds and registers a peer-mode node holding grid data in-process.
func Join(cfg PeerConfig) (*Node, error) {
	if cfg.Engine == nil {
		return nil, errors.New("grid: peer engine is required")
	}
	n := &Node{
		name:    cfg.Name,
		mode:    ModePeer,
		engine:  cfg.Engine,
		regions: make(map[string]Region),
	}
	if n.name == "" {
		n.name = "peer"
	}
	Register(n)
	return n, nil
}

func (n *Node) Name() string { return n.name }

// IsClient reports the node's actual runtime role. This is the self-reported
// mode flag dual-role classification relies on.
func (n *Node) IsClient() bool { return n.mode == ModeClient }

// Mode returns the node's runtime role.
func (n *Node) Mode() Mode { return n.mode }

// Servers reports the remote grid addresses. Empty for peer-mode nodes.
func (n *Node) Servers() []string {
	out := make([]string, len(n.servers))
	copy(out, n.servers)
	return out
}

// Members reports the member names known to this node. A peer knows at least
// itself; a client-mode node reports none.
func (n *Node) Members() []string {
	if n.mode != ModePeer {
		return nil
	}
	return []string{n.name}
}

// Region returns the named region, creating it on first access. The backing
// depends on the node's mode: remote (grid connection) for clients, the local
// engine for peers.
func (n *Node) Region(name string) Region {
	n.mu.Lock()
	defer n.mu.Unlock()
	if r, ok := n.regions[name]; ok {
		return r
	}
	var r Region
	if n.mode == ModeClient {
		r = &remoteRegion{name: name, rdb: n.rdb}
	} else {
		r = &localRegion{name: name, engine: n.engine}
	}
	n.regions[name] = r
	return r
}

// Close deregisters the node and releases owned resources. Safe to call more
// than once.
func (n *Node) Close(ctx context.Context) error {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return nil
	}
	n.closed = true
	n.mu.Unlock()

	Deregister(n)

	switch n.mode {
	case ModeClient:
		if n.ownRdb {
			if err := n.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
				return err
			}
		}
		return nil
	case ModePeer:
		return n.engine.Close(ctx)
	default:
		return nil
	}
}
