package grid

import (
	"context"
	"errors"
	"testing"

	goredis "github.com/redis/go-redis/v9"
)

func TestEmptyRegistry(t *testing.T) {
	if _, err := AnyClientInstance(); !errors.Is(err, ErrNoClientInstance) {
		t.Fatalf("AnyClientInstance expected ErrNoClientInstance, got %v", err)
	}
	if _, err := AnyPeerInstance(); !errors.Is(err, ErrNoPeerInstance) {
		t.Fatalf("AnyPeerInstance expected ErrNoPeerInstance, got %v", err)
	}
}

// The registry deliberately does not classify: a dual-role node in peer mode
// still answers the client lookup. Role judgment lives in the resolver.
func TestRegistryDoesNotClassify(t *testing.T) {
	peer, _ := newTestPeer(t, "m1")

	c, err := AnyClientInstance()
	if err != nil || c != ClientHandle(peer) {
		t.Fatalf("AnyClientInstance should surface the dual-role peer, got (%v, %v)", c, err)
	}
	p, err := AnyPeerInstance()
	if err != nil || p != PeerHandle(peer) {
		t.Fatalf("AnyPeerInstance = (%v, %v)", p, err)
	}
}

func TestRegistryOrderAndDeregistration(t *testing.T) {
	ctx := context.Background()

	first, _ := newTestPeer(t, "m1")
	second, _ := newTestPeer(t, "m2")

	p, err := AnyPeerInstance()
	if err != nil || p != PeerHandle(first) {
		t.Fatalf("expected the earliest registered instance, got %v", p)
	}

	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	p, err = AnyPeerInstance()
	if err != nil || p != PeerHandle(second) {
		t.Fatalf("expected the surviving instance after deregistration, got %v", p)
	}

	if err := second.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := AnyPeerInstance(); !errors.Is(err, ErrNoPeerInstance) {
		t.Fatalf("registry should be empty again, got %v", err)
	}
}

func TestRegisterNilIsNoop(t *testing.T) {
	Register(nil)
	Deregister(nil)
	if _, err := AnyClientInstance(); !errors.Is(err, ErrNoClientInstance) {
		t.Fatalf("nil registration must not populate the registry")
	}
}

func TestConnectRegistersClient(t *testing.T) {
	ctx := context.Background()
	n, err := Connect(ClientConfig{
		Client: goredis.NewClient(&goredis.Options{Addr: "localhost:0"}),
	})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer n.Close(ctx)

	c, err := AnyClientInstance()
	if err != nil || c != ClientHandle(n) {
		t.Fatalf("AnyClientInstance = (%v, %v), want the connected node", c, err)
	}
}
