// Package transport defines the message surface between cluster nodes and
// the collaborator interfaces the coordination core depends on: the wire
// transport, gossip, failure detection, the local storage engine, and
// streaming. The on-disk engines and the gossip protocol themselves live
// outside this repository; in-memory implementations suitable for tests and
// single-process clusters are provided here.
package transport

import (
	"context"
	"net/netip"

	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/ring"
)

// Message is one inter-node datagram.
type Message struct {
	Verb Verb
	From netip.Addr
	Body []byte
}

// ResponseHandler consumes the reply of a round-trip send. It may be called
// from a transport goroutine and must not block.
type ResponseHandler func(reply Message)

// Transport ships messages between nodes. Delivery to any single
// destination is FIFO per sender.
type Transport interface {
	// SendOneWay ships the message without expecting a reply.
	SendOneWay(msg Message, to netip.Addr) error
	// SendRR ships the message and hands the eventual reply to the
	// handler. A lost reply is surfaced only by the caller's own deadline.
	SendRR(msg Message, to netip.Addr, handler ResponseHandler) error
}

// StateChangeHandler observes gossip application-state changes.
type StateChangeHandler func(ep netip.Addr, key, value string)

// Gossiper is the cluster membership feed.
type Gossiper interface {
	// Live returns the endpoints currently considered alive.
	Live() []netip.Addr
	// Dead returns the endpoints currently considered dead.
	Dead() []netip.Addr
	// UpdateTimestamp refreshes the liveness timestamp of an endpoint
	// after direct communication with it.
	UpdateTimestamp(ep netip.Addr)
	// Generation returns the startup generation of an endpoint; later
	// generations win token collisions.
	Generation(ep netip.Addr) int64
	// AddLocalState publishes an application state of the local node.
	AddLocalState(key, value string)
	// Subscribe registers a handler for application-state changes.
	Subscribe(fn StateChangeHandler)
}

// FailureDetector answers point-in-time liveness queries.
type FailureDetector interface {
	IsAlive(ep netip.Addr) bool
}

// LocalStore is the node-local storage engine: commit log, memtables and
// SSTables behind one narrow surface.
type LocalStore interface {
	// Apply writes a mutation to the commit log and memtables.
	Apply(m model.Mutation) error
	// Read returns the local version of a key, which may be empty.
	Read(table, key string) (model.Row, error)
	// Flush persists the table's memtable.
	Flush(table string) error
	// Compact merges the table's persisted fragments.
	Compact(table string) error
	// Drain quiesces writes, flushes all memtables and rolls a fresh
	// commit-log segment. The store accepts no further mutations.
	Drain() error
}

// StreamManager moves range data between nodes during topology changes.
type StreamManager interface {
	// RequestRanges asks a source node to stream the given ranges here.
	RequestRanges(ctx context.Context, from netip.Addr, table string, ranges []ring.Range) error
	// TransferRanges pushes the given ranges to a new owner.
	TransferRanges(ctx context.Context, to netip.Addr, table string, ranges []ring.Range) error
}

// StatsSink observes storage activity at well-defined points. It replaces
// any cross-cutting interception: callers invoke it explicitly.
type StatsSink interface {
	// CompactionBegin is invoked before a table compaction starts.
	CompactionBegin(table string)
	// CompactionEnd is invoked after a table compaction finishes.
	CompactionEnd(table string)
	// Tick is invoked on the periodic stats interval.
	Tick()
}
