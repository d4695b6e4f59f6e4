package node

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/ringstore-platform/ringstore/cluster/controller"
	"github.com/ringstore-platform/ringstore/cluster/coordinator"
	"github.com/ringstore-platform/ringstore/cluster/hints"
	"github.com/ringstore-platform/ringstore/cluster/locator"
	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/cluster/ring"
	"github.com/ringstore-platform/ringstore/cluster/transport"
	"github.com/ringstore-platform/ringstore/node/adminpb"
)

type options struct {
	Log       *zap.SugaredLogger
	Transport transport.Transport
	Gossiper  transport.Gossiper
	Detector  transport.FailureDetector
	Store     transport.LocalStore
	Streams   transport.StreamManager
	Stats     transport.StatsSink
}

// Option overrides one of the node's collaborators; unset collaborators
// get in-process defaults suitable for a single-node deployment.
type Option func(*options)

// WithLog sets the node logger.
func WithLog(log *zap.SugaredLogger) Option {
	return func(o *options) { o.Log = log }
}

// WithTransport sets the inter-node transport. The caller owns routing
// inbound messages into Node.HandleMessage.
func WithTransport(tp transport.Transport) Option {
	return func(o *options) { o.Transport = tp }
}

// WithGossiper sets the membership feed.
func WithGossiper(g transport.Gossiper) Option {
	return func(o *options) { o.Gossiper = g }
}

// WithDetector sets the failure detector.
func WithDetector(d transport.FailureDetector) Option {
	return func(o *options) { o.Detector = d }
}

// WithStore sets the local storage engine.
func WithStore(s transport.LocalStore) Option {
	return func(o *options) { o.Store = s }
}

// WithStreams sets the range streaming manager.
func WithStreams(s transport.StreamManager) Option {
	return func(o *options) { o.Streams = s }
}

// WithStats sets the stats sink.
func WithStats(s transport.StatsSink) Option {
	return func(o *options) { o.Stats = s }
}

// Node is one ringstore server: the coordination core wired to its
// collaborators, plus the admin surface.
type Node struct {
	cfg    *Config
	log    *zap.SugaredLogger
	local  netip.Addr
	record *SystemRecord

	part       partitioner.Partitioner
	meta       *ring.Metadata
	snitch     locator.Snitch
	strategies map[string]locator.Strategy

	tp       transport.Transport
	gossiper transport.Gossiper
	detector transport.FailureDetector
	store    transport.LocalStore
	streams  transport.StreamManager
	stats    transport.StatsSink

	reads      *coordinator.ReadCoordinator
	writes     *coordinator.WriteCoordinator
	manager    *coordinator.ConsistencyManager
	hintLog    *hints.Log
	replayer   *hints.Replayer
	controller *controller.RingController
}

// New wires a node from its configuration.
func New(cfg *Config, opts ...Option) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{Log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(o)
	}
	log := o.Log

	local, err := netip.ParseAddr(cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse listen address: %w", err)
	}

	record, err := LoadSystemRecord(cfg.DataDir, cfg.ClusterName)
	if err != nil {
		return nil, err
	}

	var part partitioner.Partitioner
	switch cfg.Partitioner {
	case "odkl_domain":
		part = partitioner.NewOdklDomain()
	default:
		part = partitioner.NewOrderPreserving()
	}

	meta := ring.NewMetadata()

	var snitch locator.Snitch
	if len(cfg.Racks) > 0 {
		racks := make(map[netip.Addr]string, len(cfg.Racks))
		for raw, rack := range cfg.Racks {
			addr, err := netip.ParseAddr(raw)
			if err != nil {
				return nil, fmt.Errorf("rack map entry %q is not an address: %w", raw, err)
			}
			racks[addr] = rack
		}
		snitch = locator.NewConfigSnitch(racks, nil)
	} else {
		snitch = locator.SimpleSnitch{}
	}

	strategies := make(map[string]locator.Strategy, len(cfg.Tables))
	for _, table := range cfg.Tables {
		strategyOpts := locator.Options{DefaultRF: table.ReplicationFactor}
		var (
			strat locator.Strategy
			err   error
		)
		switch table.Strategy {
		case "rack_aware_odkl_even":
			strat, err = locator.NewRackAwareOdklEven(meta, snitch, table.Racks, strategyOpts)
		default:
			strat, err = locator.NewSimpleStrategy(meta, strategyOpts)
		}
		if err != nil {
			return nil, fmt.Errorf("table %q: %w", table.Name, err)
		}
		strategies[table.Name] = strat
	}

	n := &Node{
		cfg:        cfg,
		log:        log,
		local:      local,
		record:     record,
		part:       part,
		meta:       meta,
		snitch:     snitch,
		strategies: strategies,
	}

	// Collaborator defaults: a fully in-process single-node runtime.
	n.stats = o.Stats
	if n.stats == nil {
		n.stats = transport.NewLogStatsSink(log)
	}
	n.store = o.Store
	if n.store == nil {
		n.store = transport.NewMemStore(n.stats, log)
	}
	n.streams = o.Streams
	if n.streams == nil {
		n.streams = transport.NopStreamManager{}
	}
	n.detector = o.Detector
	if n.detector == nil {
		n.detector = transport.NewSettableDetector()
	}
	n.gossiper = o.Gossiper
	if n.gossiper == nil {
		seeds := make([]netip.Addr, 0, len(cfg.Seeds))
		for _, raw := range cfg.Seeds {
			seeds = append(seeds, netip.MustParseAddr(raw))
		}
		n.gossiper = transport.NewStaticGossiper(local, seeds)
	}
	n.tp = o.Transport
	if n.tp == nil {
		mem := transport.NewMemTransport()
		mem.Register(local, n.HandleMessage)
		n.tp = mem
	}

	n.hintLog, err = hints.NewLog(cfg.Hints.Dir, cfg.Hints.MaxQueueSize, log)
	if err != nil {
		return nil, err
	}
	n.replayer = hints.NewReplayer(
		n.hintLog, n.tp, n.detector, n.gossiper, local,
		cfg.RPCTimeout, cfg.Hints.Throttle, log,
	)

	env := coordinator.Env{
		Local:       local,
		Partitioner: part,
		StrategyFor: n.StrategyFor,
		Metadata:    meta,
		Snitch:      snitch,
		Detector:    n.detector,
		Transport:   n.tp,
		RPCTimeout:  cfg.RPCTimeout,
	}
	n.manager = coordinator.NewConsistencyManager(cfg.ConsistencyWorkers, cfg.ConsistencyQueueDepth, log)
	n.reads = coordinator.NewReadCoordinator(env, n.manager, log)
	n.writes = coordinator.NewWriteCoordinator(env, n.hintLog, log)

	n.controller = controller.New(controller.Deps{
		Local:       local,
		Partitioner: part,
		Metadata:    meta,
		StrategyFor: n.StrategyFor,
		Tables:      cfg.TableNames(),
		Snitch:      snitch,
		Gossiper:    n.gossiper,
		Detector:    n.detector,
		Streams:     n.streams,
		Store:       n.store,
		Writes:      n.writes,
		RingDelay:   cfg.RingDelay,
		Log:         log,
	})
	n.controller.Start()

	return n, nil
}

// StrategyFor returns the replication strategy of the table; unknown
// tables fall back to the first configured table's strategy.
func (n *Node) StrategyFor(table string) locator.Strategy {
	if strat, ok := n.strategies[table]; ok {
		return strat
	}
	return n.strategies[n.cfg.Tables[0].Name]
}

// Reads returns the read coordinator.
func (n *Node) Reads() *coordinator.ReadCoordinator { return n.reads }

// Writes returns the write coordinator.
func (n *Node) Writes() *coordinator.WriteCoordinator { return n.writes }

// Controller returns the ring controller.
func (n *Node) Controller() *controller.RingController { return n.controller }

// Run joins the ring and serves until the context is canceled.
func (n *Node) Run(ctx context.Context) error {
	wg, ctx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		return n.joinRing(ctx)
	})
	wg.Go(func() error {
		return n.serveAdmin(ctx)
	})
	wg.Go(func() error {
		return n.replayer.Run(ctx)
	})
	wg.Go(func() error {
		return n.statsLoop(ctx)
	})

	err := wg.Wait()
	n.manager.Close()
	return err
}

// joinRing either resumes the persisted token or bootstraps a fresh one.
func (n *Node) joinRing(ctx context.Context) error {
	if n.record.Bootstrapped {
		n.log.Infow("resuming ring position",
			zap.String("token", n.record.BootstrapToken),
		)
		return n.controller.StartNormal(partitioner.Token(n.record.BootstrapToken))
	}

	token := partitioner.Token(n.cfg.InitialToken)
	if token == partitioner.MinToken {
		token = n.part.RandomToken()
	}

	if err := n.controller.Bootstrap(ctx, token); err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	n.record.BootstrapToken = string(token)
	n.record.Bootstrapped = true
	return n.record.Save(n.cfg.DataDir)
}

func (n *Node) serveAdmin(ctx context.Context) error {
	listener, err := net.Listen("tcp", n.cfg.AdminEndpoint)
	if err != nil {
		return fmt.Errorf("failed to listen on admin endpoint: %w", err)
	}

	server := grpc.NewServer()
	adminpb.RegisterAdminServer(server, NewAdminService(n))

	go func() {
		<-ctx.Done()
		server.GracefulStop()
	}()

	n.log.Infow("admin surface listening", zap.String("endpoint", n.cfg.AdminEndpoint))
	if err := server.Serve(listener); err != nil {
		return fmt.Errorf("admin server failed: %w", err)
	}
	return nil
}

func (n *Node) statsLoop(ctx context.Context) error {
	interval := n.cfg.StatsInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n.stats.Tick()
		}
	}
}
