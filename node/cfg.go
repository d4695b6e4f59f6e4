// Package node assembles a ringstore node: configuration, the persisted
// system record, collaborator wiring and the admin surface.
package node

import (
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"gopkg.in/yaml.v3"

	"github.com/ringstore-platform/ringstore/common/go/logging"
)

// Config is the node configuration.
type Config struct {
	// Logging configuration.
	Logging logging.Config `yaml:"logging"`
	// ClusterName guards against joining the wrong cluster; a mismatch
	// with the persisted system record is fatal.
	ClusterName string `yaml:"cluster_name"`
	// ListenAddr is this node's ring address.
	ListenAddr string `yaml:"listen_addr"`
	// AdminEndpoint is where the gRPC admin surface listens.
	AdminEndpoint string `yaml:"admin_endpoint"`
	// Partitioner selects the token space: "order_preserving" or
	// "odkl_domain".
	Partitioner string `yaml:"partitioner"`
	// InitialToken is the token to bootstrap at; empty picks a random
	// token.
	InitialToken string `yaml:"initial_token"`
	// DataDir holds the system record and other node-local state.
	DataDir string `yaml:"data_dir"`
	// RPCTimeout is the absolute deadline of coordinated requests.
	RPCTimeout time.Duration `yaml:"rpc_timeout"`
	// RingDelay is how long topology announcements settle before data
	// moves.
	RingDelay time.Duration `yaml:"ring_delay"`
	// StatsInterval is the period of the stats tick.
	StatsInterval time.Duration `yaml:"stats_interval"`
	// ConsistencyWorkers bounds the async consistency-check pool.
	ConsistencyWorkers int `yaml:"consistency_workers"`
	// ConsistencyQueueDepth bounds the backlog of pending checks.
	ConsistencyQueueDepth int `yaml:"consistency_queue_depth"`
	// Hints configures hinted handoff.
	Hints HintsConfig `yaml:"hints"`
	// Seeds are the addresses of known cluster members.
	Seeds []string `yaml:"seeds"`
	// Racks places endpoints into racks for the rack-aware strategy.
	Racks map[string]string `yaml:"racks"`
	// Tables declares the tables this node serves.
	Tables []TableConfig `yaml:"tables"`
}

// HintsConfig configures the hinted-handoff subsystem.
type HintsConfig struct {
	// Dir is the hint spool directory.
	Dir string `yaml:"dir"`
	// Throttle sleeps between replayed hints.
	Throttle time.Duration `yaml:"throttle"`
	// MaxQueueSize bounds the on-disk queue per dead endpoint.
	MaxQueueSize datasize.ByteSize `yaml:"max_queue_size"`
}

// TableConfig declares one table.
type TableConfig struct {
	Name string `yaml:"name"`
	// ReplicationFactor is the replica count for this table.
	ReplicationFactor int `yaml:"replication_factor"`
	// Strategy is "simple" or "rack_aware_odkl_even".
	Strategy string `yaml:"strategy"`
	// Racks names the racks the rack-aware strategy spreads over; its
	// count must equal the replication factor.
	Racks []string `yaml:"racks"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() *Config {
	return &Config{
		Logging:               *logging.DefaultConfig(),
		ClusterName:           "Test Cluster",
		ListenAddr:            "127.0.0.1",
		AdminEndpoint:         "127.0.0.1:7199",
		Partitioner:           "order_preserving",
		DataDir:               "./data",
		RPCTimeout:            2 * time.Second,
		RingDelay:             30 * time.Second,
		StatsInterval:         time.Minute,
		ConsistencyWorkers:    4,
		ConsistencyQueueDepth: 256,
		Hints: HintsConfig{
			Dir:          "./data/hints",
			MaxQueueSize: 128 * datasize.MB,
		},
		Tables: []TableConfig{
			{Name: "data", ReplicationFactor: 1, Strategy: "simple"},
		},
	}
}

// LoadConfig loads the configuration from the given path.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(buf, cfg); err != nil {
		return nil, fmt.Errorf("failed to deserialize config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot produce a working node.
func (c *Config) Validate() error {
	if c.ClusterName == "" {
		return fmt.Errorf("cluster_name must not be empty")
	}
	if _, err := netip.ParseAddr(c.ListenAddr); err != nil {
		return fmt.Errorf("listen_addr %q is not an address: %w", c.ListenAddr, err)
	}
	switch c.Partitioner {
	case "order_preserving", "odkl_domain":
	default:
		return fmt.Errorf("unknown partitioner %q", c.Partitioner)
	}
	if len(c.Tables) == 0 {
		return fmt.Errorf("at least one table must be configured")
	}
	for _, table := range c.Tables {
		if table.Name == "" {
			return fmt.Errorf("table name must not be empty")
		}
		if table.ReplicationFactor < 1 {
			return fmt.Errorf("table %q has replication factor %d", table.Name, table.ReplicationFactor)
		}
		switch table.Strategy {
		case "simple", "rack_aware_odkl_even":
		default:
			return fmt.Errorf("table %q uses unknown strategy %q", table.Name, table.Strategy)
		}
	}
	for _, seed := range c.Seeds {
		if _, err := netip.ParseAddr(seed); err != nil {
			return fmt.Errorf("seed %q is not an address: %w", seed, err)
		}
	}
	return nil
}

// TableNames returns the configured table names.
func (c *Config) TableNames() []string {
	out := make([]string, 0, len(c.Tables))
	for _, table := range c.Tables {
		out = append(out, table.Name)
	}
	return out
}
