package node

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ringstore-platform/ringstore/cluster/coordinator"
	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/transport"
	"github.com/ringstore-platform/ringstore/node/adminpb"
)

func testConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.Hints.Dir = filepath.Join(dir, "hints")
	cfg.RingDelay = 10 * time.Millisecond
	cfg.RPCTimeout = 200 * time.Millisecond
	cfg.Tables = []TableConfig{
		{Name: "users", ReplicationFactor: 1, Strategy: "simple"},
		{Name: "events", ReplicationFactor: 1, Strategy: "simple"},
	}
	return cfg
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cluster_name: "prod"
listen_addr: "10.1.2.3"
partitioner: odkl_domain
ring_delay: 5s
tables:
  - name: users
    replication_factor: 3
    strategy: rack_aware_odkl_even
    racks: [r1, r2, r3]
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.ClusterName)
	require.Equal(t, "10.1.2.3", cfg.ListenAddr)
	require.Equal(t, "odkl_domain", cfg.Partitioner)
	require.Equal(t, 5*time.Second, cfg.RingDelay)
	require.Len(t, cfg.Tables, 1)
	require.Equal(t, 3, cfg.Tables[0].ReplicationFactor)

	// Defaults survive for fields the file omits.
	require.Equal(t, 2*time.Second, cfg.RPCTimeout)
}

func TestConfigValidate(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"empty cluster name": func(c *Config) { c.ClusterName = "" },
		"bad listen addr": func(c *Config) { c.ListenAddr = "not-an-addr" },
		"bad partitioner": func(c *Config) { c.Partitioner = "random" },
		"no tables": func(c *Config) { c.Tables = nil },
		"zero rf": func(c *Config) { c.Tables[0].ReplicationFactor = 0 },
		"bad strategy": func(c *Config) { c.Tables[0].Strategy = "rackless" },
		"unparseable seed": func(c *Config) { c.Seeds = []string{"nope"} },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, DefaultConfig().Validate())
}

func TestSystemRecordLifecycle(t *testing.T) {
	dir := t.TempDir()

	record, err := LoadSystemRecord(dir, "prod")
	require.NoError(t, err)
	require.Equal(t, int64(1), record.Generation)
	require.False(t, record.Bootstrapped)

	record.BootstrapToken = "40"
	record.Bootstrapped = true
	require.NoError(t, record.Save(dir))

	// Every restart bumps the generation.
	record, err = LoadSystemRecord(dir, "prod")
	require.NoError(t, err)
	require.Equal(t, int64(2), record.Generation)
	require.True(t, record.Bootstrapped)
	require.Equal(t, "40", record.BootstrapToken)

	// A cluster-name mismatch is fatal.
	_, err = LoadSystemRecord(dir, "other")
	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
}

func TestNodeHandlesReplicaProtocol(t *testing.T) {
	n, err := New(testConfig(t))
	require.NoError(t, err)

	m := model.NewMutation("users", "k1")
	m.Add("c1", []byte("v1"), 10)
	body, err := m.Marshal()
	require.NoError(t, err)

	ack := n.HandleMessage(transport.Message{Verb: transport.VerbMutation, Body: body})
	require.NotNil(t, ack)
	require.Equal(t, transport.VerbMutation, ack.Verb)

	read := coordinator.ReadRequest{Table: "users", Key: "k1"}
	reply := n.HandleMessage(transport.Message{Verb: transport.VerbRead, Body: read.Marshal()})
	require.NotNil(t, reply)
	require.Equal(t, transport.VerbReadResponse, reply.Verb)

	resp, err := coordinator.UnmarshalReadResponse(reply.Body)
	require.NoError(t, err)
	require.False(t, resp.IsDigest)
	require.Equal(t, []byte("v1"), resp.Row.Columns["c1"].Value)

	digest := coordinator.ReadRequest{Table: "users", Key: "k1", DigestOnly: true}
	reply = n.HandleMessage(transport.Message{Verb: transport.VerbRead, Body: digest.Marshal()})
	require.NotNil(t, reply)
	resp, err = coordinator.UnmarshalReadResponse(reply.Body)
	require.NoError(t, err)
	require.True(t, resp.IsDigest)
	require.NotEmpty(t, resp.Digest)
}

func TestAdminService(t *testing.T) {
	n, err := New(testConfig(t))
	require.NoError(t, err)
	require.NoError(t, n.Controller().StartNormal("40"))

	admin := NewAdminService(n)
	ctx := context.Background()

	t.Run("info", func(t *testing.T) {
		info, err := admin.Info(ctx, &adminpb.Empty{})
		require.NoError(t, err)
		require.Equal(t, "NORMAL", info.GetMode())
		require.Equal(t, "40", info.GetToken())
		require.ElementsMatch(t, []string{"users", "events"}, info.GetTables())
	})

	t.Run("ring", func(t *testing.T) {
		resp, err := admin.Ring(ctx, &adminpb.Empty{})
		require.NoError(t, err)
		require.Len(t, resp.GetEntries(), 1)
		require.Equal(t, "40", resp.GetEntries()[0].GetToken())
		require.Equal(t, "Normal", resp.GetEntries()[0].GetState())
	})

	t.Run("flush with globs", func(t *testing.T) {
		resp, err := admin.Flush(ctx, &adminpb.TableSelector{Patterns: []string{"use*"}})
		require.NoError(t, err)
		require.Equal(t, []string{"users"}, resp.GetTables())

		resp, err = admin.Flush(ctx, &adminpb.TableSelector{})
		require.NoError(t, err)
		require.Equal(t, []string{"events", "users"}, resp.GetTables())

		_, err = admin.Flush(ctx, &adminpb.TableSelector{Patterns: []string{"[bad"}})
		require.Error(t, err)
	})

	t.Run("compact", func(t *testing.T) {
		resp, err := admin.Compact(ctx, &adminpb.TableSelector{Patterns: []string{"events"}})
		require.NoError(t, err)
		require.Equal(t, []string{"events"}, resp.GetTables())
	})

	t.Run("remove token validation", func(t *testing.T) {
		_, err := admin.RemoveToken(ctx, &adminpb.TokenRequest{})
		require.Error(t, err)
	})

	t.Run("drain", func(t *testing.T) {
		_, err := admin.Drain(ctx, &adminpb.Empty{})
		require.NoError(t, err)

		info, err := admin.Info(ctx, &adminpb.Empty{})
		require.NoError(t, err)
		require.Equal(t, "DRAINED", info.GetMode())
	})
}
