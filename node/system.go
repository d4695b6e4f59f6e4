package node

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const systemRecordFile = "system.yaml"

// FatalError marks failures a node must not survive: cluster-name
// mismatches, invalid boot state, unreadable node-local storage. The
// process exits deterministically with code 3.
type FatalError struct {
	Reason string
}

func (e *FatalError) Error() string { return e.Reason }

// SystemRecord is the node-local metadata persisted across restarts.
type SystemRecord struct {
	ClusterName    string `yaml:"cluster_name"`
	BootstrapToken string `yaml:"bootstrap_token"`
	Bootstrapped   bool   `yaml:"bootstrapped"`
	Generation     int64  `yaml:"generation"`
}

// LoadSystemRecord reads the record from the data directory, creating a
// fresh one on first boot. The gossip generation increments on every load
// so that restarts win token collisions against stale state.
func LoadSystemRecord(dataDir, clusterName string) (*SystemRecord, error) {
	path := filepath.Join(dataDir, systemRecordFile)

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		record := &SystemRecord{ClusterName: clusterName, Generation: 1}
		if err := record.Save(dataDir); err != nil {
			return nil, err
		}
		return record, nil
	}
	if err != nil {
		return nil, &FatalError{Reason: fmt.Sprintf("cannot read system record: %v", err)}
	}

	record := &SystemRecord{}
	if err := yaml.Unmarshal(buf, record); err != nil {
		return nil, &FatalError{Reason: fmt.Sprintf("corrupt system record: %v", err)}
	}
	if record.ClusterName != clusterName {
		return nil, &FatalError{Reason: fmt.Sprintf(
			"saved cluster name %q does not match configured cluster name %q",
			record.ClusterName, clusterName,
		)}
	}

	record.Generation++
	if err := record.Save(dataDir); err != nil {
		return nil, err
	}
	return record, nil
}

// Save writes the record atomically.
func (r *SystemRecord) Save(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return &FatalError{Reason: fmt.Sprintf("cannot create data directory: %v", err)}
	}

	buf, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to serialize system record: %w", err)
	}

	path := filepath.Join(dataDir, systemRecordFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return &FatalError{Reason: fmt.Sprintf("cannot write system record: %v", err)}
	}
	if err := os.Rename(tmp, path); err != nil {
		return &FatalError{Reason: fmt.Sprintf("cannot publish system record: %v", err)}
	}
	return nil
}
