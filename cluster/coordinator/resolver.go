package coordinator

import (
	"net/netip"

	"github.com/ringstore-platform/ringstore/cluster/model"
)

// Resolve folds replica versions of one key into the superset row. The fold
// is pure: idempotent, order insensitive, and absorbing its own result.
func Resolve(versions []model.Row) model.Row {
	if len(versions) == 0 {
		return model.Row{}
	}
	out := versions[0]
	for _, v := range versions[1:] {
		out = out.Merge(v)
	}
	return out
}

// RepairsFor returns, per responding endpoint, the mutation bringing its
// version up to the resolved row. Endpoints that already hold the resolved
// state are absent from the result.
func RepairsFor(table string, resolved model.Row, versions map[netip.Addr]model.Row) map[netip.Addr]model.Mutation {
	out := map[netip.Addr]model.Mutation{}
	for ep, version := range versions {
		diff := resolved.Diff(version)
		if diff.IsEmpty() {
			continue
		}
		out[ep] = model.RepairMutation(table, diff)
	}
	return out
}
