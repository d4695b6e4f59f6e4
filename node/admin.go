package node

import (
	"context"
	"slices"

	"github.com/gobwas/glob"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ringstore-platform/ringstore/cluster/partitioner"
	"github.com/ringstore-platform/ringstore/node/adminpb"
)

// AdminService exposes the node's management operations over gRPC.
type AdminService struct {
	adminpb.UnimplementedAdminServer

	node *Node
}

// NewAdminService constructs the admin surface of a node.
func NewAdminService(n *Node) *AdminService {
	return &AdminService{node: n}
}

func (s *AdminService) Ring(ctx context.Context, _ *adminpb.Empty) (*adminpb.RingResponse, error) {
	entries := s.node.controller.RingInfo()

	out := &adminpb.RingResponse{Entries: make([]*adminpb.RingEntry, 0, len(entries))}
	for _, entry := range entries {
		out.Entries = append(out.Entries, &adminpb.RingEntry{
			Token:    string(entry.Token),
			Endpoint: entry.Endpoint.String(),
			Rack:     entry.Rack,
			State:    entry.State,
			Alive:    entry.Alive,
		})
	}
	return out, nil
}

func (s *AdminService) Info(ctx context.Context, _ *adminpb.Empty) (*adminpb.InfoResponse, error) {
	return &adminpb.InfoResponse{
		Endpoint:    s.node.local.String(),
		Token:       string(s.node.controller.LocalToken()),
		Mode:        string(s.node.controller.Mode()),
		ClusterName: s.node.cfg.ClusterName,
		Generation:  s.node.record.Generation,
		Tables:      s.node.cfg.TableNames(),
	}, nil
}

func (s *AdminService) Drain(ctx context.Context, _ *adminpb.Empty) (*adminpb.Empty, error) {
	if err := s.node.controller.Drain(); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &adminpb.Empty{}, nil
}

func (s *AdminService) Decommission(ctx context.Context, _ *adminpb.Empty) (*adminpb.Empty, error) {
	if err := s.node.controller.Decommission(ctx); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &adminpb.Empty{}, nil
}

func (s *AdminService) Move(ctx context.Context, req *adminpb.TokenRequest) (*adminpb.Empty, error) {
	var token *partitioner.Token
	if req.GetToken() != "" {
		t := partitioner.Token(req.GetToken())
		token = &t
	}
	if err := s.node.controller.Move(ctx, token); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &adminpb.Empty{}, nil
}

func (s *AdminService) RemoveToken(ctx context.Context, req *adminpb.TokenRequest) (*adminpb.Empty, error) {
	if req.GetToken() == "" {
		return nil, status.Error(codes.InvalidArgument, "token is required")
	}
	if err := s.node.controller.RemoveToken(partitioner.Token(req.GetToken())); err != nil {
		return nil, status.Error(codes.FailedPrecondition, err.Error())
	}
	return &adminpb.Empty{}, nil
}

func (s *AdminService) Flush(ctx context.Context, req *adminpb.TableSelector) (*adminpb.TableList, error) {
	tables, err := s.selectTables(req.GetPatterns())
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		if err := s.node.store.Flush(table); err != nil {
			return nil, status.Errorf(codes.Internal, "failed to flush %q: %v", table, err)
		}
	}
	return &adminpb.TableList{Tables: tables}, nil
}

func (s *AdminService) Compact(ctx context.Context, req *adminpb.TableSelector) (*adminpb.TableList, error) {
	tables, err := s.selectTables(req.GetPatterns())
	if err != nil {
		return nil, err
	}
	for _, table := range tables {
		if err := s.node.store.Compact(table); err != nil {
			return nil, status.Errorf(codes.Internal, "failed to compact %q: %v", table, err)
		}
	}
	return &adminpb.TableList{Tables: tables}, nil
}

// selectTables matches configured table names against glob patterns; no
// patterns selects every table.
func (s *AdminService) selectTables(patterns []string) ([]string, error) {
	names := s.node.cfg.TableNames()
	slices.Sort(names)
	if len(patterns) == 0 {
		return names, nil
	}

	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "bad table pattern %q: %v", pattern, err)
		}
		globs = append(globs, g)
	}

	var out []string
	for _, name := range names {
		for _, g := range globs {
			if g.Match(name) {
				out = append(out, name)
				break
			}
		}
	}
	return out, nil
}
