package node

import (
	"go.uber.org/zap"

	"github.com/ringstore-platform/ringstore/cluster/coordinator"
	"github.com/ringstore-platform/ringstore/cluster/model"
	"github.com/ringstore-platform/ringstore/cluster/transport"
)

// HandleMessage serves the node's side of the replica protocol. It is the
// inbound handler registered with the transport.
func (n *Node) HandleMessage(msg transport.Message) *transport.Message {
	switch msg.Verb {
	case transport.VerbRead:
		return n.handleRead(msg)
	case transport.VerbMutation, transport.VerbBinary:
		return n.handleMutation(msg)
	case transport.VerbReadRepair:
		n.handleReadRepair(msg)
		return nil
	default:
		n.log.Debugw("ignoring unhandled verb",
			zap.Stringer("verb", msg.Verb),
			zap.Stringer("from", msg.From),
		)
		return nil
	}
}

func (n *Node) handleRead(msg transport.Message) *transport.Message {
	req, err := coordinator.UnmarshalReadRequest(msg.Body)
	if err != nil {
		n.log.Warnw("dropping malformed read request", zap.Error(err))
		return nil
	}

	row, err := n.store.Read(req.Table, req.Key)
	if err != nil {
		n.log.Errorw("local read failed",
			zap.String("table", req.Table),
			zap.String("key", req.Key),
			zap.Error(err),
		)
		return nil
	}

	var body []byte
	if req.DigestOnly {
		body = coordinator.MarshalDigestResponse(row.Digest())
	} else {
		body, err = coordinator.MarshalDataResponse(req.Table, row)
		if err != nil {
			n.log.Errorw("failed to serialize read response", zap.Error(err))
			return nil
		}
	}
	return &transport.Message{Verb: transport.VerbReadResponse, From: n.local, Body: body}
}

func (n *Node) handleMutation(msg transport.Message) *transport.Message {
	m, err := model.Unmarshal(msg.Body)
	if err != nil {
		n.log.Warnw("dropping malformed mutation", zap.Error(err))
		return nil
	}
	if err := n.store.Apply(m); err != nil {
		n.log.Errorw("failed to apply mutation",
			zap.String("table", m.Table),
			zap.String("key", m.Key),
			zap.Error(err),
		)
		return nil
	}
	// The acknowledgement carries no body; the coordinator counts
	// responders.
	return &transport.Message{Verb: msg.Verb, From: n.local}
}

func (n *Node) handleReadRepair(msg transport.Message) {
	m, err := model.Unmarshal(msg.Body)
	if err != nil {
		n.log.Warnw("dropping malformed repair mutation", zap.Error(err))
		return
	}
	if err := n.store.Apply(m); err != nil {
		n.log.Errorw("failed to apply repair mutation",
			zap.String("table", m.Table),
			zap.String("key", m.Key),
			zap.Error(err),
		)
	}
}
