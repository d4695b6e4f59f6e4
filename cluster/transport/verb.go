package transport

// Verb identifies the kind of an inter-node message. Wire ordinals are
// append-only: new verbs go at the end.
type Verb uint8

const (
	VerbMutation Verb = iota
	VerbBinary
	VerbReadRepair
	VerbRead
	VerbReadResponse
	VerbStreamInitiate
	VerbStreamInitiateDone
	VerbStreamFinished
	VerbStreamRequest
	VerbRangeSlice
	VerbBootstrapToken
	VerbTreeRequest
	VerbTreeResponse
	VerbJoin
	VerbGossipDigestSyn
	VerbGossipDigestAck
	VerbGossipDigestAck2
)

var verbNames = [...]string{
	"MUTATION",
	"BINARY",
	"READ_REPAIR",
	"READ",
	"READ_RESPONSE",
	"STREAM_INITIATE",
	"STREAM_INITIATE_DONE",
	"STREAM_FINISHED",
	"STREAM_REQUEST",
	"RANGE_SLICE",
	"BOOTSTRAP_TOKEN",
	"TREE_REQUEST",
	"TREE_RESPONSE",
	"JOIN",
	"GOSSIP_DIGEST_SYN",
	"GOSSIP_DIGEST_ACK",
	"GOSSIP_DIGEST_ACK2",
}

func (v Verb) String() string {
	if int(v) < len(verbNames) {
		return verbNames[v]
	}
	return "UNKNOWN"
}
