package dlsim

//
// Per-endpoint statistics
//

// Stats is a snapshot of one [Endpoint]'s counters, grounded in the
// assertions original_source/quick_test.py and test_all_protocols.py make
// against the reference implementation.
type Stats struct {
	// FramesSent counts every frame this endpoint handed to its channel,
	// including retransmissions.
	FramesSent int

	// FramesCorrupted counts every frame that arrived at this endpoint
	// flagged as corrupted by the sender's channel (i.e. CKSUM_ERR events
	// it received).
	FramesCorrupted int

	// PacketsDelivered counts every packet this endpoint's network layer
	// accepted via DELIVER_PACKET.
	PacketsDelivered int

	// Retransmits counts frames this endpoint resent because of a timeout
	// or a NAK. Maintained by the protocol implementations themselves,
	// since only they know which OnTimeout/OnFrame calls are
	// retransmissions as opposed to first sends.
	Retransmits int
}
