package dlsim

//
// Network layer
//

// outboundItem is one entry of a [NetworkLayer]'s outbound FIFO queue.
type outboundItem struct {
	payload *Packet
	dst     string
}

// NetworkLayer is the per-endpoint network layer: a FIFO outbound queue of
// payloads awaiting transmission by the protocol, and an inbound list of
// packets already delivered by the protocol. The zero value is ready to
// use.
type NetworkLayer struct {
	outbound []outboundItem
	inbound  []*Packet
}

// NewNetworkLayer creates an empty [NetworkLayer].
func NewNetworkLayer() *NetworkLayer {
	return &NetworkLayer{}
}

// Enqueue appends payload, destined to dst, to the outbound queue.
func (n *NetworkLayer) Enqueue(payload *Packet, dst string) {
	n.outbound = append(n.outbound, outboundItem{payload: payload, dst: dst})
}

// HasReady reports whether the outbound queue holds at least one payload.
func (n *NetworkLayer) HasReady() bool {
	return len(n.outbound) > 0
}

// TakeNext pops and returns the oldest queued payload and its destination,
// or (nil, "", false) if the queue is empty.
func (n *NetworkLayer) TakeNext() (*Packet, string, bool) {
	if len(n.outbound) == 0 {
		return nil, "", false
	}
	item := n.outbound[0]
	n.outbound = n.outbound[1:]
	return item.payload, item.dst, true
}

// Deliver appends packet to the inbound delivered list. The caller (the
// [Endpoint]) is responsible for also notifying the observer tap.
func (n *NetworkLayer) Deliver(packet *Packet) {
	n.inbound = append(n.inbound, packet)
}

// Delivered returns the list of packets delivered so far, in delivery
// order. The returned slice must not be mutated by the caller.
func (n *NetworkLayer) Delivered() []*Packet {
	return n.inbound
}
