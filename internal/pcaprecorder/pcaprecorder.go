// Package pcaprecorder adapts the simulator's observer tap into a PCAP
// trace, so a run can be opened in Wireshark. Grounded in the
// teacher's PCAPDumper (original netem's pcap.go), but simplified to a
// synchronous writer: this package's host, [dlsim.Simulator], already drives
// everything from a single goroutine, so there is no NIC to wrap and no
// background loop to join.
package pcaprecorder

import (
	"fmt"
	"hash/fnv"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/bassosimone/dlsim"
)

// Recorder writes every "packet_sent" observer-tap event to a PCAP file as
// a synthetic Ethernet/IPv4/UDP frame. The zero value is invalid; use [New].
type Recorder struct {
	file   *os.File
	writer *pcapgo.Writer
	logger dlsim.Logger
}

// New creates filename and writes its PCAP header. The caller must call
// [Recorder.Close] when done, and should register [Recorder.Observer] with
// [dlsim.Simulator.SetObserver].
func New(filename string, logger dlsim.Logger) (*Recorder, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	writer := pcapgo.NewWriter(file)
	const largeSnapLen = 262144
	if err := writer.WriteFileHeader(largeSnapLen, layers.LinkTypeEthernet); err != nil {
		file.Close()
		return nil, err
	}
	return &Recorder{file: file, writer: writer, logger: logger}, nil
}

// Observer implements [dlsim.Observer]: pass it to
// [dlsim.Simulator.SetObserver] to record every frame the simulator hands
// to a channel.
func (r *Recorder) Observer(ev dlsim.ObserverEvent) {
	if ev.Kind != "packet_sent" || ev.Frame == nil {
		return
	}
	if err := r.writeFrame(ev.Frame, ev.From, ev.To); err != nil {
		r.logger.Warnf("dlsim: pcaprecorder: %s", err.Error())
	}
}

// writeFrame synthesizes an Ethernet/IPv4/UDP packet carrying frame's
// fields as a textual UDP payload and appends it to the trace.
func (r *Recorder) writeFrame(frame *dlsim.Frame, from, to string) error {
	eth := &layers.Ethernet{
		SrcMAC:       macForEndpoint(from),
		DstMAC:       macForEndpoint(to),
		EthernetType: layers.EthernetTypeIPv4,
	}
	ip := &layers.IPv4{
		Version:  4,
		TTL:      64,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    ipForEndpoint(from),
		DstIP:    ipForEndpoint(to),
	}
	udp := &layers.UDP{SrcPort: 0xd1c0, DstPort: 0xd1c0}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return err
	}
	payload := []byte(describeFrame(frame))

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, gopacket.Payload(payload)); err != nil {
		return err
	}

	ci := gopacket.CaptureInfo{
		Timestamp:     time.Now(),
		CaptureLength: len(buf.Bytes()),
		Length:        len(buf.Bytes()),
	}
	return r.writer.WritePacket(ci, buf.Bytes())
}

// describeFrame renders frame's data-link fields as a short human-readable
// payload, good enough for inspecting a trace in Wireshark's "Follow UDP
// Stream" view.
func describeFrame(frame *dlsim.Frame) string {
	payload := ""
	if frame.Payload != nil {
		payload = frame.Payload.Payload
	}
	return fmt.Sprintf("kind=%s seq=%d ack=%d corrupted=%t payload=%q",
		frame.Kind, frame.SeqNum, frame.AckNum, frame.Corrupted, payload)
}

// ipForEndpoint derives a stable 10.0.0.0/8 address from an endpoint id, so
// the same endpoint always appears under the same address across a trace.
func ipForEndpoint(id string) net.IP {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	return net.IPv4(10, byte(sum>>16), byte(sum>>8), byte(sum))
}

// macForEndpoint derives a stable locally-administered MAC address from an
// endpoint id.
func macForEndpoint(id string) net.HardwareAddr {
	h := fnv.New32a()
	h.Write([]byte(id))
	sum := h.Sum32()
	return net.HardwareAddr{0x02, 0x00, byte(sum >> 24), byte(sum >> 16), byte(sum >> 8), byte(sum)}
}

// Close flushes and closes the underlying file.
func (r *Recorder) Close() error {
	return r.file.Close()
}
