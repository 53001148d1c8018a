package core

import (
	"context"
	"encoding/binary"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

var (
	testAddr = net.IPv4(192, 0, 2, 1).To4()
	testDst  = net.IPv4(192, 0, 2, 2).To4()
)

// fakeResolver resolves every host to ip, or fails with err
type fakeResolver struct {
	ip    net.IP
	err   error
	calls int
}

func (r *fakeResolver) Resolve(ctx context.Context, host string) (net.IP, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.ip, nil
}

// fakeTransport queues the datagrams returned by respond for every request it accepts
type fakeTransport struct {
	// respond returns the datagrams the network delivers for a sent request
	respond func(req []byte) [][]byte

	// sendErr, when set, decides the outcome of sending sequence seq
	sendErr func(seq int) error

	// short, when set, makes the write of sequence seq lose one byte
	short func(seq int) bool

	queue    [][]byte
	sent     [][]byte
	sentAt   []time.Time
	attempts int
	closed   bool
}

func (f *fakeTransport) Send(b []byte) (int, error) {
	f.attempts++
	seq := int(int16(binary.BigEndian.Uint16(b[6:8])))

	if f.sendErr != nil {
		if err := f.sendErr(seq); err != nil {
			return 0, err
		}
	}
	if f.short != nil && f.short(seq) {
		return len(b) - 1, nil
	}

	req := append([]byte{}, b...)
	f.sent = append(f.sent, req)
	f.sentAt = append(f.sentAt, time.Now())

	if f.respond != nil {
		f.queue = append(f.queue, f.respond(req)...)
	}

	return len(b), nil
}

func (f *fakeTransport) Recv(b []byte) (int, error) {
	if len(f.queue) == 0 {
		return 0, ErrNoDatagram
	}

	datagram := f.queue[0]
	f.queue = f.queue[1:]
	return copy(b, datagram), nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// fakeDialer hands out transport and remembers the dialed address
type fakeDialer struct {
	transport Transport
	err       error
	ip        net.IP
	calls     int
}

func (d *fakeDialer) Dial(ip net.IP, settings *Settings) (Transport, error) {
	d.calls++
	d.ip = ip
	if d.err != nil {
		return nil, d.err
	}
	return d.transport, nil
}

// echoAll replies to every request once
func echoAll(req []byte) [][]byte {
	return [][]byte{buildDatagram(echoReplyOf(req), 64, nil)}
}

// dropAll never replies
func dropAll(req []byte) [][]byte {
	return nil
}

// echoTwice replies to every request twice
func echoTwice(req []byte) [][]byte {
	return [][]byte{
		buildDatagram(echoReplyOf(req), 64, nil),
		buildDatagram(echoReplyOf(req), 64, nil),
	}
}

// echoWrongID replies with an identifier that is not ours
func echoWrongID(req []byte) [][]byte {
	msg := append([]byte{}, req...)
	id := binary.BigEndian.Uint16(msg[4:6])
	binary.BigEndian.PutUint16(msg[4:6], id+1)
	return [][]byte{buildDatagram(echoReplyOf(msg), 64, nil)}
}

// loopRequest delivers our own request back, as seen on loopback
func loopRequest(req []byte) [][]byte {
	return [][]byte{buildDatagram(req, 64, nil)}
}

// echoCorrupted replies with a payload altered after the checksum was computed
func echoCorrupted(req []byte) [][]byte {
	msg := echoReplyOf(req)
	msg[len(msg)-1] ^= 0xff
	return [][]byte{buildDatagram(msg, 64, nil)}
}

// echoReplyOf turns a request into the reply a host would send back
func echoReplyOf(req []byte) []byte {
	msg := append([]byte{}, req...)
	msg[0] = byte(ipv4.ICMPTypeEchoReply)
	binary.BigEndian.PutUint16(msg[2:4], 0)
	binary.BigEndian.PutUint16(msg[2:4], Checksum(msg))
	return msg
}

// buildDatagram wraps an ICMP message into an IPv4 datagram sent by testAddr
func buildDatagram(msg []byte, ttl int, options []byte) []byte {
	h := &ipv4.Header{
		Version:  ipv4.Version,
		Len:      ipv4.HeaderLen + len(options),
		TotalLen: ipv4.HeaderLen + len(options) + len(msg),
		TTL:      ttl,
		Protocol: icmpProtocol,
		Src:      testAddr,
		Dst:      testDst,
		Options:  options,
	}

	hb, err := h.Marshal()
	if err != nil {
		panic(err)
	}

	return append(hb, msg...)
}

// testSettings are fast settings for loops against fake transports
func testSettings(count int) *Settings {
	settings := DefaultSettings()
	settings.Count = count
	settings.Interval = 5 * time.Millisecond
	settings.Timeout = 2 * time.Second
	settings.Quiet = true
	return settings
}

// newTestSession builds a session resolving to testAddr over transport
func newTestSession(settings *Settings, transport Transport) (*Session, error) {
	dialer := &fakeDialer{transport: transport}
	return NewSession("example.test", settings,
		WithResolver(&fakeResolver{ip: testAddr}),
		WithDialer(dialer.Dial))
}
