package core

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"golang.org/x/net/ipv4"
)

const (
	echoCode      = 0
	icmpProtocol  = 1
	ipv4HeaderLen = ipv4.HeaderLen

	// echoHeaderLen covers type, code, checksum, identifier, sequence and the send timestamp.
	echoHeaderLen = 16

	// filler is the constant byte the payload is made of.
	filler = 'Q'
)

// Offsets of the echo header fields.
const (
	offType      = 0
	offCode      = 1
	offChecksum  = 2
	offID        = 4
	offSeq       = 6
	offTimestamp = 8
)

// echoPacket is the reusable outgoing echo request buffer of a session.
type echoPacket struct {
	buf []byte
}

// newEchoPacket builds a request of size bytes carrying the session id, with sequence 1.
func newEchoPacket(size int, id uint16) *echoPacket {
	buf := make([]byte, size)
	for i := echoHeaderLen; i < size; i++ {
		buf[i] = filler
	}

	buf[offType] = byte(ipv4.ICMPTypeEcho)
	buf[offCode] = echoCode
	binary.BigEndian.PutUint16(buf[offID:], id)

	p := &echoPacket{buf: buf}
	p.setSeq(1)
	return p
}

// stamp prepares the buffer for sending seq at time now and returns it.
func (p *echoPacket) stamp(seq int, now time.Time) []byte {
	binary.BigEndian.PutUint16(p.buf[offChecksum:], 0)
	p.setSeq(seq)
	binary.BigEndian.PutUint64(p.buf[offTimestamp:], uint64(now.UnixMicro()))
	binary.BigEndian.PutUint16(p.buf[offChecksum:], Checksum(p.buf))
	return p.buf
}

func (p *echoPacket) setSeq(seq int) {
	binary.BigEndian.PutUint16(p.buf[offSeq:], uint16(int16(seq)))
}

// bytes returns the current content of the buffer.
func (p *echoPacket) bytes() []byte {
	return p.buf
}

// echoReply is the decoded header of an incoming datagram.
type echoReply struct {
	src       net.IP
	ttl       int
	ipHdrLen  int
	length    int
	icmpType  int
	code      int
	checksum  uint16
	id        uint16
	seq       int
	timestamp uint64
	validSum  bool
}

// parseReply decodes an IPv4 datagram carrying an ICMP echo header.
// The IP header length comes from its IHL field.
func parseReply(datagram []byte) (*echoReply, error) {
	h, err := ipv4.ParseHeader(datagram)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrShortPacket, err.Error())
	}

	if h.Len < ipv4HeaderLen || len(datagram) < h.Len+echoHeaderLen {
		return nil, fmt.Errorf("%w: %d bytes with a %d bytes ip header, need %d after it",
			ErrShortPacket, len(datagram), h.Len, echoHeaderLen)
	}

	msg := datagram[h.Len:]

	return &echoReply{
		src:       h.Src,
		ttl:       h.TTL,
		ipHdrLen:  h.Len,
		length:    len(datagram),
		icmpType:  int(msg[offType]),
		code:      int(msg[offCode]),
		checksum:  binary.BigEndian.Uint16(msg[offChecksum:]),
		id:        binary.BigEndian.Uint16(msg[offID:]),
		seq:       int(int16(binary.BigEndian.Uint16(msg[offSeq:]))),
		timestamp: binary.BigEndian.Uint64(msg[offTimestamp:]),
		validSum:  ValidChecksum(msg),
	}, nil
}

// isEchoReply reports whether the message is an echo reply.
func (r *echoReply) isEchoReply() bool {
	return r.icmpType == int(ipv4.ICMPTypeEchoReply)
}

// rtt returns the time between the embedded send timestamp and now.
func (r *echoReply) rtt(now time.Time) time.Duration {
	return time.Duration(now.UnixMicro()-int64(r.timestamp)) * time.Microsecond
}
