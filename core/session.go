package core

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// tick is the pause between two iterations of the polling loop.
const tick = 100 * time.Microsecond

// Session is one run of echo requests to a single host
type Session struct {
	// Stats contain the overall statistics of the session
	Stats *Statistics

	settings *Settings

	// id is the identifier carried by every request of this session, used to tell our replies apart.
	id uint16

	// host is the name or address given by the caller
	host string

	// addr is the resolved IPv4 address of host, nil until resolved
	addr net.IP

	// packet is the request buffer, restamped for each sequence number
	packet *echoPacket

	resolver Resolver
	dial     Dialer

	// logger is an instance of logrus used to log activities related to this session
	logger *log.Logger

	isStarted  atomic.Bool
	isFinished atomic.Bool

	// stHandlers are called once the transport is acquired, before the first request.
	stHandlers []func(*Session)

	// recvHandlers are called for every accepted reply.
	recvHandlers []func(*Session, *Reply)

	// sendErrHandlers are called with the sequence number of every request that could not be sent.
	sendErrHandlers []func(*Session, int, error)

	// resolveErrHandlers are called when the host can not be resolved.
	resolveErrHandlers []func(*Session, error)

	// endHandlers are called after the transport is released.
	endHandlers []func(*Session)
}

// Option customizes a Session.
type Option func(*Session)

// WithResolver replaces the system resolver.
func WithResolver(r Resolver) Option {
	return func(s *Session) {
		s.resolver = r
	}
}

// WithDialer replaces the raw socket dialer.
func WithDialer(d Dialer) Option {
	return func(s *Session) {
		s.dial = d
	}
}

// WithLogger replaces the logger built from the settings.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// NewSession creates a new Session. Nil settings mean DefaultSettings.
// Settings are validated here, before anything is resolved or opened.
func NewSession(host string, settings *Settings, opts ...Option) (*Session, error) {
	if settings == nil {
		settings = DefaultSettings()
	}

	if err := settings.validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	r := rand.New(rand.NewSource(time.Now().UTC().UnixNano()))
	id := uint16(r.Intn(math.MaxUint16 + 1))

	session := &Session{
		Stats:    NewStatistics(),
		settings: settings,
		id:       id,
		host:     host,
		packet:   newEchoPacket(settings.Size, id),
		resolver: &SystemResolver{},
		dial:     DialRaw,
		logger:   NewLogger(settings.LoggingLevel),
	}

	for _, opt := range opts {
		opt(session)
	}

	session.logger.Debugf("Created session for %s with id %d, count %d, size %d, timeout %s, interval %s",
		host, id, settings.Count, settings.Size, settings.Timeout, settings.Interval)

	return session, nil
}

// Run sends the echo requests and waits for their replies until every request is answered,
// the timeout expires or ctx is done. It returns the number of requests transmitted and
// replies received.
//
// A host that can not be resolved is reported to the resolve error handlers and yields (0, 0, nil).
func (s *Session) Run(ctx context.Context) (transmitted, received int, err error) {
	if !s.isStarted.CompareAndSwap(false, true) {
		return 0, 0, ErrAlreadyStarted
	}
	defer s.isFinished.Store(true)

	s.logger.Infof("Resolving address %s", s.host)
	ip, err := s.resolver.Resolve(ctx, s.host)
	if err != nil {
		s.logger.Warnf("Unable to resolve %s: %s", s.host, err)
		for _, f := range s.resolveErrHandlers {
			f(s, err)
		}
		return 0, 0, nil
	}
	s.addr = ip
	s.logger.Infof("Address %s resolved to IP address %s", s.host, ip)

	transport, err := s.dial(ip, s.settings)
	if err != nil {
		return 0, 0, fmt.Errorf("could not acquire transport to %s: %w", ip, err)
	}
	s.logger.Debug("Transport successfully acquired")

	s.Stats.SessionStarted(time.Now())

	s.logger.Info("Calling start callbacks")
	for _, f := range s.stHandlers {
		f(s)
	}

	s.poll(ctx, transport)

	if err := transport.Close(); err != nil {
		s.logger.Warnf("Could not close transport: %s", err)
	}
	s.Stats.SessionEnded(time.Now())

	s.logger.Info("Calling ending callbacks")
	for _, f := range s.endHandlers {
		f(s)
	}

	s.logger.Infof("Session ended with %d transmitted and %d received", s.Stats.Transmitted(), s.Stats.Received())
	return s.Stats.Transmitted(), s.Stats.Received(), nil
}

// poll is the send and receive loop. It returns when every sequence is retired,
// the timeout has elapsed since the loop started or ctx is done.
func (s *Session) poll(ctx context.Context, transport Transport) {
	outstanding := newSequenceSet(s.settings.Count)
	buf := make([]byte, maxDatagramLen)
	nextSeq := 1

	start := time.Now()
	lastSend := start

	for time.Since(start) < s.settings.Timeout {
		if err := ctx.Err(); err != nil {
			s.logger.Infof("Stopping session: %s", err)
			return
		}

		if nextSeq <= s.settings.Count && time.Since(lastSend) >= s.settings.Interval {
			if err := s.sendEchoRequest(transport, nextSeq); err != nil {
				s.handleSendError(nextSeq, err, outstanding)
			} else {
				// the interval is measured from the last successful send
				lastSend = time.Now()
			}
			nextSeq++
		}

		s.drain(transport, buf, outstanding)

		if outstanding.Empty() {
			s.logger.Info("No request is waiting for a reply, finishing early")
			return
		}

		time.Sleep(tick)
	}

	s.logger.Infof("Timeout of %s expired with %d requests unanswered", s.settings.Timeout, outstanding.Len())
}

// sendEchoRequest stamps the request with seq and writes it, failing unless the whole packet was accepted.
func (s *Session) sendEchoRequest(transport Transport, seq int) error {
	b := s.packet.stamp(seq, time.Now())

	s.logger.Tracef("Writing ICMP message %x to address %s", b, s.addr)
	n, err := transport.Send(b)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSendFailed, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: %w: %d of %d bytes written", ErrSendFailed, ErrShortWrite, n, len(b))
	}

	s.Stats.EchoRequested()
	s.logger.Debugf("Sent echo request icmp_seq=%d", seq)
	return nil
}

// handleSendError retires seq, which will never be replied to.
func (s *Session) handleSendError(seq int, err error, outstanding *sequenceSet) {
	s.logger.Errorf("Could not send echo request icmp_seq=%d: %s", seq, err)

	outstanding.Remove(seq)
	s.Stats.EchoFailed()

	for _, f := range s.sendErrHandlers {
		f(s, seq, err)
	}
}

// drain processes every datagram queued on the transport.
func (s *Session) drain(transport Transport, buf []byte, outstanding *sequenceSet) {
	for {
		n, err := transport.Recv(buf)
		if errors.Is(err, ErrNoDatagram) {
			return
		}
		if err != nil {
			s.logger.Errorf("Could not receive from transport: %s", err)
			return
		}

		reply := s.matchReply(buf[:n], outstanding, time.Now())
		if reply == nil {
			continue
		}

		outstanding.Remove(reply.Seq)
		s.Stats.EchoReplied(reply.RTT)

		for _, f := range s.recvHandlers {
			f(s, reply)
		}

		if outstanding.Empty() {
			return
		}
	}
}

// matchReply returns the observation for datagram if it answers one of our outstanding requests, nil otherwise.
func (s *Session) matchReply(datagram []byte, outstanding *sequenceSet, now time.Time) *Reply {
	s.logger.Tracef("Raw packet received: %x", datagram)

	r, err := parseReply(datagram)
	if err != nil {
		s.logger.Debugf("Ignoring datagram: %s", err)
		return nil
	}

	if !r.isEchoReply() {
		s.logger.Debugf("Ignoring ICMP message of type %d and code %d", r.icmpType, r.code)
		return nil
	}

	if r.id != s.id {
		s.logger.Debugf("Echo reply id does not match session id. Expected: %d. Actual: %d.", s.id, r.id)
		return nil
	}

	if !outstanding.Has(r.seq) {
		s.logger.Debugf("Echo reply icmp_seq=%d is not outstanding", r.seq)
		return nil
	}

	if s.settings.VerifyChecksum && !r.validSum {
		s.logger.Debugf("Echo reply icmp_seq=%d has a bad checksum 0x%04x", r.seq, r.checksum)
		return nil
	}

	return &Reply{
		Len: r.length,
		Src: r.src,
		Seq: r.seq,
		TTL: r.ttl,
		RTT: r.rtt(now),
	}
}

// ID is the identifier carried by the requests of this session
func (s *Session) ID() uint16 {
	return s.id
}

// Host is the host given when creating the session
func (s *Session) Host() string {
	return s.host
}

// Address is the resolved address of the host, nil before resolution
func (s *Session) Address() net.IP {
	return s.addr
}

// Settings returns the settings of this session
func (s *Session) Settings() *Settings {
	return s.settings
}

// IsStarted returns whether this session is started
func (s *Session) IsStarted() bool {
	return s.isStarted.Load()
}

// IsFinished returns whether this session is finished
func (s *Session) IsFinished() bool {
	return s.isFinished.Load()
}

// AddOnStart adds a handler function that will be called when the session starts sending
func (s *Session) AddOnStart(handler func(*Session)) {
	s.stHandlers = append(s.stHandlers, handler)
}

// AddOnRecv adds a handler function that will be called for every accepted echo reply
func (s *Session) AddOnRecv(handler func(*Session, *Reply)) {
	s.recvHandlers = append(s.recvHandlers, handler)
}

// AddOnSendError adds a handler function that will be called when an echo request could not be sent
func (s *Session) AddOnSendError(handler func(*Session, int, error)) {
	s.sendErrHandlers = append(s.sendErrHandlers, handler)
}

// AddOnResolveError adds a handler function that will be called when the host can not be resolved
func (s *Session) AddOnResolveError(handler func(*Session, error)) {
	s.resolveErrHandlers = append(s.resolveErrHandlers, handler)
}

// AddOnFinish adds a handler function that will be called when the session ends
func (s *Session) AddOnFinish(handler func(*Session)) {
	s.endHandlers = append(s.endHandlers, handler)
}
