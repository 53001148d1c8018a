package core

import (
	"errors"
	"fmt"
	"net"
	"os"

	"golang.org/x/net/ipv4"
)

const (
	icmpPrivilegedNetwork = "ip4:icmp"

	// maxDatagramLen is the receive buffer size, enough for any IPv4 datagram.
	maxDatagramLen = 65535
)

// Transport is a raw ICMP endpoint connected to a single IPv4 address.
type Transport interface {
	// Send writes one ICMP message and returns the number of bytes accepted.
	Send(b []byte) (int, error)

	// Recv copies the next queued IPv4 datagram, IP header included, into b without waiting.
	// It returns ErrNoDatagram when nothing is queued.
	Recv(b []byte) (int, error)

	// Close releases the endpoint.
	Close() error
}

// Dialer acquires a Transport to ip configured from settings.
type Dialer func(ip net.IP, settings *Settings) (Transport, error)

// rawTransport is a Transport over a raw ICMP socket.
type rawTransport struct {
	conn *net.IPConn
}

// DialRaw opens a raw ICMP socket connected to ip with the TTL of settings.
// It needs the privileges to open raw sockets.
func DialRaw(ip net.IP, settings *Settings) (Transport, error) {
	conn, err := net.DialIP(icmpPrivilegedNetwork, nil, &net.IPAddr{IP: ip})
	if err != nil {
		if errors.Is(err, os.ErrPermission) {
			return nil, fmt.Errorf("%w: %s", ErrPermissionDenied, err.Error())
		}
		return nil, fmt.Errorf("could not open raw ICMP socket to %s: %w", ip, err)
	}

	if err := ipv4.NewConn(conn).SetTTL(settings.TTL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("could not set TTL in connection: %w", err)
	}

	return &rawTransport{conn: conn}, nil
}

func (t *rawTransport) Send(b []byte) (int, error) {
	return t.conn.Write(b)
}

func (t *rawTransport) Close() error {
	return t.conn.Close()
}
