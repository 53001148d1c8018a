//go:build linux || darwin || freebsd || netbsd || openbsd

package core

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Recv reads straight from the non-blocking descriptor so an empty queue returns at once.
// Raw IPv4 sockets deliver the IP header with every datagram.
func (t *rawTransport) Recv(b []byte) (int, error) {
	raw, err := t.conn.SyscallConn()
	if err != nil {
		return 0, err
	}

	var n int
	var rerr error
	err = raw.Read(func(fd uintptr) bool {
		n, rerr = unix.Read(int(fd), b)
		return true
	})
	if err != nil {
		return 0, err
	}

	if errors.Is(rerr, unix.EAGAIN) || errors.Is(rerr, unix.EWOULDBLOCK) {
		return 0, ErrNoDatagram
	}
	if rerr != nil {
		return 0, fmt.Errorf("error while reading from connection: %w", rerr)
	}

	return n, nil
}
