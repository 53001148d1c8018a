//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package core

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// pollWait bounds a receive on platforms without a non-blocking read path.
const pollWait = time.Millisecond

func (t *rawTransport) Recv(b []byte) (int, error) {
	if err := t.conn.SetReadDeadline(time.Now().Add(pollWait)); err != nil {
		return 0, fmt.Errorf("error while setting read deadline: %w", err)
	}

	n, err := t.conn.Read(b)
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return 0, ErrNoDatagram
	}
	if err != nil {
		return 0, fmt.Errorf("error while reading from connection: %w", err)
	}

	return n, nil
}
