package core

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	// MinSize is the smallest packet: the echo header plus the embedded timestamp.
	MinSize = echoHeaderLen

	// MaxSize is the largest ICMP message that fits in an IPv4 datagram without options.
	MaxSize = 65535 - ipv4HeaderLen

	// MaxCount is the last sequence number representable in the signed 16-bit field.
	MaxCount = 32767
)

// Settings contains all configurable properties of a ping session.
type Settings struct {
	// Count is the number of echo requests sent, with sequence numbers 1 to Count.
	Count int

	// Timeout is the overall time budget of the session, measured from the start of the loop.
	Timeout time.Duration

	// Interval is the gap between a successful send and the next one.
	Interval time.Duration

	// Size is the total length of each echo request, header included.
	Size int

	// TTL is the IP time to live set on outgoing requests.
	TTL int

	// Quiet disables the human readable report of Ping.
	Quiet bool

	// VerifyChecksum drops replies whose ICMP checksum does not verify.
	VerifyChecksum bool

	// Color enables colored output in the report.
	Color bool

	// Output is where the report of Ping is written. Nil means stdout.
	Output io.Writer

	// LoggingLevel is the logrus level of the session logger.
	LoggingLevel uint32
}

// DefaultSettings returns the default settings for a ping session, change as you wish.
func DefaultSettings() *Settings {
	return &Settings{
		Count:          3,
		Timeout:        500 * time.Millisecond,
		Interval:       250 * time.Millisecond,
		Size:           32,
		TTL:            64,
		Quiet:          false,
		VerifyChecksum: false,
		Color:          false,
		Output:         os.Stdout,
		LoggingLevel:   uint32(log.WarnLevel),
	}
}

// validate checks every field, returning an error wrapping ErrInvalidArgument on the first bad one.
func (s *Settings) validate() error {
	if s.Size < MinSize {
		return fmt.Errorf("%w: size %d is smaller than %d", ErrInvalidArgument, s.Size, MinSize)
	}
	if s.Size > MaxSize {
		return fmt.Errorf("%w: size %d is larger than %d", ErrInvalidArgument, s.Size, MaxSize)
	}
	if s.Count < 1 || s.Count > MaxCount {
		return fmt.Errorf("%w: count %d must be between 1 and %d", ErrInvalidArgument, s.Count, MaxCount)
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("%w: timeout %s must be positive", ErrInvalidArgument, s.Timeout)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval %s must be positive", ErrInvalidArgument, s.Interval)
	}
	if s.TTL < 1 || s.TTL > 255 {
		return fmt.Errorf("%w: ttl %d must be between 1 and 255", ErrInvalidArgument, s.TTL)
	}

	return nil
}

// output returns the writer of the report, defaulting to stdout.
func (s *Settings) output() io.Writer {
	if s.Output == nil {
		return os.Stdout
	}
	return s.Output
}
