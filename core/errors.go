package core

import "errors"

// Probe-related errors.
var (
	// ErrInvalidArgument indicates the settings of a session are not usable.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrResolution indicates the target host could not be resolved to an IPv4 address.
	ErrResolution = errors.New("could not resolve host")

	// ErrSendFailed indicates an echo request could not be written to the transport.
	ErrSendFailed = errors.New("could not send echo request")

	// ErrShortWrite indicates the transport accepted fewer bytes than the packet size.
	ErrShortWrite = errors.New("short write")

	// ErrNoDatagram indicates no datagram is queued on the transport right now.
	ErrNoDatagram = errors.New("no datagram available")

	// ErrPermissionDenied indicates the process may not open raw ICMP sockets.
	ErrPermissionDenied = errors.New("permission denied: raw socket requires elevated privileges")

	// ErrShortPacket indicates a received datagram is too short to hold an echo header.
	ErrShortPacket = errors.New("packet too short")

	// ErrAlreadyStarted indicates Run was called on a session that has already run.
	ErrAlreadyStarted = errors.New("session has already started")
)
