package core

import (
	"net"
	"time"
)

// Reply is an accepted echo reply.
type Reply struct {
	Len int           // length of the whole datagram
	Src net.IP        // address the reply came from
	Seq int           // sequence number of the matched request
	TTL int           // time to live of the reply
	RTT time.Duration // round trip time, from the timestamp embedded in the request
}
