package core

import (
	"math"
	"sync"
	"time"
)

// Statistics aggregates the counters and round trip times of a session.
type Statistics struct {
	mu sync.RWMutex

	// transmitted is the number of echo requests written in full.
	transmitted int

	// received is the number of echo replies matched to an outstanding request.
	received int

	// sendFailures is the number of echo requests that could not be written.
	sendFailures int

	rttMin   time.Duration
	rttMax   time.Duration
	rttSum   float64
	rttSqSum float64

	startTime time.Time
	endTime   time.Time
}

// NewStatistics creates an empty Statistics.
func NewStatistics() *Statistics {
	return &Statistics{}
}

// SessionStarted records the start time.
func (s *Statistics) SessionStarted(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.startTime = now
}

// SessionEnded records the end time.
func (s *Statistics) SessionEnded(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.endTime = now
}

// EchoRequested counts a request written in full.
func (s *Statistics) EchoRequested() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transmitted++
}

// EchoFailed counts a request that could not be written.
func (s *Statistics) EchoFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendFailures++
}

// EchoReplied counts a matched reply and its round trip time.
func (s *Statistics) EchoReplied(rtt time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.received == 0 || rtt < s.rttMin {
		s.rttMin = rtt
	}
	if s.received == 0 || rtt > s.rttMax {
		s.rttMax = rtt
	}

	s.received++
	s.rttSum += float64(rtt)
	s.rttSqSum += float64(rtt) * float64(rtt)
}

// Transmitted is the number of requests written in full.
func (s *Statistics) Transmitted() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.transmitted
}

// Received is the number of matched replies.
func (s *Statistics) Received() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.received
}

// SendFailures is the number of requests that could not be written.
func (s *Statistics) SendFailures() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sendFailures
}

// PacketLoss is the fraction of transmitted requests without a reply, 0 when nothing was sent.
func (s *Statistics) PacketLoss() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.transmitted == 0 {
		return 0
	}

	return 1 - float64(s.received)/float64(s.transmitted)
}

// RTTMin is the smallest round trip time.
func (s *Statistics) RTTMin() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rttMin
}

// RTTMax is the largest round trip time.
func (s *Statistics) RTTMax() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.rttMax
}

// RTTAvg is the mean round trip time.
func (s *Statistics) RTTAvg() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.received == 0 {
		return 0
	}

	return time.Duration(s.rttSum / float64(s.received))
}

// RTTMDev is the standard deviation of the round trip times.
func (s *Statistics) RTTMDev() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.received == 0 {
		return 0
	}

	n := float64(s.received)
	avg := s.rttSum / n
	variance := s.rttSqSum/n - avg*avg
	if variance < 0 {
		variance = 0
	}

	return time.Duration(math.Sqrt(variance))
}

// Elapsed is the time between the start and the end of the session.
func (s *Statistics) Elapsed() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.startTime.IsZero() || s.endTime.IsZero() {
		return 0
	}

	return s.endTime.Sub(s.startTime)
}
