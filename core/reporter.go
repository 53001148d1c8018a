package core

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// ColorScheme holds the colors of the report.
type ColorScheme struct {
	Header  *color.Color
	Reply   *color.Color
	Error   *color.Color
	Summary *color.Color
}

// DefaultColorScheme returns the colors used on terminals.
func DefaultColorScheme() *ColorScheme {
	scheme := &ColorScheme{
		Header:  color.New(color.Bold),
		Reply:   color.New(color.FgGreen),
		Error:   color.New(color.FgRed),
		Summary: color.New(color.FgCyan),
	}

	// the caller already decided, do not let the stdout detection of color override it
	for _, c := range []*color.Color{scheme.Header, scheme.Reply, scheme.Error, scheme.Summary} {
		c.EnableColor()
	}

	return scheme
}

// TextReporter prints a session in the style of the ping utility.
type TextReporter struct {
	w      io.Writer
	colors *ColorScheme
}

// NewTextReporter creates a reporter writing to w, colored if colored is set.
func NewTextReporter(w io.Writer, colored bool) *TextReporter {
	var colors *ColorScheme
	if colored {
		colors = DefaultColorScheme()
	}

	return &TextReporter{w: w, colors: colors}
}

// Attach registers the reporter on every event of s.
func (r *TextReporter) Attach(s *Session) {
	s.AddOnStart(r.OnStart)
	s.AddOnRecv(r.OnRecv)
	s.AddOnSendError(r.OnSendError)
	s.AddOnResolveError(r.OnResolveError)
	s.AddOnFinish(r.OnFinish)
}

func (r *TextReporter) OnStart(s *Session) {
	r.printf(r.headerColor(), "PING %s (%s): %d data bytes\n", s.Host(), s.Address(), s.Settings().Size)
}

func (r *TextReporter) OnRecv(s *Session, reply *Reply) {
	r.printf(r.replyColor(), "%d bytes from %s: icmp_seq=%d ttl=%d time=%.3f ms\n",
		reply.Len, reply.Src, reply.Seq, reply.TTL, millis(reply.RTT))
}

func (r *TextReporter) OnSendError(s *Session, seq int, err error) {
	r.printf(r.errorColor(), "ERROR: icmp_seq=%d: %s\n", seq, err)
}

func (r *TextReporter) OnResolveError(s *Session, err error) {
	r.printf(r.errorColor(), "Unable to resolve: %s\n", s.Host())
}

func (r *TextReporter) OnFinish(s *Session) {
	stats := s.Stats

	fmt.Fprintln(r.w)
	r.printf(r.headerColor(), "--- %s ping statistics ---\n", s.Host())
	r.printf(r.summaryColor(), "%d packets transmitted, %d packets received, %.0f%% packet loss, time %s\n",
		stats.Transmitted(), stats.Received(), stats.PacketLoss()*100, stats.Elapsed().Truncate(time.Millisecond))

	if stats.Received() > 0 {
		r.printf(r.summaryColor(), "rtt min/avg/max/mdev = %.3f/%.3f/%.3f/%.3f ms\n",
			millis(stats.RTTMin()), millis(stats.RTTAvg()), millis(stats.RTTMax()), millis(stats.RTTMDev()))
	}
}

func (r *TextReporter) printf(c *color.Color, format string, a ...interface{}) {
	if c == nil {
		fmt.Fprintf(r.w, format, a...)
		return
	}
	c.Fprintf(r.w, format, a...)
}

func (r *TextReporter) headerColor() *color.Color {
	if r.colors == nil {
		return nil
	}
	return r.colors.Header
}

func (r *TextReporter) replyColor() *color.Color {
	if r.colors == nil {
		return nil
	}
	return r.colors.Reply
}

func (r *TextReporter) errorColor() *color.Color {
	if r.colors == nil {
		return nil
	}
	return r.colors.Error
}

func (r *TextReporter) summaryColor() *color.Color {
	if r.colors == nil {
		return nil
	}
	return r.colors.Summary
}

// millis converts d to fractional milliseconds.
func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
