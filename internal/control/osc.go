// Package control receives commands over OSC/UDP. The last element of each
// message address names the command; the message arguments are its wire
// arguments.
package control

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path"

	"github.com/hypebeast/go-osc/osc"

	"github.com/fkcurrie/xclock-led-golang/internal/logger"
)

// Dispatcher receives decoded wire commands.
type Dispatcher interface {
	Dispatch(name string, args []any) error
}

// Handler adapts OSC packets to a Dispatcher. It implements osc.Dispatcher.
type Handler struct {
	target  Dispatcher
	limiter *Limiter
	log     *logger.Logger
}

// NewHandler creates a handler. limiter may be nil.
func NewHandler(target Dispatcher, limiter *Limiter, log *logger.Logger) *Handler {
	return &Handler{target: target, limiter: limiter, log: log}
}

// Dispatch routes every message in packet, flattening bundles.
func (h *Handler) Dispatch(packet osc.Packet) {
	switch p := packet.(type) {
	case *osc.Message:
		h.message(p)
	case *osc.Bundle:
		for _, m := range p.Messages {
			h.message(m)
		}
		for _, b := range p.Bundles {
			h.Dispatch(b)
		}
	}
}

func (h *Handler) message(m *osc.Message) {
	if m == nil {
		return
	}
	name := path.Base(m.Address)
	if name == "" || name == "/" || name == "." {
		h.log.Warn("Ignoring OSC message with empty address")
		return
	}
	if !h.limiter.Allow() {
		h.log.Warn("Dropping command %s: rate limit exceeded", name)
		return
	}
	// Errors are logged by the dispatcher.
	_ = h.target.Dispatch(name, m.Arguments)
}

// maxPacketSize is the largest UDP payload.
const maxPacketSize = 65535

// Server listens for OSC packets on a UDP address.
type Server struct {
	addr    string
	handler *Handler
	log     *logger.Logger
}

// NewServer creates a server listening on addr once started.
func NewServer(addr string, handler *Handler, log *logger.Logger) *Server {
	return &Server{addr: addr, handler: handler, log: log}
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	conn, err := net.ListenPacket("udp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, conn)
}

// Serve reads packets from conn until ctx is cancelled, then closes conn.
// Packets are dispatched in arrival order on the reading goroutine. Malformed
// datagrams are logged and skipped.
func (s *Server) Serve(ctx context.Context, conn net.PacketConn) error {
	s.log.Info("Listening for OSC on %s", conn.LocalAddr())

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		conn.Close()
	}()

	buf := make([]byte, maxPacketSize)
	for {
		n, from, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("osc server stopped: %w", err)
		}
		if n == 0 {
			continue
		}
		packet, err := osc.ParsePacket(string(buf[:n]))
		if err != nil {
			s.log.Warn("Dropping malformed OSC packet from %s: %v", from, err)
			continue
		}
		s.handler.Dispatch(packet)
	}
}
