package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/haukened/zoned/internal/dns/common/log"
)

// UDPTransport serves DNS over UDP. Each datagram is handled in its own
// goroutine; the handler must be safe for concurrent use.
type UDPTransport struct {
	addr   string
	conn   *net.UDPConn
	logger log.Logger

	mu       sync.RWMutex
	running  bool
	stopCh   chan struct{}
	loopDone chan struct{}
	inflight sync.WaitGroup
}

// NewUDPTransport creates a UDP transport for addr.
func NewUDPTransport(addr string, logger log.Logger) *UDPTransport {
	return &UDPTransport{
		addr:   addr,
		logger: logger,
	}
}

// Start binds the socket and begins serving. Cancelling ctx has the same
// effect as calling Stop.
func (t *UDPTransport) Start(ctx context.Context, handler PacketHandler) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("UDP transport already running")
	}

	udpAddr, err := net.ResolveUDPAddr("udp", t.addr)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address %s: %w", t.addr, err)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return fmt.Errorf("failed to bind UDP socket on %s: %w", t.addr, err)
	}

	t.conn = conn
	t.running = true
	t.stopCh = make(chan struct{})
	t.loopDone = make(chan struct{})

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   conn.LocalAddr().String(),
	}, "DNS transport started")

	go t.listenLoop(ctx, conn, handler)
	go func(stop <-chan struct{}) {
		select {
		case <-ctx.Done():
			_ = t.Stop()
		case <-stop:
		}
	}(t.stopCh)
	return nil
}

// Stop closes the socket and waits for the receive loop and any in-flight
// handlers to finish. Stopping a stopped transport is a no-op.
func (t *UDPTransport) Stop() error {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return nil
	}
	t.running = false
	close(t.stopCh)
	closeErr := t.conn.Close()
	loopDone := t.loopDone
	t.mu.Unlock()

	if closeErr != nil {
		t.logger.Warn(map[string]any{"error": closeErr}, "Error closing UDP connection")
	}
	<-loopDone
	t.inflight.Wait()

	t.logger.Info(map[string]any{
		"transport": "udp",
		"address":   t.addr,
	}, "DNS transport stopped")
	return closeErr
}

// Address returns the bound address while running, else the configured one.
func (t *UDPTransport) Address() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.running && t.conn != nil {
		return t.conn.LocalAddr().String()
	}
	return t.addr
}

func (t *UDPTransport) isRunning() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.running
}

func (t *UDPTransport) listenLoop(ctx context.Context, conn *net.UDPConn, handler PacketHandler) {
	defer close(t.loopDone)
	buffer := make([]byte, MaxUDPMessageSize)

	for {
		n, clientAddr, err := conn.ReadFromUDP(buffer)
		if err != nil {
			if !t.isRunning() || errors.Is(err, net.ErrClosed) {
				t.logger.Debug(nil, "UDP transport receive loop exiting")
				return
			}
			t.logger.Warn(map[string]any{"error": err}, "Failed to read UDP packet")
			continue
		}

		packet := make([]byte, n)
		copy(packet, buffer[:n])
		t.inflight.Add(1)
		go func() {
			defer t.inflight.Done()
			t.handlePacket(ctx, conn, packet, clientAddr, handler)
		}()
	}
}

func (t *UDPTransport) handlePacket(ctx context.Context, conn *net.UDPConn, data []byte, clientAddr *net.UDPAddr, handler PacketHandler) {
	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(data),
		"raw":    fmt.Sprintf("%x", data),
	}, "Received raw DNS query data")

	reply, err := handler.HandlePacket(ctx, data, clientAddr)
	if err != nil {
		t.logger.Debug(map[string]any{
			"client": clientAddr.String(),
			"size":   len(data),
			"error":  err,
		}, "Dropped DNS query")
		return
	}
	if len(reply) == 0 {
		return
	}

	if _, err := conn.WriteToUDP(reply, clientAddr); err != nil {
		t.logger.Error(map[string]any{
			"client": clientAddr.String(),
			"error":  err,
		}, "Failed to send DNS response")
		return
	}
	t.logger.Debug(map[string]any{
		"client": clientAddr.String(),
		"size":   len(reply),
	}, "Sent DNS response")
}
