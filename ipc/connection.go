package ipc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection is a single orchestrator session talking to the sidecar,
// identified after the hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex

	Participant string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// Close closes the underlying connection, unblocking ReadLoop.
func (c *Connection) Close() error { return c.conn.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
//
// Unknown message types and handler failures are answered with an error
// envelope so the orchestrator is never left waiting for a reply.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
				slog.Info("connection closed", "participant", c.Participant)
			} else {
				slog.Info("connection read ended", "participant", c.Participant, "error", err)
			}
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.Send(TypeError, ErrorMessage{Type: env.Type, Message: fmt.Sprintf("unknown message type %q", env.Type)}); err != nil {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "participant", c.Participant, "error", err)
			if err := c.Send(TypeError, ErrorMessage{Type: env.Type, Message: err.Error()}); err != nil {
				return
			}
			continue
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "participant", c.Participant)
		}
	}
}
