package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Handler processes one received envelope. Replies go through Send.
type Handler func(env Envelope) error

// Connection is one simulator session. Handlers run on the goroutine that
// calls Serve, one envelope at a time.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	log      *slog.Logger

	wmu sync.Mutex
}

func NewConnection(conn net.Conn) *Connection {
	return &Connection{
		conn:     conn,
		handlers: make(map[string]Handler),
		log:      slog.Default().With("remote", conn.RemoteAddr().String()),
	}
}

func (c *Connection) Handle(msgType string, h Handler) {
	c.handlers[msgType] = h
}

// Send frames data as msgType. Safe for concurrent use.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// Serve reads envelopes until the peer hangs up, a frame is malformed or
// ctx is cancelled. It owns the connection and closes it on return. Handler
// errors are logged and do not end the session.
func (c *Connection) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { c.conn.Close() })
	defer stop()
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			switch {
			case ctx.Err() != nil:
				return nil
			case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
				c.log.Info("connection closed")
				return nil
			}
			return err
		}

		h, ok := c.handlers[env.Type]
		if !ok {
			c.log.Warn("no handler for message type", "type", env.Type)
			continue
		}
		if err := h(env); err != nil {
			c.log.Error("handler error", "type", env.Type, "error", err)
		}
	}
}
