package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Client sends notifications to the session notification server.
// The connection is opened on first use.
type Client struct {
	mu     sync.Mutex
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewClient creates a new notification client.
func NewClient(logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{logger: logger}
}

// connect returns the private session bus connection, dialing it if needed.
func (c *Client) connect() (*dbus.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.conn.Connected() {
		return c.conn, nil
	}

	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	c.conn = conn
	c.logger.Debug("connected to session bus")
	return conn, nil
}

// Notify sends n and returns the server-assigned notification ID.
func (c *Client) Notify(n Notification) (uint32, error) {
	conn, err := c.connect()
	if err != nil {
		return 0, err
	}

	obj := conn.Object(DBusBusName, DBusPath)
	call := obj.Call(DBusInterface+".Notify", 0,
		n.AppName,
		n.ReplacesID,
		n.AppIcon,
		n.Summary,
		n.Body,
		[]string{},
		n.Hints(),
		n.ExpireTimeout,
	)
	if call.Err != nil {
		return 0, fmt.Errorf("notify call failed: %w", call.Err)
	}

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("failed to read notification id: %w", err)
	}

	c.logger.Debug("notification sent", "id", id, "urgency", n.Urgency.String(), "sound_name", n.SoundName)
	return id, nil
}

// CloseNotification asks the server to close notification id.
func (c *Client) CloseNotification(id uint32) error {
	conn, err := c.connect()
	if err != nil {
		return err
	}

	call := conn.Object(DBusBusName, DBusPath).Call(DBusInterface+".CloseNotification", 0, id)
	if call.Err != nil {
		return fmt.Errorf("close notification call failed: %w", call.Err)
	}
	return nil
}

// Capabilities returns the capabilities advertised by the server.
func (c *Client) Capabilities() ([]string, error) {
	conn, err := c.connect()
	if err != nil {
		return nil, err
	}

	var caps []string
	if err := conn.Object(DBusBusName, DBusPath).Call(DBusInterface+".GetCapabilities", 0).Store(&caps); err != nil {
		return nil, fmt.Errorf("get capabilities call failed: %w", err)
	}
	return caps, nil
}

// Close closes the bus connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
