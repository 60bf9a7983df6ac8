package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// Client implements a TextSource backed by a WebSocket text firehose.
// The peer is expected to push JSON frames of the form
// {"type":"message","data":[{id, text, author, topic, ts}]}.
type Client struct {
	url            string
	topics         []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	conn      *websocket.Conn
	connected bool
}

// New creates a WebSocket TextSource.
func New(url string, topics []string, reconnectDelay, pingInterval time.Duration) drepo.TextSource {
	return &Client{
		url:            url,
		topics:         topics,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
	}
}

// Open dials the stream and subscribes to the configured topics.
func (c *Client) Open(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("stream connect: %w", err)
	}
	c.conn = conn
	c.connected = true
	log.Printf("stream: connected %s", c.url)

	for _, t := range c.topics {
		msg := map[string]string{"type": "subscribe", "topic": t}
		if err := c.conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", t, err)
		}
		log.Printf("stream: subscribed %s", t)
	}
	return nil
}

type wsItem struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Topic  string `json:"topic"`
	TS     int64  `json:"ts"` // ms
}

type wsMessage struct {
	Type string   `json:"type"`
	Data []wsItem `json:"data"`
}

// Read streams text items and errors.
func (c *Client) Read(ctx context.Context) (<-chan *models.TextItem, <-chan error) {
	items := make(chan *models.TextItem, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if c.conn != nil {
					_ = c.conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(items)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				if c.conn == nil {
					errs <- fmt.Errorf("stream conn nil")
					return
				}
				_, b, err := c.conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("stream read: %w", err)
					return
				}
				var m wsMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-message frames
					continue
				}
				if m.Type != "message" {
					continue
				}
				for _, d := range m.Data {
					if d.ID == "" || d.Text == "" {
						continue
					}
					item := &models.TextItem{
						ID:        d.ID,
						Text:      d.Text,
						Author:    d.Author,
						Source:    "stream/" + d.Topic,
						CreatedAt: time.Unix(0, d.TS*int64(time.Millisecond)).UTC(),
					}
					select {
					case items <- item:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return items, errs
}

// Reconnect closes and re-dials.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	return c.Open(ctx)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool { return c.connected }
