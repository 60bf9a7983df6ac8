package reddit

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"SentiPull/internal/domain/models"
	drepo "SentiPull/internal/domain/repository"
	xhttp "SentiPull/pkg/http"
)

const seenCapacity = 4096

// Client implements a TextSource backed by the public Reddit listing API.
// It polls /r/{subreddit}/comments.json and emits comments it has not
// seen before.
type Client struct {
	baseURL      string
	userAgent    string
	subreddit    string
	batchSize    int
	pollInterval time.Duration

	http      *xhttp.Client
	connected bool
	failures  int

	seen      map[string]struct{}
	seenOrder []string
}

// New creates a Reddit comment poller.
func New(baseURL, userAgent, subreddit string, batchSize int, pollInterval time.Duration) drepo.TextSource {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		userAgent:    userAgent,
		subreddit:    subreddit,
		batchSize:    batchSize,
		pollInterval: pollInterval,
		http:         xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		seen:         make(map[string]struct{}),
	}
}

// Open probes the listing endpoint once so a bad subreddit or network
// failure surfaces at startup instead of on the first tick.
func (c *Client) Open(ctx context.Context) error {
	if _, err := c.fetch(ctx); err != nil {
		return fmt.Errorf("reddit open: %w", err)
	}
	c.connected = true
	log.Printf("reddit: polling r/%s every %s", c.subreddit, c.pollInterval)
	return nil
}

type listingChild struct {
	Data struct {
		ID         string  `json:"id"`
		Body       string  `json:"body"`
		Author     string  `json:"author"`
		CreatedUTC float64 `json:"created_utc"`
	} `json:"data"`
}

type listing struct {
	Data struct {
		Children []listingChild `json:"children"`
	} `json:"data"`
}

// Read polls the listing on an interval and streams unseen comments.
func (c *Client) Read(ctx context.Context) (<-chan *models.TextItem, <-chan error) {
	items := make(chan *models.TextItem, 1024)
	errs := make(chan error, 1)

	go func() {
		defer close(items)
		defer close(errs)

		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()

		c.emit(ctx, items, errs)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.emit(ctx, items, errs)
			}
		}
	}()

	return items, errs
}

func (c *Client) emit(ctx context.Context, items chan<- *models.TextItem, errs chan<- error) {
	batch, err := c.fetch(ctx)
	if err != nil {
		c.connected = false
		select {
		case errs <- fmt.Errorf("reddit poll: %w", err):
		default:
		}
		return
	}
	c.connected = true

	for _, it := range batch {
		if c.markSeen(it.ID) {
			continue
		}
		select {
		case items <- it:
		default:
			// drop on backpressure
		}
	}
}

func (c *Client) fetch(ctx context.Context) ([]*models.TextItem, error) {
	var l listing
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/r/%s/comments.json", c.baseURL, c.subreddit),
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"limit": {fmt.Sprintf("%d", c.batchSize)},
		},
	}, &l)
	if err != nil {
		return nil, err
	}

	out := make([]*models.TextItem, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		body := strings.TrimSpace(ch.Data.Body)
		if ch.Data.ID == "" || body == "" || body == "[deleted]" || body == "[removed]" {
			continue
		}
		out = append(out, &models.TextItem{
			ID:        ch.Data.ID,
			Text:      body,
			Author:    ch.Data.Author,
			Source:    "reddit/" + c.subreddit,
			CreatedAt: time.Unix(int64(ch.Data.CreatedUTC), 0).UTC(),
		})
	}
	return out, nil
}

// markSeen records the id and reports whether it was already present.
// The seen set is bounded; oldest ids roll off first.
func (c *Client) markSeen(id string) bool {
	if _, ok := c.seen[id]; ok {
		return true
	}
	c.seen[id] = struct{}{}
	c.seenOrder = append(c.seenOrder, id)
	if len(c.seenOrder) > seenCapacity {
		delete(c.seen, c.seenOrder[0])
		c.seenOrder = c.seenOrder[1:]
	}
	return false
}

// Reconnect re-probes the listing after an exponential delay capped at
// the poll interval.
func (c *Client) Reconnect(ctx context.Context) error {
	c.connected = false

	delay := time.Second << c.failures
	if delay > c.pollInterval {
		delay = c.pollInterval
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.Open(ctx); err != nil {
		if c.failures < 6 {
			c.failures++
		}
		return err
	}
	c.failures = 0
	return nil
}

// Close stops the poller. The listing API is stateless; there is
// nothing to tear down.
func (c *Client) Close() error {
	c.connected = false
	return nil
}

// IsConnected reports whether the last poll succeeded.
func (c *Client) IsConnected() bool { return c.connected }
