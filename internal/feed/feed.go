// Package feed consumes the push-update stream: discrete cell-state deltas
// delivered over a websocket in arbitrary timing relative to chunk reads.
// Frames are schema-validated and normalized (zero-address sentinel, 0-255
// color encoding) before they reach the store.
package feed

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"github.com/gorilla/websocket"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"gopix/internal/grid"
)

//go:embed update.schema.json
var updateSchemaJSON string

var updateSchema = jsonschema.MustCompileString("update.schema.json", updateSchemaJSON)

// Update is one normalized inbound delta.
type Update struct {
	X     int64
	Y     int64
	Delta grid.Delta
}

type wireUpdate struct {
	X    int64 `json:"x"`
	Y    int64 `json:"y"`
	Data struct {
		Owner       *string   `json:"owner"`
		Color       *[3]uint8 `json:"color"`
		TermBeginAt *uint64   `json:"termBeginAt"`
		TermDays    *uint32   `json:"termDays"`
		Price       *uint64   `json:"price"`
		Deposit     *uint64   `json:"deposit"`
	} `json:"data"`
}

// Decode validates and normalizes one raw frame. Fields absent from the
// frame stay nil in the delta and are left unchanged on merge.
func Decode(raw []byte) (Update, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return Update{}, fmt.Errorf("update frame: %w", err)
	}
	if err := updateSchema.Validate(v); err != nil {
		return Update{}, fmt.Errorf("update frame: %w", err)
	}
	var w wireUpdate
	if err := json.Unmarshal(raw, &w); err != nil {
		return Update{}, fmt.Errorf("update frame: %w", err)
	}
	if !grid.InBounds(w.X, w.Y) {
		return Update{}, fmt.Errorf("update frame: (%d,%d) out of bounds", w.X, w.Y)
	}

	u := Update{X: w.X, Y: w.Y}
	if w.Data.Owner != nil {
		owner := *w.Data.Owner
		if owner == grid.ZeroAddress {
			owner = ""
			// Unowned cells hold no lease or deposit.
			zero := uint64(0)
			u.Delta.TermBeginAt = &zero
			u.Delta.Deposit = new(uint64)
		}
		u.Delta.Owner = &owner
	}
	if w.Data.Color != nil {
		c := grid.ColorFromBytes(*w.Data.Color)
		u.Delta.Color = &c
	}
	if w.Data.TermBeginAt != nil && u.Delta.TermBeginAt == nil {
		u.Delta.TermBeginAt = w.Data.TermBeginAt
	}
	if w.Data.TermDays != nil {
		u.Delta.TermDays = w.Data.TermDays
	}
	if w.Data.Price != nil {
		u.Delta.Price = w.Data.Price
	}
	if w.Data.Deposit != nil && u.Delta.Deposit == nil {
		u.Delta.Deposit = w.Data.Deposit
	}
	return u, nil
}

// Client is the long-lived feed connection.
type Client struct {
	conn    *websocket.Conn
	logger  *log.Logger
	dropped int
}

func Dial(url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("feed dial %s: %w", url, err)
	}
	return &Client{conn: conn, logger: logger}, nil
}

// Next blocks until a valid update arrives. Malformed frames are logged,
// counted and skipped; only transport failures are returned as errors.
func (c *Client) Next() (Update, error) {
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return Update{}, fmt.Errorf("feed read: %w", err)
		}
		u, err := Decode(raw)
		if err != nil {
			c.dropped++
			if c.logger != nil {
				c.logger.Printf("drop frame: %v", err)
			}
			continue
		}
		return u, nil
	}
}

// Dropped reports how many malformed frames were discarded.
func (c *Client) Dropped() int { return c.dropped }

func (c *Client) Close() error { return c.conn.Close() }
