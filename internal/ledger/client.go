package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gopix/internal/grid"
)

// Client implements Reader and Writer over the indexer / gateway REST
// surfaces.
type Client struct {
	indexerURL string
	gatewayURL string
	http       *http.Client
}

func NewClient(indexerURL, gatewayURL string) *Client {
	return &Client{
		indexerURL: indexerURL,
		gatewayURL: gatewayURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// cellPayload is the wire shape of a cell: 0-255 colors, zero-address
// sentinel for unowned.
type cellPayload struct {
	Owner       string   `json:"owner"`
	Color       [3]uint8 `json:"color"`
	TermBeginAt uint64   `json:"termBeginAt"`
	TermDays    uint32   `json:"termDays"`
	Price       uint64   `json:"price"`
	Deposit     uint64   `json:"deposit"`
}

func (p cellPayload) toCell() grid.Cell {
	c := grid.Cell{
		Owner:       p.Owner,
		Color:       grid.ColorFromBytes(p.Color),
		TermBeginAt: p.TermBeginAt,
		TermDays:    p.TermDays,
		Price:       p.Price,
		Deposit:     p.Deposit,
	}
	if c.Owner == grid.ZeroAddress {
		c.Owner = ""
		c.TermBeginAt = 0
		c.Deposit = 0
	}
	return c
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	u := c.indexerURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, res.Status)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ReadCell(ctx context.Context, x, y int64) (grid.Cell, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatInt(x, 10))
	q.Set("y", strconv.FormatInt(y, 10))
	var p cellPayload
	if err := c.getJSON(ctx, "/api/pixel", q, &p); err != nil {
		return grid.Cell{}, fmt.Errorf("read cell (%d,%d): %w", x, y, err)
	}
	return p.toCell(), nil
}

// ReadChunk fetches a rectangle of cells. The wire format is column-major
// (columns[i][j] with i the x offset); the result is flattened row-major to
// match the store's chunk layout.
func (c *Client) ReadChunk(ctx context.Context, originX, originY int64, width, height int) ([]grid.Cell, error) {
	q := url.Values{}
	q.Set("x", strconv.FormatInt(originX, 10))
	q.Set("y", strconv.FormatInt(originY, 10))
	q.Set("width", strconv.Itoa(width))
	q.Set("height", strconv.Itoa(height))
	var cols [][]cellPayload
	if err := c.getJSON(ctx, "/api/pixels", q, &cols); err != nil {
		return nil, fmt.Errorf("read chunk (%d,%d): %w", originX, originY, err)
	}
	if len(cols) != width {
		return nil, fmt.Errorf("read chunk (%d,%d): got %d columns, want %d", originX, originY, len(cols), width)
	}
	cells := make([]grid.Cell, width*height)
	for i, col := range cols {
		if len(col) != height {
			return nil, fmt.Errorf("read chunk (%d,%d): column %d has %d cells, want %d", originX, originY, i, len(col), height)
		}
		for j, p := range col {
			cells[j*width+i] = p.toCell()
		}
	}
	return cells, nil
}

func (c *Client) ReadParams(ctx context.Context) (Params, error) {
	var p Params
	for _, ep := range []struct {
		path string
		dst  *uint64
	}{
		{"/api/mint-fee", &p.MintFee},
		{"/api/tax-per-day", &p.TaxPerDay},
		{"/api/total-pixels", &p.TotalPixels},
		{"/api/max-pixels", &p.MaxPixels},
	} {
		var v struct {
			Value uint64 `json:"value"`
		}
		if err := c.getJSON(ctx, ep.path, nil, &v); err != nil {
			return Params{}, fmt.Errorf("read params: %w", err)
		}
		*ep.dst = v.Value
	}
	return p, nil
}

// intentPayload is the gateway wire shape; colors go back to the ledger's
// 0-255 encoding.
type intentPayload struct {
	X        int64    `json:"x"`
	Y        int64    `json:"y"`
	Color    [3]uint8 `json:"color,omitempty"`
	TermDays uint32   `json:"termDays,omitempty"`
	Price    uint64   `json:"price,omitempty"`
	Payment  uint64   `json:"payment,omitempty"`
}

func (c *Client) post(ctx context.Context, action string, body intentPayload) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL+"/wallet/"+action, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s rejected: %s: %s", action, res.Status, bytes.TrimSpace(msg))
	}
	return nil
}

func intentBody(in Intent) intentPayload {
	return intentPayload{
		X:        in.X,
		Y:        in.Y,
		Color:    in.Color.Bytes(),
		TermDays: in.TermDays,
		Price:    in.Price,
		Payment:  in.Payment,
	}
}

func (c *Client) Mint(ctx context.Context, in Intent) error {
	return c.post(ctx, "mint", intentBody(in))
}

func (c *Client) Buy(ctx context.Context, in Intent) error {
	return c.post(ctx, "buy", intentBody(in))
}

func (c *Client) UpdateColor(ctx context.Context, in Intent) error {
	return c.post(ctx, "update-color", intentPayload{X: in.X, Y: in.Y, Color: in.Color.Bytes()})
}

func (c *Client) UpdateTermDays(ctx context.Context, in Intent) error {
	return c.post(ctx, "update-term-days", intentPayload{X: in.X, Y: in.Y, TermDays: in.TermDays, Payment: in.Payment})
}

func (c *Client) UpdatePrice(ctx context.Context, in Intent) error {
	return c.post(ctx, "update-price", intentPayload{X: in.X, Y: in.Y, Price: in.Price, Payment: in.Payment})
}

func (c *Client) Burn(ctx context.Context, x, y int64) error {
	return c.post(ctx, "burn", intentPayload{X: x, Y: y})
}
