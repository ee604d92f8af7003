package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gopix/internal/feed"
	"gopix/internal/grid"
	"gopix/internal/ledger"
	"gopix/internal/loader"
	"gopix/internal/staging"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

type chunkMsg struct {
	req   loader.Request
	cells []grid.Cell
	err   error
}

func fetchChunkCmd(r ledger.Reader, req loader.Request) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		ox, oy := req.Chunk.Origin()
		cells, err := r.ReadChunk(ctx, ox, oy, int(grid.ChunkSize), int(grid.ChunkSize))
		return chunkMsg{req: req, cells: cells, err: err}
	}
}

type paramsMsg struct {
	params ledger.Params
	err    error
}

func readParamsCmd(r ledger.Reader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		p, err := r.ReadParams(ctx)
		return paramsMsg{params: p, err: err}
	}
}

type feedConnMsg struct {
	client *feed.Client
	err    error
}

func connectFeedCmd(url string, logger *log.Logger) tea.Cmd {
	return func() tea.Msg {
		c, err := feed.Dial(url, logger)
		return feedConnMsg{client: c, err: err}
	}
}

type feedRetryMsg struct{}

func retryFeedCmd() tea.Cmd {
	return tea.Tick(feedRetryDelay, func(time.Time) tea.Msg { return feedRetryMsg{} })
}

type feedUpdateMsg struct {
	update feed.Update
	err    error
}

// awaitFeedCmd blocks on the websocket until the next valid update. The
// program re-issues it after every delivery, so exactly one reader is
// outstanding at a time.
func awaitFeedCmd(c *feed.Client) tea.Cmd {
	return func() tea.Msg {
		u, err := c.Next()
		return feedUpdateMsg{update: u, err: err}
	}
}

type commitMsg struct {
	action staging.Action
	gen    uint64
	x, y   int64
	err    error
}

func commitCmd(w ledger.Writer, c staging.Commit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		var err error
		switch c.Action {
		case staging.ActionMint:
			err = w.Mint(ctx, c.Intent)
		case staging.ActionBuy:
			err = w.Buy(ctx, c.Intent)
		case staging.ActionUpdateColor:
			err = w.UpdateColor(ctx, c.Intent)
		case staging.ActionUpdateTermDays:
			err = w.UpdateTermDays(ctx, c.Intent)
		case staging.ActionUpdatePrice:
			err = w.UpdatePrice(ctx, c.Intent)
		case staging.ActionBurn:
			err = w.Burn(ctx, c.Intent.X, c.Intent.Y)
		}
		return commitMsg{action: c.Action, gen: c.Gen, x: c.Intent.X, y: c.Intent.Y, err: err}
	}
}
