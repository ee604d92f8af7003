package tui

import (
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gopix/internal/grid"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termW = msg.Width
		m.termH = msg.Height
		m.mapW = max(10, m.termW-panelWidth-1)
		m.mapH = max(4, m.termH-headerHeight-footerHeight)
		// Each terminal row holds two vertical samples via half blocks.
		m.cam = m.cam.Resize(float64(m.mapW), float64(m.mapH*2))
		return m, m.planChunks()

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case tea.KeyMsg:
		if m.editing != editNone {
			return m.handleEditKey(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			if x, y, ok := m.cellAt(msg.X, msg.Y); ok {
				m.sel = m.sel.Select(x, y, m.authoritative(x, y))
				if m.sel.Active {
					m.status = fmt.Sprintf("selected (%d,%d)", x, y)
				} else {
					m.status = "selection cleared"
				}
			}
		}
		return m, nil

	case chunkMsg:
		m.inFlight--
		if msg.err != nil {
			m.load.Fail(msg.req)
			m.jrnl.ChunkFailed(msg.req.Chunk.X, msg.req.Chunk.Y, msg.err)
			m.logger.Printf("chunk (%d,%d): %v", msg.req.Chunk.X, msg.req.Chunk.Y, msg.err)
			m.status = "chunk load failed, will retry"
			return m, nil
		}
		if err := m.store.ApplyChunk(msg.req.Token, msg.cells); err != nil {
			m.load.Fail(msg.req)
			m.logger.Printf("apply chunk: %v", err)
			return m, nil
		}
		m.jrnl.ChunkLoaded(msg.req.Chunk.X, msg.req.Chunk.Y)
		return m, nil

	case paramsMsg:
		if msg.err != nil {
			m.logger.Printf("read params: %v (using config fallbacks)", msg.err)
			return m, nil
		}
		m.params = msg.params
		m.store.SetDefaultPrice(msg.params.MintFee)
		return m, nil

	case feedConnMsg:
		if msg.err != nil {
			m.feedUp = false
			m.logger.Printf("feed: %v", msg.err)
			return m, retryFeedCmd()
		}
		m.feed = msg.client
		m.feedUp = true
		return m, awaitFeedCmd(m.feed)

	case feedRetryMsg:
		return m, connectFeedCmd(m.cfg.FeedURL, m.logger)

	case feedUpdateMsg:
		if msg.err != nil {
			m.feedUp = false
			if m.feed != nil {
				_ = m.feed.Close()
				m.feed = nil
			}
			m.logger.Printf("feed: %v", msg.err)
			return m, retryFeedCmd()
		}
		u := msg.update
		if err := m.store.ApplyDelta(u.X, u.Y, u.Delta); err != nil {
			m.logger.Printf("apply delta: %v", err)
		} else {
			m.jrnl.DeltaApplied(u.X, u.Y)
		}
		return m, awaitFeedCmd(m.feed)

	case commitMsg:
		return m.handleCommit(msg)
	}

	var cmd tea.Cmd
	m.spin, cmd = m.spin.Update(msg)
	return m, cmd
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dt := frameInterval.Seconds()
	if !m.lastTick.IsZero() {
		if d := now.Sub(m.lastTick).Seconds(); d > 0 && d < 0.25 {
			dt = d
		}
	}
	m.lastTick = now

	// Terminals report key repeats, not releases: silence means released.
	if now.Sub(m.lastPan) > keyHold {
		m.vel.X, m.vel.Y = 0, 0
	}
	if now.Sub(m.lastZoom) > keyHold {
		m.vel.Z = 0
	}

	var cmd tea.Cmd
	if !m.vel.Zero() {
		var moved bool
		m.cam, moved = m.cam.Integrate(m.vel, dt)
		if moved {
			cmd = m.planChunks()
		}
	}
	return m, tea.Batch(tickCmd(), cmd)
}

// planChunks asks the loader what the viewport is missing and launches one
// fetch per request.
func (m *Model) planChunks() tea.Cmd {
	reqs := m.load.Plan(m.cam)
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, r := range reqs {
		m.inFlight++
		cmds = append(cmds, fetchChunkCmd(m.reader, r))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	now := time.Now()
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "w":
		m.vel.Y = -1
		m.lastPan = now
	case "down", "s":
		m.vel.Y = 1
		m.lastPan = now
	case "left", "a":
		m.vel.X = -1
		m.lastPan = now
	case "right", "d":
		m.vel.X = 1
		m.lastPan = now
	case "+", "=":
		// Zoom in narrows the visible width.
		m.vel.Z = -1
		m.lastZoom = now
	case "-", "_":
		m.vel.Z = 1
		m.lastZoom = now

	case "esc":
		if m.sel.Active {
			m.sel = m.sel.Clear()
			m.status = "selection cleared"
		}

	case "c":
		return m.startEdit(editColor)
	case "t":
		return m.startEdit(editTermDays)
	case "p":
		return m.startEdit(editPrice)

	case "y":
		return m.issueCommit()
	case "x":
		return m.issueBurn()

	case "h":
		m.helpVisible = !m.helpVisible
	}
	return m, nil
}

func (m Model) startEdit(field editField) (tea.Model, tea.Cmd) {
	if !m.sel.Active {
		m.status = "select a cell first"
		return m, nil
	}
	m.editing = field
	switch field {
	case editColor:
		m.input.Placeholder = "#RRGGBB"
		m.input.SetValue(hexString(m.sel.Color))
	case editTermDays:
		m.input.Placeholder = "days"
		m.input.SetValue(strconv.FormatUint(uint64(m.sel.TermDays), 10))
	case editPrice:
		m.input.Placeholder = "price"
		m.input.SetValue(strconv.FormatUint(m.sel.Price, 10))
	}
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = editNone
		m.input.Blur()
		return m, nil
	case "enter":
		if err := m.applyEdit(m.input.Value()); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.editing = editNone
		m.input.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyEdit(raw string) error {
	switch m.editing {
	case editColor:
		c, err := parseColor(raw)
		if err != nil {
			return err
		}
		m.sel = m.sel.SetColor(c)
	case editTermDays:
		d, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("term days: %q is not a number", raw)
		}
		m.sel = m.sel.SetTermDays(uint32(d))
	case editPrice:
		p, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("price: %q is not a number", raw)
		}
		m.sel = m.sel.SetPrice(p)
	}
	return nil
}

func (m Model) issueCommit() (tea.Model, tea.Cmd) {
	if !m.sel.Active {
		m.status = "nothing selected"
		return m, nil
	}
	if m.commitBusy {
		m.status = "commit already in flight"
		return m, nil
	}
	if m.cfg.Wallet == "" {
		m.status = "no wallet configured (view-only)"
		return m, nil
	}
	auth := m.authoritative(m.sel.X, m.sel.Y)
	c, ok := m.sel.PlanCommit(auth, m.cfg.Wallet, m.params)
	if !ok {
		m.status = "no changes to commit"
		return m, nil
	}
	m.commitBusy = true
	m.status = fmt.Sprintf("%s (%d,%d) payment %d...", c.Action, c.Intent.X, c.Intent.Y, c.Intent.Payment)
	m.jrnl.CommitIssued(c.Action.String(), c.Intent.X, c.Intent.Y, c.Intent.Payment)
	return m, commitCmd(m.writer, c)
}

func (m Model) issueBurn() (tea.Model, tea.Cmd) {
	if !m.sel.Active || m.commitBusy {
		return m, nil
	}
	auth := m.authoritative(m.sel.X, m.sel.Y)
	c, ok := m.sel.PlanBurn(auth, m.cfg.Wallet)
	if !ok {
		m.status = "burn needs ownership"
		return m, nil
	}
	m.commitBusy = true
	m.status = fmt.Sprintf("burn (%d,%d)...", c.Intent.X, c.Intent.Y)
	m.jrnl.CommitIssued(c.Action.String(), c.Intent.X, c.Intent.Y, 0)
	return m, commitCmd(m.writer, c)
}

func (m Model) handleCommit(msg commitMsg) (tea.Model, tea.Cmd) {
	m.commitBusy = false
	if msg.gen != m.sel.Gen {
		// The selection moved on while the write was in flight. The draft it
		// was issued for no longer exists, so the outcome only gets logged.
		m.logger.Printf("stale %s result for (%d,%d) discarded", msg.action, msg.x, msg.y)
		return m, nil
	}
	if msg.err != nil {
		m.jrnl.CommitFailed(msg.action.String(), msg.x, msg.y, msg.err)
		m.logger.Printf("%s (%d,%d): %v", msg.action, msg.x, msg.y, msg.err)
		m.status = fmt.Sprintf("%s failed: %v", msg.action, msg.err)
		return m, nil
	}
	m.sel = m.sel.Clear()
	m.status = fmt.Sprintf("%s (%d,%d) confirmed", msg.action, msg.x, msg.y)
	return m, nil
}

// cellAt maps a terminal position to the world cell under it, or false when
// the position is outside the map area. Selection uses the top sample of the
// row.
func (m Model) cellAt(col, row int) (int64, int64, bool) {
	mx := col
	my := row - headerHeight
	if mx < 0 || mx >= m.mapW || my < 0 || my >= m.mapH {
		return 0, 0, false
	}
	x, y := m.cam.CellAt(float64(mx), float64(my*2))
	if !grid.InBounds(x, y) {
		return 0, 0, false
	}
	return x, y, true
}
