package tui

import (
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"gopix/internal/camera"
	"gopix/internal/config"
	"gopix/internal/feed"
	"gopix/internal/grid"
	"gopix/internal/journal"
	"gopix/internal/ledger"
	"gopix/internal/loader"
	"gopix/internal/staging"
)

const (
	headerHeight = 1
	footerHeight = 2
	panelWidth   = 34

	// Frame interval for camera integration.
	frameInterval = time.Second / 30

	// Held keys repeat; if no repeat arrives within this window the key is
	// considered released (terminals deliver no key-up events).
	keyHold = 200 * time.Millisecond

	feedRetryDelay = 5 * time.Second
)

type editField int

const (
	editNone editField = iota
	editColor
	editTermDays
	editPrice
)

type Model struct {
	cfg    config.Config
	logger *log.Logger

	store *grid.Store
	load  *loader.Loader
	cam   camera.Camera
	sel   staging.State

	reader ledger.Reader
	writer ledger.Writer
	feed   *feed.Client
	jrnl   *journal.Journal

	params ledger.Params

	vel      camera.Velocity
	lastPan  time.Time
	lastZoom time.Time
	lastTick time.Time

	termW, termH int
	mapW, mapH   int

	editing editField
	input   textinput.Model
	spin    spinner.Model

	inFlight    int
	feedUp      bool
	commitBusy  bool
	helpVisible bool
	status      string
}

func New(cfg config.Config, client *ledger.Client, jrnl *journal.Journal, logger *log.Logger) Model {
	store := grid.NewStore()
	store.SetDefaultPrice(cfg.MintFee)

	ti := textinput.New()
	ti.CharLimit = 32
	ti.Prompt = "> "

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	return Model{
		cfg:    cfg,
		logger: logger,
		store:  store,
		load:   loader.New(store),
		cam:    camera.New(80, 40),
		reader: client,
		writer: client,
		jrnl:   jrnl,
		params: ledger.Params{MintFee: cfg.MintFee, TaxPerDay: cfg.TaxPerDay},
		input:  ti,
		spin:   sp,

		helpVisible: true,
		status:      "gopix ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		m.spin.Tick,
		readParamsCmd(m.reader),
		connectFeedCmd(m.cfg.FeedURL, m.logger),
	)
}

// authoritative returns the ledger-known state of a cell as cached locally,
// falling back to the unminted default so unloaded cells can still be
// selected and previewed.
func (m Model) authoritative(x, y int64) grid.Cell {
	if cell, ok := m.store.Get(x, y); ok {
		return cell
	}
	return grid.Cell{Color: grid.White, Price: m.params.MintFee}
}

func (m Model) selectedHere(x, y int64) bool {
	return m.sel.Active && m.sel.X == x && m.sel.Y == y
}
