package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gopix/internal/config"
	"gopix/internal/journal"
	"gopix/internal/ledger"
	"gopix/internal/tui"
)

func main() {
	configPath := flag.String("config", "gopix.yaml", "path to the YAML config")
	indexerURL := flag.String("indexer", "", "override indexer_url")
	gatewayURL := flag.String("gateway", "", "override gateway_url")
	feedURL := flag.String("feed", "", "override feed_url")
	wallet := flag.String("wallet", "", "override wallet address")
	journalDir := flag.String("journal", "", "override journal_dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *indexerURL != "" {
		cfg.IndexerURL = *indexerURL
	}
	if *gatewayURL != "" {
		cfg.GatewayURL = *gatewayURL
	}
	if *feedURL != "" {
		cfg.FeedURL = *feedURL
	}
	if *wallet != "" {
		cfg.Wallet = *wallet
	}
	if *journalDir != "" {
		cfg.JournalDir = *journalDir
	}

	// Stdout belongs to the TUI; logs go to a file when requested.
	logger := log.New(os.Stderr, "[gopix] ", log.LstdFlags|log.Lmicroseconds)
	if os.Getenv("GOPIX_DEBUG") != "" {
		f, err := tea.LogToFile("gopix-debug.log", "gopix")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		logger = log.New(f, "[gopix] ", log.LstdFlags|log.Lmicroseconds)
	}

	var jrnl *journal.Journal
	if cfg.JournalDir != "" {
		jrnl, err = journal.Open(cfg.JournalDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer jrnl.Close()
	}

	client := ledger.NewClient(cfg.IndexerURL, cfg.GatewayURL)
	m := tui.New(cfg, client, jrnl, logger)

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
