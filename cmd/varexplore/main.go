package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/varcore/cmd/varexplore/logger"
)

const version = "0.1.0"

func main() {
	args := os.Args[1:]
	debugMode := false

	filtered := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "--debug" || arg == "-d" {
			debugMode = true
			continue
		}
		filtered = append(filtered, arg)
	}

	if err := logger.Init(logger.Options{Enabled: debugMode, Level: slog.LevelDebug}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to init logging: %v\n", err)
	}

	if len(filtered) < 1 || filtered[0] == "--help" || filtered[0] == "-h" {
		printUsage()
		if len(filtered) < 1 {
			os.Exit(1)
		}
		return
	}
	if filtered[0] == "--version" || filtered[0] == "-v" {
		fmt.Printf("varexplore %s\n", version)
		return
	}

	snapshotPath := filtered[0]
	logger.Info("starting varexplore", "path", snapshotPath, "debug", debugMode)

	m, err := NewModel(snapshotPath)
	if err != nil {
		logger.Error("failed to build model", "error", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "error running TUI: %v\n", err)
		os.Exit(1)
	}
	logger.Info("varexplore exited normally")
}

func printUsage() {
	fmt.Println("varexplore - interactive browser for recorded variable reification snapshots")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  varexplore [options] <snapshot.json>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    enable debug logging to ~/.varexplore/logs/")
	fmt.Println("  -h, --help     show this help message")
	fmt.Println("  -v, --version  show version information")
}
