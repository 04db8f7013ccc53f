package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pursuit-racer/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pursuit SSH server",
	Long: `Start an SSH server that lets users connect and race.

Each SSH connection gets its own race. Results are stored per-server
(all users share the same best times).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.pursuit/host_key

Examples:
  pursuit serve                           # Listen on :23234 with auto-generated key
  pursuit serve --ssh :2222               # Listen on port 2222
  pursuit serve --host-key ./my_host_key  # Use specific host key
  pursuit serve --level gauntlet          # Everyone races the gauntlet

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	raceCfg, lvl, err := loadRace()
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Race:        raceCfg,
		Level:       lvl,
		Difficulty:  difficultyName(),
		TickRate:    flagFPS,
		Logger:      logger,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	fmt.Printf("Starting pursuit SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}
