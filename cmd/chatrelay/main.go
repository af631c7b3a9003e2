package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/matiasleandrokruk/chatrelay/internal/infra/config"
	"github.com/matiasleandrokruk/chatrelay/internal/server"
	"github.com/matiasleandrokruk/chatrelay/internal/version"
	"github.com/spf13/cobra"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// termination signal.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "chatrelay",
	Short: "HTTP relay that routes chat messages to LLM providers",
	Long: `ChatRelay accepts chat messages over HTTP and forwards them to one of
several interchangeable LLM providers (OpenAI, Ollama, Gemini,
Anthropic), returning a normalized response.

Use 'chatrelay serve' to start the HTTP server.`,
}

// --- serve command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server that routes chat requests to the configured
LLM providers.

Configuration is layered: built-in defaults, then the YAML file given
with --config, then CHATRELAY_ environment variables. Vendor API key
variables (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY) are
honored directly; a cloud provider without its key is left unwired.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfgPath, _ := cmd.Flags().GetString("config")
	addr, _ := cmd.Flags().GetString("addr")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		if err := applyAddrOverride(cfg, addr); err != nil {
			return err
		}
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	srv, err := server.NewServer(cfg, log)
	if err != nil {
		return fmt.Errorf("building server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		// Server stopped on its own (e.g. the port is taken).
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// applyAddrOverride replaces the configured listen address with the
// --addr flag value. An empty host keeps the configured one.
func applyAddrOverride(cfg *config.Config, addr string) error {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid --addr %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return fmt.Errorf("invalid --addr port %q: %w", portStr, err)
	}
	if host != "" {
		cfg.Server.Host = host
	}
	cfg.Server.Port = port
	return nil
}

// --- version command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String()) //nolint:errcheck
	},
}

func init() {
	serveCmd.Flags().StringP("config", "c", "", "Path to config YAML file")
	serveCmd.Flags().String("addr", "", "Listen address override (host:port)")

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
