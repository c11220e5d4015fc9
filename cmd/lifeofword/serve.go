package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/lifeofword/internal/config"
	"github.com/jonathan/lifeofword/internal/corpus"
	"github.com/jonathan/lifeofword/internal/server"
	"github.com/jonathan/lifeofword/internal/server/ratelimit"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the passage proxy and reading API server",
	Long:  `Start an HTTP server that proxies passage requests to the upstream API under a shared rate limit and serves reading plans and merged segments.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 5500)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer startTracing(cmd.Context(), logger)()

	if servePort != 0 {
		cfg.Port = servePort
	}
	// The reading endpoints fetch through this server's own proxy route unless
	// another proxy is configured.
	if cfg.ProxyURL == config.DefaultProxyURL {
		cfg.ProxyURL = fmt.Sprintf("http://localhost:%d/api/esv", cfg.Port)
	}
	if cfg.ESVAPIKey == "" {
		logger.Warn("ESV_API_KEY not set; /api/esv will answer 500")
	}

	var loader *corpus.Loader
	if source, err := corpusSource(cfg); err == nil {
		loader = corpus.NewLoader(source, logger)
	} else {
		logger.Warn("reading endpoints disabled", "error", err)
	}

	fetcher, closeFetcher, err := newFetcher(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeFetcher()

	srv, err := server.New(server.Config{
		Port:        cfg.Port,
		APIKey:      cfg.ESVAPIKey,
		UpstreamURL: cfg.ESVBaseURL,
		StaticDir:   cfg.StaticDir,
		RateLimiter: ratelimit.NewLimiter(ratelimit.LoadConfig()),
		Loader:      loader,
		Fetcher:     fetcher,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
