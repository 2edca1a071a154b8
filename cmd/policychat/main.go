package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"policychat/internal/ai"
	"policychat/internal/config"
	"policychat/internal/ingest"
	"policychat/internal/retrieval"
	"policychat/internal/scheduler"
	"policychat/internal/server"
	"policychat/internal/store"
	"policychat/internal/tui"
	"policychat/internal/version"

	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	dbPath    string
	verbose   bool
	port      int
	seedFile  string
	seedForce bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "policychat",
	Short: "PolicyChat - document-grounded HR policy assistant",
	Long: `PolicyChat answers employee questions about HR policies by retrieving
the most relevant policy documents and asking a language model to
compose an answer grounded in them.

It can run as an HTTP server or be used interactively from the terminal.`,
	Version: version.Full(),
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the PolicyChat HTTP server",
	Long: `Start the PolicyChat HTTP and WebSocket server. This is the main server
mode that accepts chat requests and serves the document API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load policy documents into the database",
	Long: `Seed the database with policy documents. Without --file the built-in
default corpus is used. Seeding is skipped when documents already
exist unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <file.html> [file.html...]",
	Short: "Import policy documents from HTML files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIngest(args)
	},
}

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions from an interactive terminal session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("PolicyChat %s\n", version.Full())
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.json", "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "database", "", "database file path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Serve command flags
	serveCmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP server port (overrides config)")

	// Seed command flags
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML corpus file (defaults to the built-in corpus)")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "seed even when documents already exist")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(versionCmd)

	// If no command is specified, default to serve
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if port != 0 {
		cfg.Port = port
	}
	if verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	return cfg, nil
}

func newProvider(cfg *config.Config) (ai.Provider, error) {
	switch cfg.AI.Provider {
	case "mock":
		return ai.NewMockProvider("mock"), nil
	default:
		return ai.NewGeminiProvider(cfg.AI.APIKey, cfg.AI.Model)
	}
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	indexer := retrieval.NewIndexer(st)
	ranker := retrieval.NewRanker(indexer, cfg.Retrieval.TopN, cfg.Retrieval.MinScore)
	answerer := ai.NewAnswerer(provider, cfg.AI.FallbackMessage)

	srv := server.New(cfg.Port, st, indexer, ranker, answerer)

	var sched *scheduler.Scheduler
	if cfg.Reindex.Enabled {
		sched = scheduler.New(indexer, cfg.Reindex.Schedule)
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start reindex scheduler: %w", err)
		}
		defer sched.Stop()
	}

	// Setup graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	log.Println("Server stopped gracefully")
	return nil
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	docs := ingest.DefaultCorpus()
	if seedFile != "" {
		docs, err = ingest.LoadCorpusFile(seedFile)
		if err != nil {
			return fmt.Errorf("failed to load corpus file: %w", err)
		}
	}

	n, err := ingest.Seed(context.Background(), st, docs, seedForce)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if n == 0 {
		fmt.Println("Documents already present, nothing seeded (use --force to seed anyway)")
		return nil
	}
	fmt.Printf("Seeded %d documents into %s\n", n, cfg.Database.Path)
	return nil
}

func runIngest(paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	for _, path := range paths {
		doc, err := ingest.ImportHTMLFile(path)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		id, err := st.AddDocument(ctx, doc.Title, doc.Content)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", path, err)
		}
		fmt.Printf("Imported %q (id %d)\n", doc.Title, id)
	}
	return nil
}

func runChat() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer st.Close()

	provider, err := newProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI provider: %w", err)
	}

	indexer := retrieval.NewIndexer(st)
	ranker := retrieval.NewRanker(indexer, cfg.Retrieval.TopN, cfg.Retrieval.MinScore)
	answerer := ai.NewAnswerer(provider, cfg.AI.FallbackMessage)

	ask := func(ctx context.Context, question string) (string, []retrieval.Match, error) {
		matches, err := ranker.Rank(ctx, question)
		if err != nil {
			return "", nil, err
		}
		answer := answerer.Answer(ctx, question, matches)
		if _, err := st.LogInteraction(ctx, question, answer); err != nil {
			log.Printf("Failed to log interaction: %v", err)
		}
		return answer, matches, nil
	}

	return tui.Run(ask)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
