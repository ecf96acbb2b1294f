package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/subosito/gotenv"

	"newsdesk/internal/config"
	"newsdesk/internal/logging"
	"newsdesk/internal/pipeline"
	"newsdesk/internal/store"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
)

func main() {
	gotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "newsdesk",
	Short:   "Korean-market news ingestion",
	Long:    "Newsdesk discovers, extracts, dedupes and archives Korean news coverage for the configured topics.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		level := cfg.Logging.Level
		if verbose {
			level = "DEBUG"
		}
		logger = logging.New(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(importCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("newsdesk", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/newsdesk/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure topics, exclusions, and portals.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show database and system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		total, err := db.CountItems()
		if err != nil {
			return fmt.Errorf("counting items: %w", err)
		}
		topics, err := db.Topics()
		if err != nil {
			return fmt.Errorf("listing topics: %w", err)
		}
		lastRun, _ := db.GetMetadata(store.MetaLastIngested)
		if lastRun == "" {
			lastRun = "never"
		}

		fmt.Printf("Database: %s\n", db.Path())
		fmt.Printf("Last ingestion: %s\n\n", lastRun)
		fmt.Printf("Articles: %d\n", total)
		fmt.Println("Topics:")
		for _, topic := range topics {
			count, _ := db.CountForTopic(topic)
			fmt.Printf("  %s: %d\n", topic, count)
		}
		return nil
	},
}

// --- ingest command ---

var (
	ingestDays  int
	ingestMax   int
	ingestTopic string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Discover, extract and store fresh articles for the configured topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		topics := cfg.Topics
		if ingestTopic != "" {
			topics = nil
			for _, t := range cfg.Topics {
				if t.Name == ingestTopic {
					topics = []config.Topic{t}
					break
				}
			}
			if topics == nil {
				return fmt.Errorf("topic %q not in config", ingestTopic)
			}
		}

		pipe := pipeline.New(cfg, db, logger)
		result := pipe.Run(context.Background(), topics, ingestDays, ingestMax)

		fmt.Println("Ingestion complete:")
		for _, tr := range result.Topics {
			if tr.Err != nil {
				fmt.Printf("  %s: error: %v\n", tr.Topic, tr.Err)
				continue
			}
			line := fmt.Sprintf("  %s: %d found, %d unique, %d new", tr.Topic, tr.Found, tr.Unique, tr.Inserted)
			if tr.Stale {
				line += " (older coverage, nothing recent)"
			}
			fmt.Println(line)
		}
		fmt.Printf("\nTotal new articles: %d\n", result.Inserted)
		return nil
	},
}

func init() {
	ingestCmd.Flags().IntVar(&ingestDays, "days", 0, "Override lookback window (days)")
	ingestCmd.Flags().IntVar(&ingestMax, "max", 0, "Override max items per topic")
	ingestCmd.Flags().StringVar(&ingestTopic, "topic", "", "Ingest a single topic only")
}

// --- list command ---

var listCmd = &cobra.Command{
	Use:   "list [topic]",
	Short: "List stored articles for a topic, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.ItemsForTopic(args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Printf("No articles stored for %q.\n", args[0])
			return nil
		}
		printItems(items)
		return nil
	},
}

// --- search command ---

var (
	searchTopic string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search over titles, summaries and bodies",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.Search(strings.Join(args, " "), searchTopic, searchLimit)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No matches.")
			return nil
		}
		printItems(items)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchTopic, "topic", "", "Restrict search to one topic")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Max results")
}

// --- page command ---

var pageFilter store.PageFilter

var pageCmd = &cobra.Command{
	Use:   "page",
	Short: "Browse the archive with topic, year and month filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err := db.Page(pageFilter)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Println("No articles in this window.")
			return nil
		}
		printItems(items)
		return nil
	},
}

func init() {
	pageCmd.Flags().StringVar(&pageFilter.Topic, "topic", "", "Filter by topic")
	pageCmd.Flags().IntVar(&pageFilter.Year, "year", 0, "Filter by publication year")
	pageCmd.Flags().IntVar(&pageFilter.Month, "month", 0, "Filter by publication month (requires --year)")
	pageCmd.Flags().IntVar(&pageFilter.Limit, "limit", 0, "Page size")
	pageCmd.Flags().IntVar(&pageFilter.Offset, "offset", 0, "Page offset")
}

// --- import command ---

var importCmd = &cobra.Command{
	Use:   "import [snapshot.json]",
	Short: "Import a legacy JSON snapshot into an empty database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := db.ImportLegacySnapshot(args[0], logger)
		if err != nil {
			return err
		}
		if result.Imported == 0 && result.Skipped == 0 {
			fmt.Println("Database is not empty; nothing imported.")
			return nil
		}
		fmt.Printf("Imported %d articles across %d topics (%d records skipped).\n",
			result.Imported, result.Topics, result.Skipped)
		return nil
	},
}

func printItems(items []store.NewsItem) {
	for _, it := range items {
		published := it.Published
		if published == "" {
			published = "unknown date"
		}
		sentiment := ""
		if it.Sentiment != "" {
			sentiment = " [" + it.Sentiment + "]"
		}
		fmt.Printf("%s  %s%s\n", published, it.Title, sentiment)
		if it.Link != "" {
			fmt.Printf("    %s\n", it.Link)
		}
	}
	fmt.Printf("\n%d article(s)\n", len(items))
}

func openDB() (*store.DB, error) {
	dataDir := cfg.GetDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	dbPath := filepath.Join(dataDir, "newsdesk.db")
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	// One-time migration path for installs that still have the JSON
	// snapshot next to the database.
	snapshot := filepath.Join(dataDir, store.LegacySnapshotName)
	if _, statErr := os.Stat(snapshot); statErr == nil {
		if result, impErr := db.ImportLegacySnapshot(snapshot, logger); impErr != nil {
			logger.Warn("legacy snapshot import failed", "path", snapshot, "err", impErr)
		} else if result.Imported > 0 {
			logger.Info("imported legacy snapshot", "articles", result.Imported, "topics", result.Topics)
		}
	}

	return db, nil
}
