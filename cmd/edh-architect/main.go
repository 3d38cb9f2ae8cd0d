package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ramonehamilton/edh-architect/internal/builder"
	"github.com/ramonehamilton/edh-architect/internal/collection"
	"github.com/ramonehamilton/edh-architect/internal/combodb"
	"github.com/ramonehamilton/edh-architect/internal/config"
	"github.com/ramonehamilton/edh-architect/internal/display"
	"github.com/ramonehamilton/edh-architect/internal/export"
	"github.com/ramonehamilton/edh-architect/internal/mtg/edhrec"
	"github.com/ramonehamilton/edh-architect/internal/mtg/scryfall"
	"github.com/ramonehamilton/edh-architect/internal/tagger"
	"github.com/ramonehamilton/edh-architect/internal/themes"
	"github.com/ramonehamilton/edh-architect/internal/version"
)

func usage() {
	fmt.Fprintf(os.Stderr, `EDH Architect - Commander deck composition engine

Usage:
  edh-architect generate -commander <name> [options]
  edh-architect collection <add|list|backup|restore> [options]
  edh-architect decks <list|show|delete> [options]
  edh-architect themes
  edh-architect version

Run 'edh-architect <command> -h' for command options.
`)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "generate":
		runGenerate(ctx, cfg, os.Args[2:])
	case "collection":
		runCollection(ctx, cfg, os.Args[2:])
	case "decks":
		runDecks(ctx, cfg, os.Args[2:])
	case "themes":
		runThemes()
	case "version":
		fmt.Println(versionString())
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.App.DebugMode {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runGenerate(ctx context.Context, cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		commander    = fs.String("commander", "", "Commander card name (required)")
		partner      = fs.String("partner", "", "Partner commander name")
		themeFlags   = fs.String("themes", "", "Comma-separated theme names (max 2)")
		format       = fs.String("format", cfg.Builder.Format, "Deck format: commander, brawl, duel")
		lands        = fs.Int("lands", 0, "Land count (0 = derive from stats)")
		nonbasics    = fs.Int("nonbasic-lands", -1, "Nonbasic land count (-1 = derive from stats)")
		mustInclude  = fs.String("include", "", "Comma-separated must-include card names")
		banned       = fs.String("exclude", "", "Comma-separated banned card names")
		maxPrice     = fs.Float64("max-price", 0, "Per-card USD budget cap (0 = none)")
		bracket      = fs.Int("bracket", 0, "Power bracket combo filter (0 = none)")
		ownedOnly    = fs.Bool("owned-only", false, "Build from the local collection only")
		saveName     = fs.String("save", "", "Save the generated deck under this name")
		outputPath   = fs.String("output", "", "Write the deck list to this file")
		outputFormat = fs.String("output-format", "text", "Output file format: text, json, csv")
		chartsDir    = fs.String("charts", "", "Write mana curve and category charts to this directory")
		debugMode    = fs.Bool("d", cfg.App.DebugMode, "Enable debug logging")
	)
	fs.Parse(args)

	if *commander == "" {
		fs.Usage()
		log.Fatal("Missing required flag: -commander")
	}
	cfg.App.DebugMode = *debugMode
	logger := newLogger(cfg)

	service, store, comboDB := buildService(ctx, cfg, logger)
	if store != nil {
		defer store.Close()
	}
	if comboDB != nil {
		defer comboDB.Close()
	}

	custom := builder.Customization{
		Format:            builder.Format(*format),
		LandCount:         *lands,
		NonBasicLandCount: *nonbasics,
		MustInclude:       splitList(*mustInclude),
		Banned:            splitList(*banned),
		Themes:            splitList(*themeFlags),
		MaxCardPrice:      *maxPrice,
		Bracket:           *bracket,
		OwnedOnly:         *ownedOnly,
	}

	started := time.Now()
	result, err := service.GenerateDeck(ctx, builder.Request{
		Commander: *commander,
		Partner:   *partner,
		Custom:    custom,
	})
	if err != nil {
		log.Fatalf("Deck generation failed: %v", err)
	}
	logger.Debug("generation finished", "elapsed", time.Since(started))

	display.Result(os.Stdout, *commander, *partner, result)

	deck := &export.Deck{
		Name:      *saveName,
		Commander: *commander,
		Partner:   *partner,
		Format:    *format,
		Entries:   result.Deck.Entries,
	}

	if *outputPath != "" {
		if err := export.ExportFile(deck, export.DeckFormat(*outputFormat), *outputPath, true); err != nil {
			log.Fatalf("Failed to export deck: %v", err)
		}
		fmt.Printf("\nDeck written to %s\n", *outputPath)
	}

	if *chartsDir != "" {
		if err := os.MkdirAll(*chartsDir, 0o755); err != nil {
			log.Fatalf("Failed to create charts directory: %v", err)
		}
		if err := export.RenderDeckCharts(result, result.ManaCurve, *commander, *chartsDir); err != nil {
			log.Fatalf("Failed to render charts: %v", err)
		}
		fmt.Printf("Charts written to %s\n", *chartsDir)
	}

	if *saveName != "" {
		if store == nil {
			log.Fatal("Cannot save deck: collection database unavailable")
		}
		saved := &collection.SavedDeck{
			Name:      *saveName,
			Commander: *commander,
			Format:    *format,
		}
		if *partner != "" {
			saved.Partner = partner
		}
		for _, entry := range result.Deck.Entries {
			saved.Cards = append(saved.Cards, collection.SavedDeckCard{
				Name:     entry.Name,
				Category: entry.Category,
				Quantity: entry.Quantity,
			})
		}
		id, err := store.SaveDeck(ctx, saved)
		if err != nil {
			log.Fatalf("Failed to save deck: %v", err)
		}
		fmt.Printf("Deck saved as %s (%s)\n", *saveName, id)
	}
}

func runThemes() {
	fmt.Println("Available themes:")
	for _, name := range themes.Names() {
		fmt.Printf("  %s\n", name)
	}
}

// buildService wires the generation service from config. The collection
// store, role source, and combo database are all optional; their absence
// degrades granularity, not correctness.
func buildService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*builder.Service, *collection.Store, *combodb.Database) {
	edhrecConfig := edhrec.DefaultConfig()
	edhrecConfig.BaseURL = cfg.Providers.EdhrecBaseURL
	edhrecConfig.CacheSize = cfg.Providers.CacheSize
	edhrecConfig.RateLimitMs = cfg.Providers.RateLimitMs
	if ttl, err := cfg.GetCacheTTL(); err == nil {
		edhrecConfig.CacheTTL = ttl
	}
	provider := edhrec.NewClient(edhrecConfig, logger)

	cardDB := scryfall.NewClient(scryfall.WithBaseURL(cfg.Providers.ScryfallBaseURL))

	store := openStore(ctx, cfg, logger)

	var roles tagger.Source = tagger.Null{}
	if cfg.Collection.RoleFile != "" {
		static, err := tagger.LoadFile(cfg.Collection.RoleFile)
		if err != nil {
			logger.Warn("role file unavailable", "path", cfg.Collection.RoleFile, "error", err)
		} else {
			roles = static
		}
	}

	var comboDB *combodb.Database
	if cfg.Collection.ComboDBPath != "" {
		comboDB = combodb.New(logger)
		if err := comboDB.Load(cfg.Collection.ComboDBPath); err != nil {
			logger.Warn("combo database unavailable", "path", cfg.Collection.ComboDBPath, "error", err)
		} else if cfg.Collection.WatchCombos {
			if err := comboDB.Watch(cfg.Collection.ComboDBPath); err != nil {
				logger.Warn("combo database watch failed", "error", err)
			}
		}
	}

	tunables := cfg.Tunables()
	opts := builder.ServiceOptions{
		Provider: provider,
		CardDB:   cardDB,
		Roles:    roles,
		Tunables: &tunables,
		Logger:   logger,
	}
	if store != nil {
		opts.Inventory = store
	}
	if comboDB != nil {
		opts.Combos = comboDB
	}
	return builder.NewService(opts), store, comboDB
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func versionString() string {
	return "edh-architect " + version.GetVersion()
}
