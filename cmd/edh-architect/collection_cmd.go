package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/collection"
	"github.com/ramonehamilton/edh-architect/internal/config"
)

// openStore opens the collection database at the configured path. Returns nil
// when the database cannot be opened; generation then runs without ownership
// data.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) *collection.Store {
	path := cfg.Collection.DBPath
	if path == "" {
		defaultPath, err := config.DefaultDBPath()
		if err != nil {
			logger.Warn("collection database unavailable", "error", err)
			return nil
		}
		path = defaultPath
	}
	store, err := collection.Open(collection.DefaultDBConfig(path))
	if err != nil {
		logger.Warn("collection database unavailable", "path", path, "error", err)
		return nil
	}
	return store
}

func mustOpenStore(ctx context.Context, cfg *config.Config) *collection.Store {
	store := openStore(ctx, cfg, newLogger(cfg))
	if store == nil {
		log.Fatal("Collection database unavailable")
	}
	return store
}

func runCollection(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: edh-architect collection <add|list|backup|restore> [options]")
		os.Exit(2)
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("collection add", flag.ExitOnError)
		name := fs.String("name", "", "Card name to add")
		quantity := fs.Int("quantity", 1, "Number of copies")
		file := fs.String("file", "", "Import a deck list file instead (\"<quantity> <name>\" lines)")
		fs.Parse(args[1:])

		store := mustOpenStore(ctx, cfg)
		defer store.Close()

		switch {
		case *file != "":
			added, err := importCollectionFile(ctx, store, *file)
			if err != nil {
				log.Fatalf("Import failed: %v", err)
			}
			fmt.Printf("Imported %d cards from %s\n", added, *file)
		case *name != "":
			if err := store.AddOwned(ctx, *name, *quantity); err != nil {
				log.Fatalf("Failed to add card: %v", err)
			}
			fmt.Printf("Added %d x %s\n", *quantity, *name)
		default:
			fs.Usage()
			log.Fatal("Provide either -name or -file")
		}

	case "list":
		store := mustOpenStore(ctx, cfg)
		defer store.Close()

		owned, err := store.OwnedNames(ctx)
		if err != nil {
			log.Fatalf("Failed to list collection: %v", err)
		}
		names := make([]string, 0, len(owned))
		for name := range owned {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Println(name)
		}
		fmt.Printf("\n%d cards\n", len(names))

	case "backup":
		fs := flag.NewFlagSet("collection backup", flag.ExitOnError)
		output := fs.String("output", "collection.backup", "Backup file path")
		password := fs.String("password", "", "Encryption password (required)")
		fs.Parse(args[1:])

		if *password == "" {
			log.Fatal("Missing required flag: -password")
		}
		store := mustOpenStore(ctx, cfg)
		defer store.Close()

		if err := store.Backup(*output, *password); err != nil {
			log.Fatalf("Backup failed: %v", err)
		}
		fmt.Printf("Collection backed up to %s\n", *output)

	case "restore":
		fs := flag.NewFlagSet("collection restore", flag.ExitOnError)
		input := fs.String("input", "", "Backup file path (required)")
		password := fs.String("password", "", "Encryption password (required)")
		fs.Parse(args[1:])

		if *input == "" || *password == "" {
			log.Fatal("Missing required flags: -input and -password")
		}
		path := cfg.Collection.DBPath
		if path == "" {
			defaultPath, err := config.DefaultDBPath()
			if err != nil {
				log.Fatalf("Failed to resolve database path: %v", err)
			}
			path = defaultPath
		}
		if err := collection.Restore(*input, path, *password); err != nil {
			log.Fatalf("Restore failed: %v", err)
		}
		fmt.Printf("Collection restored to %s\n", path)

	default:
		fmt.Fprintf(os.Stderr, "Unknown collection command: %s\n", args[0])
		os.Exit(2)
	}
}

func runDecks(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: edh-architect decks <list|show|delete> [options]")
		os.Exit(2)
	}

	store := mustOpenStore(ctx, cfg)
	defer store.Close()

	switch args[0] {
	case "list":
		decks, err := store.ListDecks(ctx)
		if err != nil {
			log.Fatalf("Failed to list decks: %v", err)
		}
		if len(decks) == 0 {
			fmt.Println("No saved decks.")
			return
		}
		for _, deck := range decks {
			commander := deck.Commander
			if deck.Partner != nil {
				commander += " + " + *deck.Partner
			}
			fmt.Printf("%s  %-24s %s (%s)\n", deck.ID, deck.Name, commander, deck.CreatedAt.Format("2006-01-02"))
		}

	case "show":
		fs := flag.NewFlagSet("decks show", flag.ExitOnError)
		id := fs.String("id", "", "Deck ID (required)")
		fs.Parse(args[1:])
		if *id == "" {
			log.Fatal("Missing required flag: -id")
		}

		deck, err := store.GetDeck(ctx, *id)
		if err != nil {
			log.Fatalf("Failed to load deck: %v", err)
		}
		if deck == nil {
			log.Fatalf("No deck with ID %s", *id)
		}
		fmt.Printf("%s - %s\n", deck.Name, deck.Commander)
		for _, card := range deck.Cards {
			fmt.Printf("%d %s\n", card.Quantity, card.Name)
		}

	case "delete":
		fs := flag.NewFlagSet("decks delete", flag.ExitOnError)
		id := fs.String("id", "", "Deck ID (required)")
		fs.Parse(args[1:])
		if *id == "" {
			log.Fatal("Missing required flag: -id")
		}

		if err := store.DeleteDeck(ctx, *id); err != nil {
			log.Fatalf("Failed to delete deck: %v", err)
		}
		fmt.Printf("Deleted deck %s\n", *id)

	default:
		fmt.Fprintf(os.Stderr, "Unknown decks command: %s\n", args[0])
		os.Exit(2)
	}
}

// importCollectionFile reads a "<quantity> <name>" list and adds each line to
// the collection.
func importCollectionFile(ctx context.Context, store *collection.Store, path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	added := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		quantity := 1
		name := line
		if fields := strings.SplitN(line, " ", 2); len(fields) == 2 {
			if n, err := fmt.Sscanf(fields[0], "%d", &quantity); err != nil || n != 1 {
				quantity = 1
			} else {
				name = strings.TrimSpace(fields[1])
			}
		}
		if err := store.AddOwned(ctx, name, quantity); err != nil {
			return added, err
		}
		added++
	}
	return added, scanner.Err()
}
