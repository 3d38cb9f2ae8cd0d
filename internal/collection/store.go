package collection

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/edh-architect/internal/mtg/cards"
)

// Store provides access to the owned-card inventory and saved decks.
type Store struct {
	db     *sql.DB
	dbPath string
}

// SavedDeck is a generated deck persisted for later use.
type SavedDeck struct {
	ID        string
	Name      string
	Commander string
	Partner   *string
	Format    string
	CreatedAt time.Time
	Cards     []SavedDeckCard
}

// SavedDeckCard is one row of a saved deck.
type SavedDeckCard struct {
	Name     string
	Category string
	Quantity int
}

// Open opens (or creates) the collection database and applies migrations.
func Open(config *DBConfig) (*Store, error) {
	conn, err := openDB(config)
	if err != nil {
		return nil, err
	}

	store := &Store{db: conn, dbPath: config.Path}

	if config.Path == ":memory:" {
		scripts, err := upScripts()
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		for _, script := range scripts {
			if _, err := conn.Exec(script); err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("failed to apply schema: %w", err)
			}
		}
		return store, nil
	}

	if err := migrateUp(config.Path); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AddOwned records an owned card. The front-face name is stored alongside the
// full name so double-faced cards match single-name recommendation lists.
func (s *Store) AddOwned(ctx context.Context, name string, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	query := `
		INSERT INTO owned_cards (name, front_name, quantity)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET quantity = owned_cards.quantity + excluded.quantity
	`
	_, err := s.db.ExecContext(ctx, query, name, cards.FrontFaceName(name), quantity)
	if err != nil {
		return fmt.Errorf("failed to add owned card: %w", err)
	}
	return nil
}

// RemoveOwned deletes a card from the inventory.
func (s *Store) RemoveOwned(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM owned_cards WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to remove owned card: %w", err)
	}
	return nil
}

// OwnedNames returns the set of owned card names. Both the full name and the
// front-face name of double-faced cards are present.
func (s *Store) OwnedNames(ctx context.Context) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, front_name FROM owned_cards`)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	owned := make(map[string]bool)
	for rows.Next() {
		var name, frontName string
		if err := rows.Scan(&name, &frontName); err != nil {
			return nil, fmt.Errorf("failed to scan owned card: %w", err)
		}
		owned[name] = true
		owned[frontName] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owned cards: %w", err)
	}
	return owned, nil
}

// OwnedCount returns the number of distinct owned cards.
func (s *Store) OwnedCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM owned_cards`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count owned cards: %w", err)
	}
	return count, nil
}

// SaveDeck persists a generated deck and returns its new ID.
func (s *Store) SaveDeck(ctx context.Context, deck *SavedDeck) (string, error) {
	if deck == nil || deck.Commander == "" {
		return "", fmt.Errorf("deck with a commander is required")
	}

	id := deck.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_decks (id, name, commander, partner, format)
		VALUES (?, ?, ?, ?, ?)
	`, id, deck.Name, deck.Commander, deck.Partner, deck.Format)
	if err != nil {
		return "", fmt.Errorf("failed to insert deck: %w", err)
	}

	for i, card := range deck.Cards {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO saved_deck_cards (deck_id, card_name, category, quantity, position)
			VALUES (?, ?, ?, ?, ?)
		`, id, card.Name, card.Category, card.Quantity, i)
		if err != nil {
			return "", fmt.Errorf("failed to insert deck card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit deck: %w", err)
	}
	return id, nil
}

// GetDeck retrieves a saved deck with its cards, or nil when absent.
func (s *Store) GetDeck(ctx context.Context, id string) (*SavedDeck, error) {
	var deck SavedDeck
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, commander, partner, format, created_at
		FROM saved_decks WHERE id = ?
	`, id).Scan(&deck.ID, &deck.Name, &deck.Commander, &deck.Partner, &deck.Format, &deck.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deck: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT card_name, category, quantity
		FROM saved_deck_cards WHERE deck_id = ?
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get deck cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var card SavedDeckCard
		if err := rows.Scan(&card.Name, &card.Category, &card.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan deck card: %w", err)
		}
		deck.Cards = append(deck.Cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deck cards: %w", err)
	}
	return &deck, nil
}

// ListDecks returns saved decks, newest first, without their card rows.
func (s *Store) ListDecks(ctx context.Context) ([]*SavedDeck, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, commander, partner, format, created_at
		FROM saved_decks
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var decks []*SavedDeck
	for rows.Next() {
		var deck SavedDeck
		if err := rows.Scan(&deck.ID, &deck.Name, &deck.Commander, &deck.Partner, &deck.Format, &deck.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deck: %w", err)
		}
		decks = append(decks, &deck)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate decks: %w", err)
	}
	return decks, nil
}

// DeleteDeck removes a saved deck and its cards.
func (s *Store) DeleteDeck(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM saved_decks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete deck: %w", err)
	}
	return nil
}
