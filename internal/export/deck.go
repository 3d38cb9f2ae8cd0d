package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/builder"
)

// DeckFormat represents the deck export format.
type DeckFormat string

const (
	// DeckFormatText represents the plain "<quantity> <name>" line format.
	DeckFormatText DeckFormat = "text"
	// DeckFormatJSON represents JSON format.
	DeckFormatJSON DeckFormat = "json"
	// DeckFormatCSV represents CSV format.
	DeckFormatCSV DeckFormat = "csv"
)

// Deck is the exportable view of a generated deck.
type Deck struct {
	Name      string             `json:"name,omitempty"`
	Commander string             `json:"commander"`
	Partner   string             `json:"partner,omitempty"`
	Format    string             `json:"format"`
	Entries   []builder.DeckEntry `json:"entries"`
}

// WriteText writes the deck in the plain line format, commanders first. The
// output round-trips through ParseText.
func WriteText(w io.Writer, deck *Deck) error {
	bw := bufio.NewWriter(w)
	writeLine := func(quantity int, name string) {
		fmt.Fprintf(bw, "%d %s\n", quantity, name)
	}
	if deck.Commander != "" {
		writeLine(1, deck.Commander)
	}
	if deck.Partner != "" {
		writeLine(1, deck.Partner)
	}
	for _, entry := range deck.Entries {
		writeLine(entry.Quantity, entry.Name)
	}
	return bw.Flush()
}

// ParseText parses the plain line format back into (name, quantity) entries.
// Blank lines and lines starting with "#" or "//" are skipped. Lines with no
// leading quantity are treated as quantity 1.
func ParseText(r io.Reader) ([]builder.DeckEntry, error) {
	var entries []builder.DeckEntry
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		quantity := 1
		name := line
		if fields := strings.SplitN(line, " ", 2); len(fields) == 2 {
			if parsed, err := strconv.Atoi(strings.TrimSuffix(fields[0], "x")); err == nil {
				if parsed <= 0 {
					return nil, fmt.Errorf("line %d: invalid quantity %q", lineNo, fields[0])
				}
				quantity = parsed
				name = strings.TrimSpace(fields[1])
			}
		}
		if name == "" {
			return nil, fmt.Errorf("line %d: missing card name", lineNo)
		}
		entries = append(entries, builder.DeckEntry{Name: name, Quantity: quantity})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck list: %w", err)
	}
	return entries, nil
}

// WriteJSON writes the deck as JSON, optionally indented.
func WriteJSON(w io.Writer, deck *Deck, pretty bool) error {
	encoder := json.NewEncoder(w)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(deck); err != nil {
		return fmt.Errorf("failed to encode deck: %w", err)
	}
	return nil
}

// WriteCSV writes the deck as CSV with quantity, name, and category columns.
func WriteCSV(w io.Writer, deck *Deck) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"quantity", "card_name", "category"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	rows := make([][]string, 0, len(deck.Entries)+2)
	if deck.Commander != "" {
		rows = append(rows, []string{"1", deck.Commander, "commander"})
	}
	if deck.Partner != "" {
		rows = append(rows, []string{"1", deck.Partner, "commander"})
	}
	for _, entry := range deck.Entries {
		rows = append(rows, []string{strconv.Itoa(entry.Quantity), entry.Name, entry.Category})
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ExportFile writes the deck to a file in the given format, creating parent
// directories as needed. Existing files are only replaced with overwrite set.
func ExportFile(deck *Deck, format DeckFormat, outputPath string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("file already exists: %s", outputPath)
		}
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	switch format {
	case DeckFormatText:
		return WriteText(file, deck)
	case DeckFormatJSON:
		return WriteJSON(file, deck, true)
	case DeckFormatCSV:
		return WriteCSV(file, deck)
	default:
		return fmt.Errorf("unsupported deck format: %s", format)
	}
}

// GroupedText renders the deck grouped under category headers for display,
// categories in slot-plan order and cards alphabetical within each.
func GroupedText(deck *Deck, order []string) string {
	groups := make(map[string][]builder.DeckEntry)
	for _, entry := range deck.Entries {
		groups[entry.Category] = append(groups[entry.Category], entry)
	}

	seen := make(map[string]bool, len(order))
	categories := make([]string, 0, len(groups))
	for _, category := range order {
		if len(groups[category]) > 0 {
			categories = append(categories, category)
			seen[category] = true
		}
	}
	var rest []string
	for category := range groups {
		if !seen[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)
	categories = append(categories, rest...)

	var sb strings.Builder
	for _, category := range categories {
		entries := groups[category]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
		count := 0
		for _, entry := range entries {
			count += entry.Quantity
		}
		fmt.Fprintf(&sb, "%s (%d)\n", strings.ToUpper(category[:1])+category[1:], count)
		for _, entry := range entries {
			fmt.Fprintf(&sb, "  %d %s\n", entry.Quantity, entry.Name)
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n") + "\n"
}
