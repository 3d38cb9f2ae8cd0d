// Package display renders generation results in a readable terminal format.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/ramonehamilton/edh-architect/internal/builder"
	"github.com/ramonehamilton/edh-architect/internal/export"
)

// Result writes the full generation result to w: slot plan, grouped deck
// list, deficits, warnings, combos, and the cards-to-consider list.
func Result(w io.Writer, commander, partner string, result *builder.Result) {
	title := commander
	if partner != "" {
		title += " + " + partner
	}
	fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))

	fmt.Fprintf(w, "Slot plan: %d cards (%d lands, %d nonbasic)\n", result.Targets.Total, result.Targets.Lands, result.Targets.NonBasicLands)
	for _, category := range result.Targets.Order {
		fmt.Fprintf(w, "  %-12s %d\n", category, result.Targets.Counts[category])
	}
	fmt.Fprintln(w)

	deck := &export.Deck{Commander: commander, Entries: result.Deck.Entries}
	fmt.Fprint(w, export.GroupedText(deck, append(result.Targets.Order, builder.CategoryLand)))

	if result.Deficit != nil {
		fmt.Fprintf(w, "\nDeck is %d cards short of the target:\n", result.Deficit.Shortfall)
		for _, category := range result.Targets.Order {
			if count := result.Deficit.ByCategory[category]; count > 0 {
				fmt.Fprintf(w, "  %-12s %d unfilled\n", category, count)
			}
		}
		fmt.Fprintln(w, "Consider relaxing constraints (budget, owned-only, exclusions).")
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  [%s] %s\n", warning.Code, warning.Message)
		}
	}

	if result.Combos != nil {
		Combos(w, result.Combos)
	}

	if len(result.Gaps) > 0 {
		fmt.Fprintln(w, "\nCards to consider:")
		for _, gap := range result.Gaps {
			owned := ""
			if gap.Owned {
				owned = " (owned)"
			}
			fmt.Fprintf(w, "  %2d. %-32s %5.1f%%%s\n", gap.Rank, gap.Name, gap.Inclusion, owned)
		}
	}
}

// Combos writes the combo analysis sections that have content.
func Combos(w io.Writer, combos *builder.ComboAnalysis) {
	if len(combos.Complete) > 0 {
		fmt.Fprintln(w, "\nCombos in deck:")
		for _, combo := range combos.Complete {
			fmt.Fprintf(w, "  %s -> %s\n", strings.Join(combo.Cards, " + "), combo.Result)
		}
	}
	if len(combos.NearMiss) > 0 {
		fmt.Fprintln(w, "\nNear-miss combos:")
		for _, combo := range combos.NearMiss {
			fmt.Fprintf(w, "  %s -> %s (missing: %s)\n",
				strings.Join(combo.Cards, " + "), combo.Result, strings.Join(combo.Missing, ", "))
		}
	}
	if len(combos.Excluded) > 0 {
		fmt.Fprintln(w, "\nCombos excluded by your ban list:")
		for _, combo := range combos.Excluded {
			fmt.Fprintf(w, "  %s\n", strings.Join(combo.Cards, " + "))
		}
	}
}
