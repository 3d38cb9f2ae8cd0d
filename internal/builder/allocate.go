package builder

import (
	"math"
	"sort"
)

// Allocate converts aggregated stats and customization into the integer slot
// plan. Inconsistent inputs are clamped, never rejected.
//
// landShift is the archetype-derived adjustment to the default land count; it
// never overrides an explicit user land value.
func Allocate(stats *Stats, custom Customization, numCommanders int, landShift int, rolesAvailable bool, tunables Tunables) CategoryTargets {
	if stats == nil {
		stats = FallbackStats()
	}
	if tunables.SubRoleBaseline == nil {
		tunables = DefaultTunables()
	}
	if numCommanders < 1 {
		numCommanders = 1
	} else if numCommanders > 2 {
		numCommanders = 2
	}

	total := custom.Format.TotalSize() - numCommanders

	// Land target: user slider wins; otherwise the stats-derived default,
	// shifted by archetype before clamping.
	landTarget := custom.LandCount
	if landTarget <= 0 {
		landTarget = stats.DefaultLandCount() + landShift
	}
	minLands, maxLands := custom.Format.LandRange()
	landTarget = clamp(landTarget, minLands, maxLands)
	if landTarget > total {
		landTarget = total
	}

	remaining := total - landTarget

	// Distribute the non-land slots across the six type categories with
	// largest-remainder rounding so the sum is exact.
	weights := make(map[string]float64, len(TypeCategories))
	for _, category := range TypeCategories {
		weights[category] = stats.TypeDistribution[category]
	}
	typeCounts := largestRemainder(remaining, weights, TypeCategories)

	targets := CategoryTargets{
		Total:        total,
		Lands:        landTarget,
		Counts:       make(map[string]int),
		RolesEnabled: rolesAvailable,
	}

	if rolesAvailable {
		// Carve functional sub-roles out of the non-creature non-land pool,
		// scaling the configured baseline to fit it exactly.
		creatures := typeCounts[CategoryCreature]
		nonCreature := remaining - creatures

		baselineWeights := make(map[string]float64, len(RoleCategories))
		for _, role := range RoleCategories {
			baselineWeights[role] = float64(tunables.SubRoleBaseline[role])
		}
		roleCounts := largestRemainder(nonCreature, baselineWeights, RoleCategories)

		targets.Counts[CategoryCreature] = creatures
		for _, role := range RoleCategories {
			targets.Counts[role] = roleCounts[role]
		}
		targets.Order = append([]string{CategoryCreature}, RoleCategories...)
	} else {
		for _, category := range TypeCategories {
			targets.Counts[category] = typeCounts[category]
		}
		// Utility always exists as the overflow bucket.
		targets.Counts[CategoryUtility] = 0
		targets.Order = append(append([]string{}, TypeCategories...), CategoryUtility)
	}

	// Nonbasic land target: explicit value wins, stats default otherwise.
	nonBasic := custom.NonBasicLandCount
	if nonBasic < 0 {
		nonBasic = stats.DefaultNonBasicCount()
	}
	targets.NonBasicLands = clamp(nonBasic, 0, landTarget)

	return targets
}

// largestRemainder apportions totalSlots across the ordered categories
// proportional to their weights. The rounded counts always sum to
// totalSlots; remainder ties break by category order for determinism.
func largestRemainder(totalSlots int, weights map[string]float64, order []string) map[string]int {
	counts := make(map[string]int, len(order))
	if totalSlots <= 0 {
		for _, category := range order {
			counts[category] = 0
		}
		return counts
	}

	totalWeight := 0.0
	for _, category := range order {
		if weights[category] > 0 {
			totalWeight += weights[category]
		}
	}
	if totalWeight == 0 {
		// No signal: spread evenly, earlier categories absorb the remainder.
		base := totalSlots / len(order)
		extra := totalSlots % len(order)
		for i, category := range order {
			counts[category] = base
			if i < extra {
				counts[category]++
			}
		}
		return counts
	}

	type remainderEntry struct {
		category  string
		remainder float64
		index     int
	}

	allocated := 0
	remainders := make([]remainderEntry, 0, len(order))
	for i, category := range order {
		weight := weights[category]
		if weight < 0 {
			weight = 0
		}
		exact := float64(totalSlots) * weight / totalWeight
		floor := int(math.Floor(exact))
		counts[category] = floor
		allocated += floor
		remainders = append(remainders, remainderEntry{category, exact - float64(floor), i})
	}

	sort.SliceStable(remainders, func(i, j int) bool {
		if remainders[i].remainder != remainders[j].remainder {
			return remainders[i].remainder > remainders[j].remainder
		}
		return remainders[i].index < remainders[j].index
	})

	for i := 0; allocated < totalSlots; i++ {
		counts[remainders[i%len(remainders)].category]++
		allocated++
	}

	return counts
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
