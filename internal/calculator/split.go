package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/copter/internal/models"
)

// minorUnit is one cent at two decimal places.
var minorUnit = decimal.New(1, -models.MinorUnitPlaces)

// SplitEqual divides total into n shares truncated to the minor unit.
// The truncation remainder is handed out one minor unit at a time to the
// first entries, so the shares always add up to total exactly.
// n <= 0 yields an empty slice.
func SplitEqual(total models.Amount, n int) []models.Amount {
	if n <= 0 {
		return []models.Amount{}
	}

	count := decimal.NewFromInt(int64(n))
	base := total.Div(count).Truncate(models.MinorUnitPlaces)
	remainder := total.Sub(base.Mul(count)).Shift(models.MinorUnitPlaces).IntPart()

	amounts := make([]models.Amount, n)
	for i := range amounts {
		amounts[i] = base
		if int64(i) < remainder {
			amounts[i] = base.Add(minorUnit)
		}
	}
	return amounts
}

// ValidateCustomSplit reports whether amounts add up to total within one minor unit.
func ValidateCustomSplit(amounts []models.Amount, total models.Amount) bool {
	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}
	return sum.Sub(total).Abs().LessThan(minorUnit)
}

// CalculateItemSplits computes what each participant owes from item selections.
//
// Each item's amount is divided evenly among the distinct participants who
// selected it, truncated to the minor unit per selector. Remainders are not
// redistributed and items nobody selected contribute nothing. The result
// does not depend on the order of items or selections.
func CalculateItemSplits(items []models.BillItem, selections []models.ItemSelection) map[string]models.Amount {
	totals := make(map[string]models.Amount)
	selectors := selectorsByItem(selections)

	for _, item := range items {
		ps := selectors[item.ID]
		if len(ps) == 0 {
			continue
		}
		share := itemShare(item.Amount, len(ps))
		for _, participantID := range ps {
			totals[participantID] = totals[participantID].Add(share)
		}
	}

	for id, total := range totals {
		totals[id] = total.Round(models.MinorUnitPlaces)
	}
	return totals
}

// ItemBreakdowns lists each participant's share of every item they selected,
// ordered by item position. Shares follow the CalculateItemSplits rule.
func ItemBreakdowns(items []models.BillItem, selections []models.ItemSelection) map[string][]models.ItemShare {
	ordered := make([]models.BillItem, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})

	selectors := selectorsByItem(selections)
	breakdown := make(map[string][]models.ItemShare)
	for _, item := range ordered {
		ps := selectors[item.ID]
		if len(ps) == 0 {
			continue
		}
		share := itemShare(item.Amount, len(ps))
		for _, participantID := range ps {
			breakdown[participantID] = append(breakdown[participantID], models.ItemShare{
				ItemID: item.ID,
				Name:   item.Name,
				Amount: share,
			})
		}
	}
	return breakdown
}

func itemShare(amount models.Amount, selectors int) models.Amount {
	return amount.Div(decimal.NewFromInt(int64(selectors))).Truncate(models.MinorUnitPlaces)
}

// selectorsByItem returns the distinct, sorted participant IDs per item.
func selectorsByItem(selections []models.ItemSelection) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, s := range selections {
		if seen[s.ItemID] == nil {
			seen[s.ItemID] = make(map[string]bool)
		}
		seen[s.ItemID][s.ParticipantID] = true
	}

	out := make(map[string][]string, len(seen))
	for itemID, set := range seen {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[itemID] = ids
	}
	return out
}
