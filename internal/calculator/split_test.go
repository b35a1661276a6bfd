package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/copter/internal/models"
)

func amt(s string) models.Amount {
	return decimal.RequireFromString(s)
}

func fixed(amounts []models.Amount) []string {
	out := make([]string, len(amounts))
	for i, a := range amounts {
		out[i] = a.StringFixed(2)
	}
	return out
}

func TestSplitEqual(t *testing.T) {
	tests := []struct {
		name  string
		total string
		n     int
		want  []string
	}{
		{name: "remainder goes to first entry", total: "100.00", n: 3, want: []string{"33.34", "33.33", "33.33"}},
		{name: "even split", total: "90", n: 3, want: []string{"30.00", "30.00", "30.00"}},
		{name: "two cents of remainder", total: "10.00", n: 6, want: []string{"1.67", "1.67", "1.67", "1.67", "1.66", "1.66"}},
		{name: "single person", total: "42.42", n: 1, want: []string{"42.42"}},
		{name: "less than a cent each", total: "0.02", n: 3, want: []string{"0.01", "0.01", "0.00"}},
		{name: "zero people", total: "100", n: 0, want: []string{}},
		{name: "negative people", total: "100", n: -2, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEqual(amt(tt.total), tt.n)
			assert.Equal(t, tt.want, fixed(got))
		})
	}
}

func TestSplitEqual_Conservation(t *testing.T) {
	totals := []string{"0.01", "1.00", "99.99", "100.00", "123.45", "1000.01", "7777.77"}
	for _, total := range totals {
		for n := 1; n <= 13; n++ {
			shares := SplitEqual(amt(total), n)
			require.Len(t, shares, n)

			sum := decimal.Zero
			mean := amt(total).Div(decimal.NewFromInt(int64(n)))
			for _, s := range shares {
				sum = sum.Add(s)
				assert.True(t, s.Sub(mean).Abs().LessThanOrEqual(minorUnit),
					"share %s of %s/%d strays more than a cent from the mean", s, total, n)
			}
			assert.True(t, sum.Equal(amt(total)), "sum %s != total %s for n=%d", sum, total, n)
		}
	}
}

func TestValidateCustomSplit(t *testing.T) {
	tests := []struct {
		name    string
		amounts []string
		total   string
		want    bool
	}{
		{name: "exact", amounts: []string{"60", "40"}, total: "100", want: true},
		{name: "within a cent", amounts: []string{"33.33", "33.33", "33.333"}, total: "100", want: true},
		{name: "short by a cent", amounts: []string{"33.33", "33.33", "33.33"}, total: "100", want: false},
		{name: "over", amounts: []string{"60", "50"}, total: "100", want: false},
		{name: "empty", amounts: nil, total: "0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amounts := make([]models.Amount, len(tt.amounts))
			for i, a := range tt.amounts {
				amounts[i] = amt(a)
			}
			assert.Equal(t, tt.want, ValidateCustomSplit(amounts, amt(tt.total)))
		})
	}
}

func TestCalculateItemSplits(t *testing.T) {
	items := []models.BillItem{
		{ID: "A", Name: "Pizza", Amount: amt("300"), Position: 0},
		{ID: "B", Name: "Beer", Amount: amt("200"), Position: 1},
	}
	selections := []models.ItemSelection{
		{ItemID: "A", ParticipantID: "p1"},
		{ItemID: "A", ParticipantID: "p2"},
		{ItemID: "B", ParticipantID: "p1"},
	}

	t.Run("shared and single items", func(t *testing.T) {
		got := CalculateItemSplits(items, selections)
		require.Len(t, got, 2)
		assert.Equal(t, "350.00", got["p1"].StringFixed(2))
		assert.Equal(t, "150.00", got["p2"].StringFixed(2))
	})

	t.Run("idempotent and order independent", func(t *testing.T) {
		first := CalculateItemSplits(items, selections)
		reversedItems := []models.BillItem{items[1], items[0]}
		reversedSel := []models.ItemSelection{selections[2], selections[1], selections[0]}
		second := CalculateItemSplits(reversedItems, reversedSel)

		require.Len(t, second, len(first))
		for id, a := range first {
			assert.True(t, a.Equal(second[id]), "participant %s: %s != %s", id, a, second[id])
		}
	})

	t.Run("duplicate selections count once", func(t *testing.T) {
		dup := append([]models.ItemSelection{{ItemID: "B", ParticipantID: "p1"}}, selections...)
		got := CalculateItemSplits(items, dup)
		assert.Equal(t, "350.00", got["p1"].StringFixed(2))
	})

	t.Run("unselected item contributes nothing", func(t *testing.T) {
		got := CalculateItemSplits(items, selections[:2])
		assert.Equal(t, "150.00", got["p1"].StringFixed(2))
		assert.Equal(t, "150.00", got["p2"].StringFixed(2))
	})

	t.Run("per item truncation without redistribution", func(t *testing.T) {
		odd := []models.BillItem{{ID: "C", Name: "Cake", Amount: amt("10.00")}}
		sel := []models.ItemSelection{
			{ItemID: "C", ParticipantID: "p1"},
			{ItemID: "C", ParticipantID: "p2"},
			{ItemID: "C", ParticipantID: "p3"},
		}
		got := CalculateItemSplits(odd, sel)
		for _, id := range []string{"p1", "p2", "p3"} {
			assert.Equal(t, "3.33", got[id].StringFixed(2))
		}
	})

	t.Run("no selections", func(t *testing.T) {
		assert.Empty(t, CalculateItemSplits(items, nil))
	})
}

func TestItemBreakdowns(t *testing.T) {
	items := []models.BillItem{
		{ID: "B", Name: "Beer", Amount: amt("200"), Position: 1},
		{ID: "A", Name: "Pizza", Amount: amt("300"), Position: 0},
	}
	selections := []models.ItemSelection{
		{ItemID: "A", ParticipantID: "p1"},
		{ItemID: "A", ParticipantID: "p2"},
		{ItemID: "B", ParticipantID: "p1"},
	}

	got := ItemBreakdowns(items, selections)

	require.Len(t, got["p1"], 2)
	assert.Equal(t, "Pizza", got["p1"][0].Name)
	assert.Equal(t, "150.00", got["p1"][0].Amount.StringFixed(2))
	assert.Equal(t, "Beer", got["p1"][1].Name)
	assert.Equal(t, "200.00", got["p1"][1].Amount.StringFixed(2))

	require.Len(t, got["p2"], 1)
	assert.Equal(t, "A", got["p2"][0].ItemID)
}
