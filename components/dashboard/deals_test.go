package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatters(t *testing.T) {
	assert.Equal(t, "$125,000", FormatCurrency(125000))
	assert.Equal(t, "$1,234,568", FormatCurrency(1234567.6))
	assert.Equal(t, "$0", FormatCurrency(0))
	assert.Equal(t, "-$32,000", FormatCurrency(-32000))

	assert.Equal(t, "Nov 5, 2025", FormatDate(time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, FormatDate(time.Time{}))
	assert.Equal(t, "75%", FormatPercent(75))
}

func TestStatusBadges(t *testing.T) {
	require.NoError(t, ValidateStatusStyles())

	assert.Equal(t, Badge{Label: "Won", Variant: "default"}, StatusBadge(DealWon))
	assert.Equal(t, Badge{Label: "Lost", Variant: "destructive"}, StatusBadge(DealLost))
	assert.Equal(t, Badge{Label: "In Progress", Variant: "secondary"}, StatusBadge(DealInProgress))
	assert.Equal(t, Badge{Label: "Pending", Variant: "outline"}, StatusBadge(DealPending))
	assert.Equal(t, Badge{Label: "On hold", Variant: "outline"}, StatusBadge(DealStatus("on-hold")))
}

func TestStaticDealsRepositoryReturnsCopies(t *testing.T) {
	repo := NewStaticDealsRepository(SampleDeals())
	deals, err := repo.ListDeals(context.Background())
	require.NoError(t, err)
	require.Len(t, deals, 5)
	deals[0].Value = 1

	again, err := repo.ListDeals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 125000.0, again[0].Value)
}

func TestDealColumnsCoverEveryField(t *testing.T) {
	keys := []string{}
	for _, col := range DealColumns() {
		keys = append(keys, col.Key)
	}
	assert.Equal(t, []string{ColumnDealName, ColumnCompany, ColumnValue, ColumnStatus, ColumnProbability, ColumnCloseDate}, keys)

	table := NewDealsTable(SampleDeals())
	table.SortBy(ColumnCloseDate, "asc")
	rows := table.Rows()
	assert.Equal(t, "Consulting Services", rows[0].Name)
	assert.Equal(t, "Cloud Migration", rows[len(rows)-1].Name)
}
