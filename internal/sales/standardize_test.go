package sales_test

import (
	"testing"
	"time"

	"salesmerge/internal/config"
	"salesmerge/internal/sales"
	"salesmerge/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) table.Cell {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return table.NewDate(t)
}

func defaultKeywords() []config.ColumnKeywords {
	return config.Default().SalesColumnKeywords
}

func TestStandardizeRenamesByKeywordSubstring(t *testing.T) {
	tab := table.New("date", "Produkt_ID", "Warengruppe", "Umsatz")
	tab.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewString("A"), table.NewInt(1), table.NewString("12,50")},
	}

	sales.Standardize(tab, defaultKeywords())

	assert.Equal(t, []string{"date", "id", "warengruppe", "umsatz"}, tab.Headers)
	assert.Equal(t, table.KindFloat, tab.Rows[0][3].Kind)
	assert.Equal(t, 12.50, tab.Rows[0][3].Float)
}

func TestStandardizeRevenueParsingIsIdempotent(t *testing.T) {
	for _, raw := range []string{"12,50", "12.50"} {
		tab := table.New("date", "umsatz")
		tab.Rows = [][]table.Cell{{date("2019-01-01"), table.NewString(raw)}}

		sales.Standardize(tab, defaultKeywords())
		require.Equal(t, 12.50, tab.Rows[0][1].Float, "raw %q", raw)

		// A second pass must not change the value.
		sales.Standardize(tab, defaultKeywords())
		assert.Equal(t, 12.50, tab.Rows[0][1].Float, "raw %q", raw)
	}
}

func TestStandardizeUnparseableRevenueBecomesMissing(t *testing.T) {
	tab := table.New("date", "Umsatz")
	tab.Rows = [][]table.Cell{{date("2019-01-01"), table.NewString("n/a")}}

	sales.Standardize(tab, defaultKeywords())

	assert.True(t, tab.Rows[0][1].IsMissing())
}

func TestStandardizeCreatesAbsentCanonicalColumns(t *testing.T) {
	tab := table.New("date")
	tab.Rows = [][]table.Cell{{date("2019-01-01")}}

	sales.Standardize(tab, defaultKeywords())

	for _, name := range sales.CanonicalColumns {
		require.True(t, tab.HasColumn(name), "missing %s", name)
	}
	assert.True(t, tab.Rows[0][tab.ColumnIndex("id")].IsMissing())
	assert.True(t, tab.Rows[0][tab.ColumnIndex("umsatz")].IsMissing())
}

func TestStandardizeLeavesCanonicalColumnUntouched(t *testing.T) {
	// "OrderID" also contains the "id" keyword, but the literal "id"
	// column wins and no second rename happens.
	tab := table.New("date", "id", "OrderID", "umsatz")
	tab.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewString("A"), table.NewString("O-1"), table.NewFloat(5)},
	}

	sales.Standardize(tab, defaultKeywords())

	assert.Equal(t, []string{"date", "id", "OrderID", "umsatz", "warengruppe"}, tab.Headers)
	assert.Equal(t, "A", tab.Rows[0][1].String())
}

func TestStandardizeIDResolvesBeforeRevenue(t *testing.T) {
	// A header matching the "id" keyword is claimed by the identifier and
	// must never be numeric-coerced as revenue.
	tab := table.New("date", "Kassen_ID", "Tagesumsatz")
	tab.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewString("K-7"), table.NewString("3,5")},
	}

	sales.Standardize(tab, defaultKeywords())

	assert.Equal(t, []string{"date", "id", "umsatz", "warengruppe"}, tab.Headers)
	assert.Equal(t, "K-7", tab.Rows[0][1].String())
	assert.Equal(t, 3.5, tab.Rows[0][2].Float)
}

func TestAppendContinuationSchemaProperty(t *testing.T) {
	primary := table.New("date", "id", "umsatz")
	primary.Rows = [][]table.Cell{
		{date("2019-01-02"), table.NewString("B"), table.NewFloat(7)},
	}

	continuation := table.New("date", "warengruppe", "extra")
	continuation.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewInt(3), table.NewString("dropped")},
	}

	combined, err := sales.AppendContinuation(primary, continuation)
	require.NoError(t, err)

	// Exactly the four canonical columns, padded with missing, extras gone.
	assert.Equal(t, sales.CanonicalColumns, combined.Headers)
	require.Equal(t, 2, combined.RowCount())

	// Re-sorted ascending by date, so the continuation row comes first.
	assert.Equal(t, "2019-01-01", combined.Rows[0][0].String())
	assert.True(t, combined.Rows[0][1].IsMissing(), "continuation has no id")
	assert.Equal(t, int64(3), combined.Rows[0][2].Int)
	assert.True(t, combined.Rows[0][3].IsMissing(), "continuation has no umsatz")
	assert.True(t, combined.Rows[1][2].IsMissing(), "primary has no warengruppe")
}

func TestAppendContinuationSortsByDateThenIDAsText(t *testing.T) {
	primary := table.New("date", "id", "warengruppe", "umsatz")
	primary.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewInt(15), table.NewInt(1), table.NewFloat(1)},
		{table.Missing(), table.NewInt(1), table.NewInt(1), table.NewFloat(2)},
	}

	continuation := table.New("date", "id", "warengruppe", "umsatz")
	continuation.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewInt(100), table.NewInt(1), table.NewFloat(3)},
	}

	combined, err := sales.AppendContinuation(primary, continuation)
	require.NoError(t, err)

	// "100" sorts before "15" as text; the missing date sorts last.
	assert.Equal(t, int64(100), combined.Rows[0][1].Int)
	assert.Equal(t, int64(15), combined.Rows[1][1].Int)
	assert.True(t, combined.Rows[2][0].IsMissing())
}

func TestAppendContinuationNormalizesEmptyStrings(t *testing.T) {
	primary := table.New("date", "id", "warengruppe", "umsatz")
	primary.Rows = [][]table.Cell{
		{date("2019-01-01"), table.NewString(""), table.NewInt(1), table.NewFloat(1)},
	}
	continuation := table.New("date", "id", "warengruppe", "umsatz")

	combined, err := sales.AppendContinuation(primary, continuation)
	require.NoError(t, err)

	assert.True(t, combined.Rows[0][1].IsMissing())
}
