package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salesmerge/internal/config"
	"salesmerge/internal/pipeline"
	"salesmerge/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig builds a configuration rooted at a temp directory and writes
// the given source files into it.
func testConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(content), 0o644))
	}

	cfg := config.Default()
	cfg.RootDir = root
	cfg.AnalysisDir = filepath.Join(root, "analysis")
	cfg.SalesFile = "sales.csv"
	cfg.WeatherFile = "weather.csv"
	cfg.EventFile = "events.csv"
	cfg.ContinuationFile = "continuation.csv"
	cfg.SchoolHolidayFile = "school.csv"
	cfg.PublicHolidayFile = "public.csv"
	return cfg
}

func readOutput(t *testing.T, path string) *table.Table {
	t.Helper()
	out, err := table.ReadCSVFile(path)
	require.NoError(t, err)
	return out
}

func TestRunMergesSalesWeatherAndEvents(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv": "Datum,Produkt_ID,Warengruppe,Umsatz\n" +
			"2019-01-01,A,1,\"5,0\"\n" +
			"2019-01-02,B,2,7.25\n",
		// The duplicate weather date must not multiply sales rows.
		"weather.csv": "date,Temperatur,Bewoelkung\n" +
			"2019-01-01,3.2,6.4\n" +
			"2019-01-01,99.9,1.0\n",
		"events.csv": "date,KielerWoche\n2019-01-02,1\n",
	})

	result, err := pipeline.New(cfg, nil).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, result.SalesRows)
	assert.Equal(t, 2, result.OutputRows)

	out := readOutput(t, result.OutputPath)
	// Holiday inputs are absent, so holiday columns are omitted entirely.
	assert.Equal(t,
		[]string{"date", "warengruppe", "id", "umsatz", "Bewoelkung", "Temperatur", "KielerWoche"},
		out.Headers)
	require.Equal(t, 2, out.RowCount())

	first := out.Rows[0]
	assert.Equal(t, "2019-01-01", first[0].String())
	assert.Equal(t, "A", first[2].String())
	assert.Equal(t, 5.0, first[3].Float)
	assert.Equal(t, 3.2, first[5].Float, "first weather row per date wins")
	assert.Equal(t, int64(6), first[4].Int, "cloud cover rounds to integer")
	assert.True(t, first[6].IsMissing(), "no event on this date")

	second := out.Rows[1]
	assert.Equal(t, 7.25, second[3].Float)
	assert.True(t, second[4].IsMissing(), "no weather match keeps sales row")
	assert.Equal(t, int64(1), second[6].Int)
}

func TestRunMergesHolidayCalendars(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv": "date,id,Warengruppe,Umsatz\n" +
			"2019-01-01,A,1,\"5,0\"\n" +
			"2019-01-02,B,1,6\n",
		"weather.csv": "date,Temperatur\n2019-01-01,3.2\n",
		"events.csv":  "date,KielerWoche\n2019-06-22,1\n",
		"school.csv":  "Datum,Name\n2019-01-02,Winterferien\n",
		"public.csv":  "date,is_holiday\n2019-01-01,1\n",
	})

	result, err := pipeline.New(cfg, nil).Run()
	require.NoError(t, err)

	out := readOutput(t, result.OutputPath)
	school := out.ColumnIndex("school_holiday")
	public := out.ColumnIndex("public_holiday")
	require.GreaterOrEqual(t, school, 0)
	require.GreaterOrEqual(t, public, 0)

	// 2019-01-01: public holiday, no school holiday; flags default to 0.
	assert.Equal(t, int64(0), out.Rows[0][school].Int)
	assert.Equal(t, int64(1), out.Rows[0][public].Int)

	// 2019-01-02: school holiday row present implies flag 1.
	assert.Equal(t, int64(1), out.Rows[1][school].Int)
	assert.Equal(t, int64(0), out.Rows[1][public].Int)

	// The school calendar's extra column never reaches the output.
	assert.False(t, out.HasColumn("Name"))
}

func TestRunAppendsContinuationFile(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv": "date,id,Warengruppe,Umsatz\n" +
			"2019-01-02,B,1,6\n",
		"continuation.csv": "Datum,ID,Warengruppe,Umsatz,Notiz\n" +
			"2019-01-01,A,2,\"3,5\",ignored\n",
		"weather.csv": "date,Temperatur\n2019-01-01,3.2\n",
		"events.csv":  "date,KielerWoche\n2019-06-22,1\n",
	})

	result, err := pipeline.New(cfg, nil).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, result.SalesRows)

	out := readOutput(t, result.OutputPath)
	require.Equal(t, 2, out.RowCount())

	// The continuation row sorts first by date; its extra column is gone.
	assert.Equal(t, "2019-01-01", out.Rows[0][0].String())
	assert.Equal(t, "A", out.Rows[0][out.ColumnIndex("id")].String())
	assert.Equal(t, 3.5, out.Rows[0][out.ColumnIndex("umsatz")].Float)
	assert.False(t, out.HasColumn("Notiz"))
}

func TestRunWritesMissingToken(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv":   "date,id,Warengruppe,Umsatz\n2019-01-03,C,1,oops\n",
		"weather.csv": "date,Temperatur\n2019-01-01,3.2\n",
		"events.csv":  "date,KielerWoche\n2019-06-22,1\n",
	})

	result, err := pipeline.New(cfg, nil).Run()
	require.NoError(t, err)

	raw, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,warengruppe,id,umsatz,Temperatur,KielerWoche", lines[0])
	assert.Equal(t, "2019-01-03,1,C,NaN,NaN,NaN", lines[1],
		"unparseable revenue and unmatched auxiliary cells render as the missing token")
}

func TestRunFailsWhenRequiredSourceMissing(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv": "date,id,Warengruppe,Umsatz\n2019-01-01,A,1,5\n",
	})

	_, err := pipeline.New(cfg, nil).Run()
	assert.Error(t, err)
}

func TestRunFailsOnMissingDateColumn(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv":   "Tag,id,Warengruppe,Umsatz\n2019-01-01,A,1,5\n",
		"weather.csv": "date,Temperatur\n2019-01-01,3.2\n",
		"events.csv":  "date,KielerWoche\n2019-06-22,1\n",
	})

	_, err := pipeline.New(cfg, nil).Run()
	assert.Error(t, err)
}

func TestRunArchivesInputsWhenConfigured(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"sales.csv":   "date,id,Warengruppe,Umsatz\n2019-01-01,A,1,5\n",
		"weather.csv": "date,Temperatur\n2019-01-01,3.2\n",
		"events.csv":  "date,KielerWoche\n2019-06-22,1\n",
	})
	cfg.ArchiveInputs = true
	cfg.ArchiveDir = filepath.Join(cfg.RootDir, "archive")

	result, err := pipeline.New(cfg, nil).Run()
	require.NoError(t, err)

	assert.Len(t, result.Archived, 3)
	_, err = os.Stat(filepath.Join(cfg.RootDir, "sales.csv"))
	assert.True(t, os.IsNotExist(err), "archived input is moved away")
}
