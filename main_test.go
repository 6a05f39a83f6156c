package main

import (
	"os"
	"path/filepath"
	"testing"

	"catalog-trends/config"
	"catalog-trends/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringDump = `ASIN: A
  title: Alpha
  group: Book
  salesrank: 10
  similar: 2  B  C

ASIN: B
  title: Beta
  group: Book
  salesrank: 20
  similar: 1  C

ASIN: C
  title: Gamma
  group: Music
  salesrank: abc
  similar: 1  A
`

func testConfig(t *testing.T, dump string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "meta.txt")
	require.NoError(t, os.WriteFile(path, []byte(dump), 0o644))

	return &config.Config{
		DataPath:              path,
		TopProducts:           5,
		ClusterMinSize:        2,
		ClusterSamples:        3,
		ClusterSampleProducts: 3,
		Opportunities:         5,
		MaxOpportunityRank:    100000,
		ReportCSVPath:         filepath.Join(dir, "report.csv"),
		SQLitePath:            filepath.Join(dir, "report.db"),
		DBMaxRetries:          1,
		MetricsTextfile:       filepath.Join(dir, "metrics.prom"),
		LogLevel:              "error",
		LogFormat:             "console",
	}
}

func TestRun(t *testing.T) {
	cfg := testConfig(t, ringDump)

	require.NoError(t, run(cfg))

	for _, p := range []string{cfg.ReportCSVPath, cfg.SQLitePath, cfg.MetricsTextfile} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.NotZero(t, info.Size(), p)
	}

	metrics, err := os.ReadFile(cfg.MetricsTextfile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "catalog_trends_dataset_products 3")
	assert.Contains(t, string(metrics), "catalog_trends_loader_defaulted_ranks_total 1")
}

func TestRunMissingSource(t *testing.T) {
	cfg := testConfig(t, ringDump)
	cfg.DataPath = filepath.Join(t.TempDir(), "missing.txt")

	assert.ErrorIs(t, run(cfg), loader.ErrSourceNotFound)
}

func TestRunEmptyDataset(t *testing.T) {
	cfg := testConfig(t, "")

	assert.ErrorIs(t, run(cfg), loader.ErrEmptyDataset)
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := testConfig(t, ringDump)
	cfg.TopProducts = 0

	assert.Error(t, run(cfg))
}

func TestRootCmdFlagsOverrideConfig(t *testing.T) {
	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--data", "other.txt", "--top", "7"}))

	data, err := cmd.Flags().GetString("data")
	require.NoError(t, err)
	assert.Equal(t, "other.txt", data)

	top, err := cmd.Flags().GetInt("top")
	require.NoError(t, err)
	assert.Equal(t, 7, top)
}
