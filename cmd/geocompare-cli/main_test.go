package main

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yashubustudio/geocompare/geography"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("geocompare-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags(newFlagSet(), []string{
		"-a", " biden.csv ", "-b", "trump.csv", "-label-a", "biden", "-sort", "total", "-sequential",
	})
	require.NoError(t, err)
	assert.Equal(t, "biden.csv", opts.pathA)
	assert.Equal(t, "trump.csv", opts.pathB)
	assert.Equal(t, "biden", opts.labelA)
	assert.Equal(t, "total", opts.sortBy)
	assert.True(t, opts.sequential)
}

func TestParseFlagsRejectsUnknownValues(t *testing.T) {
	_, err := parseFlags(newFlagSet(), []string{"-sort", "random"})
	assert.Error(t, err)

	_, err = parseFlags(newFlagSet(), []string{"-on-bad-rows", "warn"})
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	var cfg geography.Config
	cfg.ApplyDefaults()
	cfg = applyFlags(cfg, cliOptions{
		pathA:      "a.csv",
		labelB:     "trump",
		separator:  ",",
		column:     "place",
		onBadRows:  "error",
		sortBy:     "diff",
		sequential: true,
	})
	assert.Equal(t, "a.csv", cfg.CandidateA.Path)
	assert.Equal(t, "candidate_a", cfg.CandidateA.Label)
	assert.Equal(t, "trump", cfg.CandidateB.Label)
	assert.Equal(t, ",", cfg.Separator)
	assert.Equal(t, ",", cfg.Output.Separator)
	assert.Equal(t, "place", cfg.LocationColumn)
	assert.Equal(t, geography.BadRowsError, cfg.OnBadRows)
	assert.Equal(t, geography.SortDiff, cfg.Output.Sort)
	assert.False(t, cfg.RunParallel())
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "biden.csv")
	pathB := filepath.Join(dir, "trump.csv")
	require.NoError(t, os.WriteFile(pathA, []byte("id;user_location\n1;New York\n2;new york!\n3;Austin, TX\n"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("id;user_location\n1;Austin TX\n2;Miami\n"), 0o644))
	output := filepath.Join(dir, "out", "comparison.csv")

	var stdout bytes.Buffer
	err := run(cliOptions{
		configPath: filepath.Join(dir, "config.json"),
		pathA:      pathA,
		pathB:      pathB,
		labelA:     "biden",
		labelB:     "trump",
		outputPath: output,
		sortBy:     "total",
		stdout:     true,
		quiet:      true,
	}, &stdout)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "location;biden;trump;diff;total\n"+
		"austin tx;1;1;0;2\n"+
		"new york;2;0;2;2\n"+
		"miami;0;1;-1;1\n", string(data))
	assert.Contains(t, stdout.String(), "Comparison saved to "+output)
	assert.Contains(t, stdout.String(), "==== Comparison preview ====")
	assert.Contains(t, stdout.String(), "new york")
}

func TestRunMissingLocationColumn(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a.csv")
	pathB := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(pathA, []byte("id;location\n1;Rome\n"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("id;text\n1;hi\n"), 0o644))

	err := run(cliOptions{
		configPath: filepath.Join(dir, "config.json"),
		pathA:      pathA,
		pathB:      pathB,
		outputDir:  filepath.Join(dir, "csv"),
		quiet:      true,
	}, io.Discard)
	require.ErrorIs(t, err, geography.ErrNoLocationColumn)
	assert.True(t, strings.Contains(err.Error(), "-column"))

	_, statErr := os.Stat(filepath.Join(dir, "csv"))
	assert.ErrorIs(t, statErr, os.ErrNotExist)
}

func TestRunRequiresInputs(t *testing.T) {
	err := run(cliOptions{configPath: filepath.Join(t.TempDir(), "config.json"), quiet: true}, io.Discard)
	assert.Error(t, err)
}

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()
	path, err := resolveOutputPath("", dir)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), "comparison_"))
	assert.Equal(t, ".csv", filepath.Ext(path))

	explicit := filepath.Join(dir, "x.csv")
	path, err = resolveOutputPath(explicit, "ignored")
	require.NoError(t, err)
	assert.Equal(t, explicit, path)
}

func TestPrintSummary(t *testing.T) {
	table := geography.Compare(geography.Distribution{"a": 1, "b": 2, "c": 3}, nil)
	var buf bytes.Buffer
	printSummary(&buf, table, 2)
	out := buf.String()
	assert.Contains(t, out, "candidate_a")
	assert.Contains(t, out, "... 1 more")

	buf.Reset()
	printSummary(&buf, geography.Table{}, 5)
	assert.Contains(t, buf.String(), "no locations found")
}
