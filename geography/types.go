package geography

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// BadRowPolicy decides what happens to input rows that cannot be parsed.
type BadRowPolicy string

const (
	// BadRowsSkip drops malformed rows and counts them in LoadStats.
	BadRowsSkip BadRowPolicy = "skip"
	// BadRowsError fails the load on the first malformed row.
	BadRowsError BadRowPolicy = "error"
)

// SortKey selects the presentation order of a comparison table.
type SortKey string

const (
	SortLocation SortKey = "location"
	SortTotal    SortKey = "total"
	SortDiff     SortKey = "diff"
)

const (
	defaultSeparator    = ";"
	defaultEncoding     = "utf-8"
	defaultLocationHint = "location"
	defaultLabelA       = "candidate_a"
	defaultLabelB       = "candidate_b"
	defaultOutputDir    = "csv"
)

// DefaultNullValues mirrors the NA tokens recognised by pandas.read_csv, so
// files prepared for pandas load the same missing values here.
func DefaultNullValues() []string {
	return []string{
		"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
		"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
		"n/a", "nan", "null",
	}
}

// CandidateConfig names one input dataset.
type CandidateConfig struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}

// OutputConfig controls where and how the comparison table is written.
type OutputConfig struct {
	Path      string  `json:"path" yaml:"path"`
	Dir       string  `json:"dir" yaml:"dir"`
	Separator string  `json:"separator" yaml:"separator"`
	Sort      SortKey `json:"sort" yaml:"sort"`
}

// Config aggregates runtime settings persisted to config.json (or config.yaml).
type Config struct {
	Separator      string          `json:"separator" yaml:"separator"`
	Encoding       string          `json:"encoding" yaml:"encoding"`
	NullValues     []string        `json:"nullValues" yaml:"nullValues"`
	OnBadRows      BadRowPolicy    `json:"onBadRows" yaml:"onBadRows"`
	LocationHint   string          `json:"locationHint" yaml:"locationHint"`
	LocationColumn string          `json:"locationColumn" yaml:"locationColumn"`
	CandidateA     CandidateConfig `json:"candidateA" yaml:"candidateA"`
	CandidateB     CandidateConfig `json:"candidateB" yaml:"candidateB"`
	Output         OutputConfig    `json:"output" yaml:"output"`
	Parallel       *bool           `json:"parallel,omitempty" yaml:"parallel,omitempty"`
}

// Clone creates a deep copy of the configuration so callers can mutate safely.
func (c Config) Clone() Config {
	buf, _ := json.Marshal(c)
	var out Config
	_ = json.Unmarshal(buf, &out)
	return out
}

// ApplyDefaults populates zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Separator == "" {
		c.Separator = defaultSeparator
	}
	if strings.TrimSpace(c.Encoding) == "" {
		c.Encoding = defaultEncoding
	}
	if c.NullValues == nil {
		c.NullValues = DefaultNullValues()
	}
	switch c.OnBadRows {
	case BadRowsSkip, BadRowsError:
	default:
		c.OnBadRows = BadRowsSkip
	}
	if strings.TrimSpace(c.LocationHint) == "" {
		c.LocationHint = defaultLocationHint
	}
	if strings.TrimSpace(c.CandidateA.Label) == "" {
		c.CandidateA.Label = defaultLabelA
	}
	if strings.TrimSpace(c.CandidateB.Label) == "" {
		c.CandidateB.Label = defaultLabelB
	}
	if c.Output.Dir == "" {
		c.Output.Dir = defaultOutputDir
	}
	if c.Output.Separator == "" {
		c.Output.Separator = c.Separator
	}
	switch c.Output.Sort {
	case SortLocation, SortTotal, SortDiff:
	default:
		c.Output.Sort = SortLocation
	}
	if c.Parallel == nil {
		parallel := true
		c.Parallel = &parallel
	}
}

// RunParallel reports whether both datasets should be loaded concurrently.
func (c Config) RunParallel() bool {
	return c.Parallel == nil || *c.Parallel
}

// LoadOptions derives the loader settings from the configuration.
func (c Config) LoadOptions() LoadOptions {
	return LoadOptions{
		Separator:  separatorRune(c.Separator),
		Encoding:   c.Encoding,
		NullValues: c.NullValues,
		OnBadRows:  c.OnBadRows,
	}
}

// WriteOptions derives the table writer settings from the configuration.
func (c Config) WriteOptions() WriteOptions {
	sep := c.Output.Separator
	if sep == "" {
		sep = c.Separator
	}
	return WriteOptions{
		Separator: separatorRune(sep),
		Encoding:  c.Encoding,
	}
}

// separatorRune accepts a single character or the escape `\t`.
func separatorRune(s string) rune {
	if s == `\t` || strings.EqualFold(s, "tab") {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return ';'
	}
	return r
}
