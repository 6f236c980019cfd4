package geography

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LoadOptions controls how a delimited input file is parsed.
type LoadOptions struct {
	Separator  rune
	Encoding   string
	NullValues []string
	OnBadRows  BadRowPolicy
}

// LoadStats reports what happened while loading a dataset.
type LoadStats struct {
	Rows    int
	Skipped int
}

// WriteOptions controls how a comparison table is serialized.
type WriteOptions struct {
	Separator rune
	Encoding  string
}

// DefaultLoadOptions returns the loader defaults: ';' separator, UTF-8,
// pandas NA tokens and silently skipped bad rows.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Separator:  ';',
		Encoding:   defaultEncoding,
		NullValues: DefaultNullValues(),
		OnBadRows:  BadRowsSkip,
	}
}

// LoadDataset opens path and parses it with ReadDataset.
func LoadDataset(path string, opts LoadOptions) (*Dataset, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()
	ds, stats, err := ReadDataset(f, opts)
	if err != nil {
		return nil, stats, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return ds, stats, nil
}

// ReadDataset parses delimited text with a header row. All fields are kept
// as text. Rows whose field count differs from the header, or that fail to
// parse, are skipped and counted unless opts.OnBadRows is BadRowsError.
func ReadDataset(r io.Reader, opts LoadOptions) (*Dataset, LoadStats, error) {
	var stats LoadStats
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	if opts.OnBadRows == "" {
		opts.OnBadRows = BadRowsSkip
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, stats, err
	}
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())))
	reader.Comma = opts.Separator
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, ErrEmptyDataset
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	for i, cell := range header {
		header[i] = cleanHeader(cell)
	}
	nulls := make(map[string]struct{}, len(opts.NullValues))
	for _, v := range opts.NullValues {
		nulls[v] = struct{}{}
	}

	var rows [][]RawValue
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err == nil && len(record) != len(header) {
			line, _ := reader.FieldPos(0)
			err = &csv.ParseError{StartLine: line, Line: line, Err: csv.ErrFieldCount}
		}
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, stats, fmt.Errorf("read row: %w", err)
			}
			if opts.OnBadRows == BadRowsError {
				return nil, stats, fmt.Errorf("bad row: %w", err)
			}
			stats.Skipped++
			continue
		}
		row := make([]RawValue, len(record))
		for i, cell := range record {
			if _, isNull := nulls[cell]; isNull {
				continue
			}
			row[i] = Text(cell)
		}
		rows = append(rows, row)
	}
	ds, err := NewDataset(header, rows)
	if err != nil {
		return nil, stats, err
	}
	stats.Rows = ds.Len()
	return ds, stats, nil
}

// WriteTable writes the comparison table, header first, as delimited text.
func WriteTable(w io.Writer, t Table, opts WriteOptions) error {
	if opts.Separator == 0 {
		opts.Separator = ';'
	}
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return err
	}
	frame := t.DataFrame()
	if frame.Err != nil {
		return fmt.Errorf("build table: %w", frame.Err)
	}
	encoded := transform.NewWriter(w, enc.NewEncoder())
	writer := csv.NewWriter(encoded)
	writer.Comma = opts.Separator
	if err := writer.WriteAll(frame.Records()); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if err := encoded.Close(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}
	return nil
}

// SaveTable writes the table to path via a temporary file and rename.
func SaveTable(path string, t Table, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteTable(&buf, t, opts); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func lookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultEncoding
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

func cleanHeader(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	v = strings.TrimSpace(v)
	return norm.NFKC.String(v)
}
