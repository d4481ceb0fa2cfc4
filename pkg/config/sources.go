package config

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/umputun/newsbrief/pkg/domain"
)

// csv column names, matched case-insensitively
const (
	colName     = "source name"
	colCategory = "category"
	colURL      = "url"
	colType     = "type"
)

// LoadSources reads the feed list from a CSV file with a header row.
// Type column is optional, blank values mean rss. Rows without URL are skipped.
// A missing file is reported with an error wrapping os.ErrNotExist.
func LoadSources(path string) ([]domain.Source, error) {
	fh, err := os.Open(path) //nolint:gosec // path comes from config or CLI
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer fh.Close()

	sources, err := ReadSources(fh)
	if err != nil {
		return nil, fmt.Errorf("read sources from %s: %w", path, err)
	}
	return sources, nil
}

// ReadSources parses CSV feed list from the reader
func ReadSources(r io.Reader) ([]domain.Source, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff") // excel adds BOM
		columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colURL} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing %q column", required)
		}
	}

	field := func(rec []string, col string) string {
		idx, ok := columns[col]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	var res []domain.Source
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		src := domain.Source{
			Name:     field(rec, colName),
			Category: field(rec, colCategory),
			URL:      field(rec, colURL),
			Kind:     domain.ParseKind(field(rec, colType)),
		}
		if src.URL == "" {
			continue
		}
		if src.Name == "" {
			src.Name = src.URL
		}
		res = append(res, src)
	}
	return res, nil
}
