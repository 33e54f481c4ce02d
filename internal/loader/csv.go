package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool { return hasExt(path, ".csv", ".tsv") }

func (csvLoader) Load(path string, opt Options) ([]string, [][]string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadCSV(f, delim, opt.MaxRows)
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads a header and records from r. Short records are padded to the
// header width by the table; rows past maxRows are counted but not kept.
// An empty input yields no header and no error.
func ReadCSV(r io.Reader, delim rune, maxRows int) ([]string, [][]string, int, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	cr := csv.NewReader(br)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if delim != 0 {
		cr.Comma = delim
	}

	rec, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, 0, nil
		}
		return nil, nil, 0, fmt.Errorf("read header: %w", err)
	}
	header := append([]string(nil), rec...)

	var records [][]string
	total := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, 0, fmt.Errorf("read row %d: %w", total+1, err)
		}
		total++
		if maxRows > 0 && len(records) >= maxRows {
			continue
		}
		records = append(records, append([]string(nil), rec...))
	}
	return header, records, total, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ParseDelimiter converts a configured delimiter name to a rune. Empty means
// auto-detect.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case "tab", `\t`, "\t":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	}
	rs := []rune(s)
	if len(rs) != 1 || rs[0] == '"' || rs[0] == '\r' || rs[0] == '\n' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return rs[0], nil
}
