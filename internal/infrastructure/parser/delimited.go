package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"TabularLoader/internal/domain"
	"TabularLoader/internal/table"
)

// absentToken is the literal gota maps to NA for every column type.
const absentToken = "NaN"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse decodes a delimited text resource into a table.
// The first SkipRows physical lines are discarded, the next record is the header,
// and every following record must have exactly as many fields as the header.
func Parse(r io.Reader, name string, opts domain.ParseOptions) (*table.Table, error) {
	if opts.SkipRows < 0 {
		return nil, fmt.Errorf("parse %s: skip rows must be non-negative, got %d", name, opts.SkipRows)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: read input: %v", name, domain.ErrDecode, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("parse %s: %w: input is not valid UTF-8", name, domain.ErrDecode)
	}

	body, err := skipLines(raw, opts.SkipRows)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	records, lines, err := tokenize(body, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse %s: %w: no header line after skipping %d lines", name, domain.ErrDecode, opts.SkipRows)
	}

	header := records[0]
	if err := checkHeader(header); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) == 1 {
		return table.New(name, emptyFrame(header))
	}

	for i, rec := range records[1:] {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("parse %s: %w", name, &domain.RowArityError{
				Line:     lines[i+1] + opts.SkipRows,
				Expected: len(header),
				Got:      len(rec),
			})
		}
	}

	markAbsent(records[1:], newMissingMatcher(opts.MissingValues))

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(absentColumnTypes(header, records[1:])),
	)
	return table.New(name, df)
}

// checkHeader rejects names gota would rewrite, so lookups use the names as written.
func checkHeader(header []string) error {
	seen := make(map[string]int, len(header))
	for i, col := range header {
		if col == "" {
			return fmt.Errorf("%w: column %d has an empty name", domain.ErrDecode, i+1)
		}
		if first, ok := seen[col]; ok {
			return fmt.Errorf("%w: column name %q repeated at columns %d and %d", domain.ErrDecode, col, first+1, i+1)
		}
		seen[col] = i
	}
	return nil
}

// emptyFrame builds a frame with the header's columns and no rows.
func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, col := range header {
		cols[i] = series.New([]string{}, series.String, col)
	}
	return dataframe.New(cols...)
}

// absentColumnTypes types columns with no present values as float; detection
// would otherwise fall back to string.
func absentColumnTypes(header []string, rows [][]string) map[string]series.Type {
	types := make(map[string]series.Type)
	for i, col := range header {
		allAbsent := true
		for _, row := range rows {
			if !isAbsentToken(row[i]) {
				allAbsent = false
				break
			}
		}
		if allAbsent {
			types[col] = series.Float
		}
	}
	return types
}

func isAbsentToken(field string) bool {
	switch field {
	case absentToken, "NA", "<nil>":
		return true
	}
	return false
}

// skipLines drops n newline-terminated lines from the front of raw.
func skipLines(raw []byte, n int) ([]byte, error) {
	rest := raw
	for i := 0; i < n; i++ {
		idx := bytes.IndexByte(rest, '\n')
		if idx < 0 {
			return nil, fmt.Errorf("%w: input ended after %d lines, cannot skip %d", domain.ErrDecode, i, n)
		}
		rest = rest[idx+1:]
	}
	return rest, nil
}

// tokenize splits body into trimmed records and the 1-based line each starts on.
func tokenize(body []byte, opts domain.ParseOptions) ([][]string, []int, error) {
	body = blankComments(body, opts.Comment)
	if opts.Delimiter == domain.DelimiterWhitespace {
		return tokenizeWhitespace(body)
	}

	sep, ok := opts.Delimiter.Rune()
	if !ok {
		return nil, nil, fmt.Errorf("unsupported delimiter %q", opts.Delimiter)
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = sep == ','

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, trimFields(rec))
		lines = append(lines, line)
	}

	return records, lines, nil
}

// blankComments empties comment lines but keeps their terminators so line numbers hold.
func blankComments(body []byte, comment rune) []byte {
	if comment == 0 {
		return body
	}

	prefix := []byte(string(comment))
	lines := bytes.SplitAfter(body, []byte("\n"))
	for i, line := range lines {
		if !bytes.HasPrefix(bytes.TrimLeft(line, " \t"), prefix) {
			continue
		}
		if bytes.HasSuffix(line, []byte("\n")) {
			lines[i] = []byte("\n")
		} else {
			lines[i] = nil
		}
	}
	return bytes.Join(lines, nil)
}

func tokenizeWhitespace(body []byte) ([][]string, []int, error) {
	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		records [][]string
		lines   []int
		line    int
	)
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		records = append(records, strings.Fields(text))
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrDecode, err)
	}

	return records, lines, nil
}

func trimFields(rec []string) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec
}

// missingMatcher recognises sentinel values textually or, when both sides are
// numbers, by value, so "-99.0" matches a sentinel of "-99".
type missingMatcher struct {
	literals map[string]struct{}
	numbers  []float64
}

func newMissingMatcher(values []string) missingMatcher {
	m := missingMatcher{literals: make(map[string]struct{}, len(values))}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		m.literals[v] = struct{}{}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			m.numbers = append(m.numbers, f)
		}
	}
	return m
}

func (m missingMatcher) match(field string) bool {
	if _, ok := m.literals[field]; ok {
		return true
	}
	if len(m.numbers) == 0 {
		return false
	}
	f, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return false
	}
	for _, n := range m.numbers {
		if f == n {
			return true
		}
	}
	return false
}

func markAbsent(rows [][]string, m missingMatcher) {
	if len(m.literals) == 0 {
		return
	}
	for _, row := range rows {
		for i, field := range row {
			if m.match(field) {
				row[i] = absentToken
			}
		}
	}
}
