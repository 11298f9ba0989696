// Package csvstream reads CSV files lazily, one row at a time.
package csvstream

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/kurochkinivan/bulk_uploader/internal/domain"
)

const bom = "\uFEFF"

var ErrMalformedRow = errors.New("malformed row")

type Reader struct {
	log   *slog.Logger
	comma rune
}

func NewReader(log *slog.Logger, comma rune) *Reader {
	if comma == 0 {
		comma = ','
	}

	return &Reader{
		log:   log,
		comma: comma,
	}
}

// Rows returns a single-use sequence over the data rows of the file at path.
// Rows with a wrong number of cells are yielded with Row.Err set; any other
// read or parse error is yielded once and ends the sequence.
func (r *Reader) Rows(ctx context.Context, path string) iter.Seq2[*domain.Row, error] {
	return func(yield func(*domain.Row, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(nil, fmt.Errorf("failed to open %q: %w", path, err))
			return
		}
		defer f.Close()

		dec, err := r.newDecoder(f)
		if errors.Is(err, io.EOF) {
			r.log.DebugContext(ctx, "source file is empty", slog.String("path", path))
			return
		}
		if err != nil {
			yield(nil, fmt.Errorf("failed to create decoder: %w", err))
			return
		}

		header := cleanHeader(dec.Header())

		for n := 1; ; n++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			row, err := decodeRow(dec, header, n)
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("failed to decode row %d: %w", n, err))
				return
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

// Count makes a full pass over the file and returns the number of data rows.
func (r *Reader) Count(ctx context.Context, path string) (int, error) {
	var count int

	for _, err := range r.Rows(ctx, path) {
		if err != nil {
			return 0, err
		}
		count++
	}

	r.log.DebugContext(ctx, "counted rows", slog.String("path", path), slog.Int("rows", count))

	return count, nil
}

func (r *Reader) newDecoder(src io.Reader) (*csvutil.Decoder, error) {
	reader := csv.NewReader(src)
	reader.Comma = r.comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	return csvutil.NewDecoder(reader)
}

func decodeRow(dec *csvutil.Decoder, header []string, n int) (*domain.Row, error) {
	// No columns are bound, every cell ends up in dec.Record().
	var discard struct{}

	err := dec.Decode(&discard)
	if errors.Is(err, csvutil.ErrFieldCount) || errors.Is(err, csv.ErrFieldCount) {
		return &domain.Row{
			Number: n,
			Err:    fmt.Errorf("%w: expected %d fields", ErrMalformedRow, len(header)),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	record := dec.Record()
	if len(record) != len(header) {
		return &domain.Row{
			Number: n,
			Err:    fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRow, len(header), len(record)),
		}, nil
	}

	fields := make(domain.Fields, len(header))
	for i, name := range header {
		fields[i] = domain.Field{Name: name, Value: domain.ParseValue(strings.TrimSpace(record[i]))}
	}

	return &domain.Row{Number: n, Fields: fields}, nil
}

// cleanHeader trims header cells and makes every name unique: empty names
// become column_N and repeats get a _N suffix, N being the 1-based position.
func cleanHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}

		h = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
		if h == "" {
			h = "column_" + strconv.Itoa(i+1)
		}

		for name := h; ; name += "_" + strconv.Itoa(i+1) {
			if _, dup := seen[name]; !dup {
				h = name
				break
			}
		}

		seen[h] = struct{}{}
		header[i] = h
	}

	return header
}
