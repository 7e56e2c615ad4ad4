package fetcher

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/worldcup-etl/internal/model"
)

// CSVOptions configures the streaming CSV parser.
type CSVOptions struct {
	Delimiter  rune            // default ','
	HasHeader  bool            // if true, first row is skipped but sent to HeaderCh
	HeaderCh   chan<- []string // optional: receives the header row
	Comment    rune            // comment character (0 = none)
	LazyQuotes bool
	TrimSpace  bool
}

// StreamCSV reads a CSV file and sends rows to a channel.
// Caller must consume the returned row channel. Errors are sent on the error channel.
// Both channels are closed when processing completes.
func StreamCSV(ctx context.Context, r io.Reader, opts CSVOptions) (<-chan []string, <-chan error) {
	rowCh := make(chan []string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer close(rowCh)
		defer close(errCh)

		reader := csv.NewReader(r)
		if opts.Delimiter != 0 {
			reader.Comma = opts.Delimiter
		}
		if opts.Comment != 0 {
			reader.Comment = opts.Comment
		}
		reader.LazyQuotes = opts.LazyQuotes
		reader.FieldsPerRecord = -1 // allow variable fields

		first := true
		for {
			if ctx.Err() != nil {
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}

			record, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				errCh <- eris.Wrap(err, "csv: read row")
				return
			}

			if opts.TrimSpace {
				for i, field := range record {
					record[i] = strings.TrimSpace(field)
				}
			}

			if first && opts.HasHeader {
				first = false
				if opts.HeaderCh != nil {
					select {
					case opts.HeaderCh <- record:
					case <-ctx.Done():
						errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled sending header")
						return
					}
				}
				continue
			}
			first = false

			select {
			case rowCh <- record:
			case <-ctx.Done():
				errCh <- eris.Wrap(ctx.Err(), "csv: context cancelled")
				return
			}
		}
	}()

	return rowCh, errCh
}

// TableOptions configures ReadTable.
type TableOptions struct {
	// Delimiters are tried in order; the first one that splits the header
	// into more than one column wins. Default ",".
	Delimiters []rune
	// Encoding forces the text encoding; empty means detect.
	Encoding string
	// CleanCell rewrites every data cell after parsing.
	CleanCell func(string) string
}

// ReadTable decodes and parses a delimited file into a Table with trimmed
// headers. Quoting is lenient and fully blank rows are dropped.
func ReadTable(ctx context.Context, data []byte, opts TableOptions) (*model.Table, error) {
	text, enc, err := DecodeText(data, opts.Encoding)
	if err != nil {
		return nil, err
	}

	delims := opts.Delimiters
	if len(delims) == 0 {
		delims = []rune{','}
	}

	var rows [][]string
	var used rune
	for i, d := range delims {
		rows, err = readAllCSV(ctx, text, d)
		if err != nil && i == len(delims)-1 {
			return nil, err
		}
		used = d
		if err == nil && len(rows) > 0 && len(rows[0]) > 1 {
			break
		}
	}

	tbl := buildTable(rows)
	if opts.CleanCell != nil {
		for _, row := range tbl.Rows {
			for i := range row {
				row[i] = opts.CleanCell(row[i])
			}
		}
	}
	zap.L().Debug("csv: table read",
		zap.String("encoding", enc),
		zap.String("delimiter", string(used)),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", tbl.Len()),
	)
	return tbl, nil
}

func readAllCSV(ctx context.Context, text string, delim rune) ([][]string, error) {
	rowCh, errCh := StreamCSV(ctx, strings.NewReader(text), CSVOptions{
		Delimiter:  delim,
		LazyQuotes: true,
	})

	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return rows, nil
}
