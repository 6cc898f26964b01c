package decode

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/forestwatch-org/forestwatch/ingest"
)

// ============================================================================
// FILE DECODERS — Uploaded Bytes → RawRows
// ============================================================================
// The ingestion core only ever sees a sequence of loosely-typed RawRows;
// this package owns everything byte-level: format detection, delimited-text
// tokenization, spreadsheet binary decoding (excelize), and JSON parsing.
// Malformed rows are skipped, not fatal. Only an unrecognized format is an
// error, raised before any core logic runs.
// ============================================================================

// ErrUnsupportedFormat signals a file that is neither CSV, XLSX, nor JSON.
// User-correctable: surfaced verbatim to the uploader.
var ErrUnsupportedFormat = errors.New("unsupported file format: upload a CSV, XLSX, or JSON file")

// Format identifies a supported file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatXLSX    Format = "xlsx"
	FormatJSON    Format = "json"
	FormatUnknown Format = "unknown"
)

// xlsxMagic is the ZIP local-file-header signature XLSX workbooks start with.
var xlsxMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Detect identifies the file format from the filename extension, falling
// back to content sniffing when the extension is missing or unknown.
func Detect(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".tsv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	case ".json":
		return FormatJSON
	}

	if bytes.HasPrefix(data, xlsxMagic) {
		return FormatXLSX
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return FormatJSON
	}
	if line, _, _ := bytes.Cut(trimmed, []byte("\n")); bytes.ContainsAny(line, ",;\t") {
		return FormatCSV
	}
	return FormatUnknown
}

// Rows detects the format and decodes the file into raw rows.
func Rows(filename string, data []byte) ([]ingest.RawRow, error) {
	switch Detect(filename, data) {
	case FormatCSV:
		return CSV(data)
	case FormatXLSX:
		return XLSX(data)
	case FormatJSON:
		return JSON(data)
	default:
		return nil, fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filename)
	}
}

// ============================================================================
// CSV
// ============================================================================

// CSV decodes delimited text. The first row is the header; malformed data
// rows are skipped.
func CSV(data []byte) ([]ingest.RawRow, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	var rows []ingest.RawRow
	for {
		cells, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip malformed rows
		}
		rows = append(rows, rowFromCells(headers, cells))
	}
	return rows, nil
}

// ============================================================================
// XLSX
// ============================================================================

// XLSX decodes the first sheet of a workbook. The first row is the header.
func XLSX(data []byte) ([]ingest.RawRow, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	sheetRows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(sheetRows) == 0 {
		return nil, nil
	}

	headers := sheetRows[0]
	rows := make([]ingest.RawRow, 0, len(sheetRows)-1)
	for _, cells := range sheetRows[1:] {
		rows = append(rows, rowFromCells(headers, cells))
	}
	return rows, nil
}

// rowFromCells zips a header row with one data row. Short data rows leave
// trailing columns empty; extra cells without a header are dropped.
func rowFromCells(headers, cells []string) ingest.RawRow {
	row := ingest.NewRawRow()
	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			continue
		}
		value := ""
		if i < len(cells) {
			value = strings.TrimSpace(cells[i])
		}
		row.Set(header, value)
	}
	return row
}

// ============================================================================
// JSON
// ============================================================================

// JSON decodes a top-level array of flat row objects. Keys are kept in
// document order via token-level decoding — unmarshalling into a map would
// scramble the column order the ingestion heuristics depend on. Nested
// values are not tabular data and are dropped.
func JSON(data []byte) ([]ingest.RawRow, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("expected a JSON array of row objects")
	}

	var rows []ingest.RawRow
	for dec.More() {
		row, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse JSON row %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeObject(dec *json.Decoder) (ingest.RawRow, error) {
	row := ingest.NewRawRow()

	tok, err := dec.Token()
	if err != nil {
		return row, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return row, fmt.Errorf("expected an object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return row, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return row, fmt.Errorf("expected an object key, got %v", keyTok)
		}

		value, scalar, err := decodeValue(dec)
		if err != nil {
			return row, err
		}
		if scalar {
			row.Set(key, value)
		}
	}

	if _, err := dec.Token(); err != nil { // closing '}'
		return row, err
	}
	return row, nil
}

// decodeValue reads one value. Scalars are returned as string/float64/bool/
// nil; nested arrays and objects are consumed and reported as non-scalar.
func decodeValue(dec *json.Decoder) (any, bool, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, false, err
	}

	switch t := tok.(type) {
	case json.Delim:
		return nil, false, skipNested(dec)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true, nil
		}
		return t.String(), true, nil
	default:
		return tok, true, nil // string, bool, or nil
	}
}

// skipNested consumes tokens until the already-opened array/object closes.
func skipNested(dec *json.Decoder) error {
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		if delim, ok := tok.(json.Delim); ok {
			switch delim {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
