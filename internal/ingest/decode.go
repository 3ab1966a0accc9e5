// Package ingest decodes uploaded lead files and exposes them as
// store.LeadSource implementations backed by the local disk or S3.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path"
	"strconv"
	"strings"

	"github.com/alfredjeanlab/leadcommander/internal/model"
)

// Format identifies a lead file encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
)

// ErrMissingColumns is returned when a CSV header has neither a name nor a
// company column.
var ErrMissingColumns = errors.New("CSV must contain a 'name' or 'company' column")

// FormatFromName picks a format from a file name or object key extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	}
	return "", fmt.Errorf("unsupported lead file %q: want .csv, .json or .jsonl", name)
}

// FormatFromContentType maps an HTTP Content-Type to a format. Anything
// unrecognized is treated as a JSON array.
func FormatFromContentType(ct string) Format {
	ct = strings.ToLower(strings.TrimSpace(strings.SplitN(ct, ";", 2)[0]))
	switch ct {
	case "text/csv", "application/csv":
		return FormatCSV
	case "application/x-ndjson", "application/jsonl":
		return FormatJSONL
	}
	return FormatJSON
}

// Decode reads a lead collection in the given format.
func Decode(r io.Reader, f Format) ([]model.Lead, error) {
	switch f {
	case FormatCSV:
		return DecodeCSV(r)
	case FormatJSON:
		return DecodeJSON(r)
	case FormatJSONL:
		return DecodeJSONL(r)
	}
	return nil, fmt.Errorf("unknown lead format %q", f)
}

// DecodeCSV reads leads from CSV. The first row is the header and must
// include a name or company column (case-insensitive). Cells are typed the
// way a spreadsheet import would: integers, floats and true/false become
// numbers and booleans, empty cells leave the field absent and everything
// else stays a string. Rows without an id get their zero-based row index.
func DecodeCSV(r io.Reader) ([]model.Lead, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingColumns
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if !hasColumn(header, model.FieldName) && !hasColumn(header, model.FieldCompany) {
		return nil, ErrMissingColumns
	}

	leads := []model.Lead{}
	for row := 0; ; row++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row, err)
		}
		l := make(model.Lead, len(header))
		for i, h := range header {
			if h == "" || i >= len(rec) {
				continue
			}
			if v, ok := inferCell(rec[i]); ok {
				l[h] = v
			}
		}
		if _, ok := l.ID(); !ok {
			l[model.FieldID] = row
		}
		leads = append(leads, l)
	}
	return leads, nil
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

func inferCell(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		switch {
		case math.IsNaN(f):
			return nil, false
		case math.IsInf(f, 0):
			return s, true
		}
		return f, true
	}
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return s, true
}

// DecodeJSON reads a JSON array of lead objects. Numbers decode as
// json.Number so integer ids keep their exact form.
func DecodeJSON(r io.Reader) ([]model.Lead, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var leads []model.Lead
	if err := dec.Decode(&leads); err != nil {
		return nil, fmt.Errorf("decoding lead array: %w", err)
	}
	if leads == nil {
		leads = []model.Lead{}
	}
	for i, l := range leads {
		if l == nil {
			return nil, fmt.Errorf("decoding lead array: element %d is null", i)
		}
	}
	return leads, nil
}

// DecodeJSONL reads one lead object per line. Blank lines are skipped.
func DecodeJSONL(r io.Reader) ([]model.Lead, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	leads := []model.Lead{}
	for line := 1; sc.Scan(); line++ {
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.UseNumber()
		var l model.Lead
		if err := dec.Decode(&l); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if l == nil {
			return nil, fmt.Errorf("line %d: null lead", line)
		}
		leads = append(leads, l)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading JSONL: %w", err)
	}
	return leads, nil
}
