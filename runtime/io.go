// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtime

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Holders is the process- (or thread-) scoped registry of open I/O
// streams, keyed by file name (spec.md §4.4.5 "Each is keyed by a
// file-name ... The Holders list is owned by the simulator and
// destroyed at finish").
type Holders struct {
	inputs  map[string]*InputHolder
	outputs map[string]*OutputHolder
}

// NewHolders returns an empty registry.
func NewHolders() *Holders {
	return &Holders{inputs: map[string]*InputHolder{}, outputs: map[string]*OutputHolder{}}
}

// GetInputHolder returns the existing InputHolder for name, opening and
// registering a new one when absent (spec.md §4.4.5 "getHolder ...
// returns an existing instance or null, letting caller construct and
// register").
func (h *Holders) GetInputHolder(name string) (*InputHolder, error) {
	if ih, ok := h.inputs[name]; ok {
		return ih, nil
	}
	ih, err := OpenInputHolder(name)
	if err != nil {
		return nil, err
	}
	h.inputs[name] = ih
	return ih, nil
}

// GetOutputHolder returns the existing OutputHolder for name, creating
// one when absent.
func (h *Holders) GetOutputHolder(name string) (*OutputHolder, error) {
	if oh, ok := h.outputs[name]; ok {
		return oh, nil
	}
	oh, err := NewOutputHolder(name)
	if err != nil {
		return nil, err
	}
	h.outputs[name] = oh
	return oh, nil
}

// CloseAll flushes and closes every open holder (spec.md §7 "the
// simulator is expected to always flush OutputHolder values before
// exit, even under unhandled exceptions, via scoped teardown of the
// Holders list").
func (h *Holders) CloseAll() {
	for _, oh := range h.outputs {
		if err := oh.Close(); err != nil {
			io.Pfred("error closing output %q: %v\n", oh.name, err)
		}
	}
}

// InputHolder parses a CSV/TSV/space-delimited table with delimiter
// auto-detection and optional time-column handling (spec.md §4.4.5).
type InputHolder struct {
	name    string
	headers []string
	rows    [][]float64
	timeCol int // -1 when no time column recognized
}

// OpenInputHolder reads name fully into memory, auto-detecting the
// delimiter from the first non-empty line (precedence tab > comma >
// space) and, when the first data line is non-numeric, treating it as a
// header row.
func OpenInputHolder(name string) (*InputHolder, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, chk.Err("cannot open input %q: %v", name, err)
	}
	defer f.Close()

	ih := &InputHolder{name: name, timeCol: -1}
	scanner := bufio.NewScanner(f)
	var delim string
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if first {
			delim = detectDelimiter(line)
			first = false
			fields := splitDelim(line, delim)
			if !looksNumeric(fields) {
				ih.headers = fields
				continue
			}
		}
		fields := splitDelim(line, delim)
		row := make([]float64, len(fields))
		for i, f := range fields {
			row[i] = parseCell(f)
		}
		ih.rows = append(ih.rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, chk.Err("reading input %q: %v", name, err)
	}
	ih.timeCol = pickTimeColumn(ih.headers)
	return ih, nil
}

func detectDelimiter(line string) string {
	switch {
	case strings.Contains(line, "\t"):
		return "\t"
	case strings.Contains(line, ","):
		return ","
	default:
		return " "
	}
}

func splitDelim(line, delim string) []string {
	if delim == " " {
		return strings.Fields(line)
	}
	parts := strings.Split(line, delim)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func looksNumeric(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseFloat(f, 64); err != nil {
			if _, ok := parseISO8601(f); !ok {
				return false
			}
		}
	}
	return len(fields) > 0
}

func parseCell(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if t, ok := parseISO8601(s); ok {
		return float64(t.Unix())
	}
	return math.NaN()
}

func parseISO8601(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// pickTimeColumn selects a time column by header match, preferring $t
// over "time" over "date" over "t" over any header containing "time"
// (spec.md §4.4.5).
func pickTimeColumn(headers []string) int {
	precedence := []string{"$t", "time", "date", "t"}
	for _, want := range precedence {
		for i, h := range headers {
			if strings.EqualFold(h, want) {
				return i
			}
		}
	}
	for i, h := range headers {
		if strings.Contains(strings.ToLower(h), "time") {
			return i
		}
	}
	return -1
}

// ColumnIndex returns the column index for header, or -1 when absent.
func (ih *InputHolder) ColumnIndex(header string) int {
	for i, h := range ih.headers {
		if h == header {
			return i
		}
	}
	return -1
}

// Get returns the value of column col at time t: when smooth is false,
// the value from the first row whose time is at or after t (the last row
// once t is past the end); linearly interpolated between surrounding rows when
// smooth is true (spec.md §4.4.5 "smooth mode linearly interpolates
// between surrounding rows").
func (ih *InputHolder) Get(col int, t float64, smooth bool) float64 {
	if ih.timeCol < 0 || len(ih.rows) == 0 {
		if col >= 0 && len(ih.rows) > 0 {
			return ih.rows[0][col]
		}
		return math.NaN()
	}
	idx := sort.Search(len(ih.rows), func(i int) bool { return ih.rows[i][ih.timeCol] >= t })
	if !smooth {
		if idx >= len(ih.rows) {
			idx = len(ih.rows) - 1
		}
		return ih.rows[idx][col]
	}
	if idx == 0 {
		return ih.rows[0][col]
	}
	if idx >= len(ih.rows) {
		return ih.rows[len(ih.rows)-1][col]
	}
	lo, hi := ih.rows[idx-1], ih.rows[idx]
	span := hi[ih.timeCol] - lo[ih.timeCol]
	if span == 0 {
		return lo[col]
	}
	frac := (t - lo[ih.timeCol]) / span
	return lo[col] + frac*(hi[col]-lo[col])
}

// OutputHolder writes tab-separated values with $t as column 0, plus a
// sibling .columns sidecar recording per-column display mode (spec.md
// §4.4.5, §6 "Companion .columns file layout").
type OutputHolder struct {
	name    string
	f       *os.File
	w       *bufio.Writer
	headers []string
	modes   map[string]map[string]string
	wrote   bool
}

// NewOutputHolder creates (or truncates) name for writing.
func NewOutputHolder(name string) (*OutputHolder, error) {
	if name == "" {
		return &OutputHolder{name: "-", w: bufio.NewWriter(os.Stdout)}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, chk.Err("cannot create output %q: %v", name, err)
	}
	return &OutputHolder{name: name, f: f, w: bufio.NewWriter(f), modes: map[string]map[string]string{}}, nil
}

// SetHeaders fixes the column order; must be called before the first
// WriteRow.
func (oh *OutputHolder) SetHeaders(headers []string) { oh.headers = append([]string{"$t"}, headers...) }

// SetMode records a display-mode key:value pair for header (spec.md §6
// "scale, ymin/ymax, etc").
func (oh *OutputHolder) SetMode(header, key, value string) {
	if oh.modes[header] == nil {
		oh.modes[header] = map[string]string{}
	}
	oh.modes[header][key] = value
}

// WriteRow writes one tab-separated row, $t first, NaN values blank
// (spec.md §4.4.5 "NaNs are written as blank cells").
func (oh *OutputHolder) WriteRow(t float64, values []float64) error {
	if !oh.wrote && len(oh.headers) > 0 {
		fmt.Fprintln(oh.w, strings.Join(oh.headers, "\t"))
		oh.wrote = true
	}
	cells := make([]string, len(values)+1)
	cells[0] = formatCell(t)
	for i, v := range values {
		cells[i+1] = formatCell(v)
	}
	_, err := fmt.Fprintln(oh.w, strings.Join(cells, "\t"))
	return err
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Close flushes buffered output, writes the .columns sidecar, and
// closes the backing file.
func (oh *OutputHolder) Close() error {
	if err := oh.w.Flush(); err != nil {
		return err
	}
	if oh.f != nil {
		if err := oh.writeColumnsFile(); err != nil {
			return err
		}
		return oh.f.Close()
	}
	return nil
}

// writeColumnsFile writes the N2A.schema=3 sidecar (spec.md §6
// "Companion .columns file layout: first line N2A.schema=3; then per
// column index a line i:header followed by indented key:value
// mode-pairs").
func (oh *OutputHolder) writeColumnsFile() error {
	f, err := os.Create(oh.name + ".columns")
	if err != nil {
		return chk.Err("cannot create columns sidecar for %q: %v", oh.name, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "N2A.schema=3")
	for i, h := range oh.headers {
		fmt.Fprintf(w, "%d:%s\n", i, h)
		keys := make([]string, 0, len(oh.modes[h]))
		for k := range oh.modes[h] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, " %s:%s\n", k, oh.modes[h][k])
		}
	}
	return w.Flush()
}
