package entities

import (
	"encoding/csv"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"supramolecular/domain/config"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/events"
	pkgerrors "supramolecular/pkg/errors"
)

// Dataset is a titration: total host and guest concentrations at each point
// plus one or more observed response columns.
type Dataset struct {
	id        valueobjects.DataID
	h0        []float64
	g0        []float64
	y         [][]float64
	createdAt time.Time

	events []events.DomainEvent
}

// Derived holds the arrays shown to clients alongside the raw data.
type Derived struct {
	H0    []float64   `json:"h0"`
	G0    []float64   `json:"g0"`
	Geq   []float64   `json:"geq"`
	Y     [][]float64 `json:"y"`
	YNorm [][]float64 `json:"ynorm"`
}

// ParseCSV reads a titration from CSV. The first row is a header and its
// contents are ignored. Column 0 is H0, column 1 is G0 and every further
// column is a response. The first data row fixes the width.
func ParseCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	_, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, pkgerrors.NewValidationError("data file is empty")
	}
	if err != nil {
		return nil, pkgerrors.NewValidationError("malformed CSV header").WithCause(err)
	}
	reader.FieldsPerRecord = 0

	var rows [][]float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.NewValidationErrorf("malformed CSV near line %d", line).WithCause(err)
		}

		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, pkgerrors.NewValidationErrorf("line %d column %d: %q is not a number", line, i+1, field)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return newDatasetFromRows(rows)
}

// NewDataset creates a dataset from column slices. y holds one slice per
// response column.
func NewDataset(h0, g0 []float64, y [][]float64) (*Dataset, error) {
	if len(h0) != len(g0) {
		return nil, pkgerrors.NewValidationErrorf("h0 has %d points but g0 has %d", len(h0), len(g0))
	}
	for c, col := range y {
		if len(col) != len(h0) {
			return nil, pkgerrors.NewValidationErrorf("response column %d has %d points, expected %d", c+1, len(col), len(h0))
		}
	}

	rows := make([][]float64, len(h0))
	for i := range h0 {
		row := make([]float64, 0, 2+len(y))
		row = append(row, h0[i], g0[i])
		for _, col := range y {
			row = append(row, col[i])
		}
		rows[i] = row
	}
	return newDatasetFromRows(rows)
}

func newDatasetFromRows(rows [][]float64) (*Dataset, error) {
	if len(rows) < 2 {
		return nil, pkgerrors.NewValidationError("at least two titration points are required")
	}
	width := len(rows[0])
	if width < 3 {
		return nil, pkgerrors.NewValidationError("data needs h0, g0 and at least one response column")
	}

	n := len(rows)
	h0 := make([]float64, n)
	g0 := make([]float64, n)
	y := make([][]float64, width-2)
	for c := range y {
		y[c] = make([]float64, n)
	}

	for i, row := range rows {
		if len(row) != width {
			return nil, pkgerrors.NewValidationErrorf("row %d has %d columns, expected %d", i+1, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, pkgerrors.NewValidationErrorf("row %d column %d is not finite", i+1, j+1)
			}
		}
		if row[0] <= 0 {
			return nil, pkgerrors.NewValidationErrorf("row %d: host concentration must be positive", i+1)
		}
		if row[1] < 0 {
			return nil, pkgerrors.NewValidationErrorf("row %d: guest concentration must not be negative", i+1)
		}
		h0[i] = row[0]
		g0[i] = row[1]
		for c := range y {
			y[c][i] = row[c+2]
		}
	}

	now := time.Now().UTC()
	d := &Dataset{
		id:        valueobjects.NewDataIDFromRows(rows),
		h0:        h0,
		g0:        g0,
		y:         y,
		createdAt: now,
		events:    []events.DomainEvent{},
	}
	d.addEvent(events.NewDataUploaded(d.id, n, len(y), now))
	return d, nil
}

// ReconstructDataset rebuilds a dataset from storage without re-hashing it.
func ReconstructDataset(id valueobjects.DataID, h0, g0 []float64, y [][]float64, createdAt time.Time) (*Dataset, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("data ID cannot be empty")
	}
	if len(h0) != len(g0) {
		return nil, pkgerrors.NewValidationError("stored h0 and g0 lengths differ")
	}
	for _, col := range y {
		if len(col) != len(h0) {
			return nil, pkgerrors.NewValidationError("stored response column length differs from h0")
		}
	}
	return &Dataset{
		id:        id,
		h0:        h0,
		g0:        g0,
		y:         y,
		createdAt: createdAt,
		events:    []events.DomainEvent{},
	}, nil
}

// CheckLimits enforces the configured upload size limits.
func (d *Dataset) CheckLimits(cfg *config.DomainConfig) error {
	if d.Points() > cfg.MaxDataPoints {
		return pkgerrors.NewValidationErrorf("dataset has %d points, the limit is %d", d.Points(), cfg.MaxDataPoints)
	}
	if d.Columns() > cfg.MaxResponseColumns {
		return pkgerrors.NewValidationErrorf("dataset has %d response columns, the limit is %d", d.Columns(), cfg.MaxResponseColumns)
	}
	return nil
}

// Getters

func (d *Dataset) ID() valueobjects.DataID { return d.id }
func (d *Dataset) H0() []float64           { return d.h0 }
func (d *Dataset) G0() []float64           { return d.g0 }
func (d *Dataset) Y() [][]float64          { return d.y }
func (d *Dataset) CreatedAt() time.Time    { return d.createdAt }
func (d *Dataset) Points() int             { return len(d.h0) }
func (d *Dataset) Columns() int            { return len(d.y) }

// Derived computes Geq = G0/H0 and each response column shifted to start at
// zero.
func (d *Dataset) Derived() Derived {
	geq := make([]float64, len(d.h0))
	for i := range d.h0 {
		geq[i] = d.g0[i] / d.h0[i]
	}

	ynorm := make([][]float64, len(d.y))
	for c, col := range d.y {
		ynorm[c] = make([]float64, len(col))
		for i, v := range col {
			ynorm[c][i] = v - col[0]
		}
	}

	return Derived{
		H0:    d.h0,
		G0:    d.g0,
		Geq:   geq,
		Y:     d.y,
		YNorm: ynorm,
	}
}

// Event management

func (d *Dataset) addEvent(event events.DomainEvent) {
	d.events = append(d.events, event)
}

// GetUncommittedEvents returns events that have not been published yet
func (d *Dataset) GetUncommittedEvents() []events.DomainEvent {
	return d.events
}

// MarkEventsAsCommitted clears the pending events
func (d *Dataset) MarkEventsAsCommitted() {
	d.events = []events.DomainEvent{}
}
