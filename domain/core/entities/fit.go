package entities

import (
	"time"
	"unicode/utf8"

	"supramolecular/domain/config"
	"supramolecular/domain/core/valueobjects"
	"supramolecular/domain/events"
	pkgerrors "supramolecular/pkg/errors"
)

// Fit is a saved optimisation of a fitter against a dataset.
type Fit struct {
	id          valueobjects.FitID
	name        string
	notes       string
	dataID      valueobjects.DataID
	fitter      valueobjects.FitterName
	paramsGuess []float64
	params      []float64
	y           [][]float64
	coeffs      [][]float64
	rss         float64
	createdAt   time.Time

	events []events.DomainEvent
}

// FitOutcome is the optimiser output stored with a fit.
type FitOutcome struct {
	Params []float64
	Y      [][]float64
	Coeffs [][]float64
	RSS    float64
}

// FitMetadata is the user supplied description of a fit.
type FitMetadata struct {
	Name  string
	Notes string
}

// NewFit creates a fit for a dataset. paramCount is the number of binding
// constants the fitter takes.
func NewFit(
	id valueobjects.FitID,
	meta FitMetadata,
	data *Dataset,
	fitter valueobjects.FitterName,
	paramCount int,
	paramsGuess []float64,
	outcome FitOutcome,
	cfg *config.DomainConfig,
) (*Fit, error) {
	if data == nil {
		return nil, pkgerrors.NewValidationError("fit requires a dataset")
	}
	if id.IsZero() {
		id = valueobjects.NewFitID()
	}
	if err := validateMetadata(meta, cfg); err != nil {
		return nil, err
	}
	if len(paramsGuess) != paramCount {
		return nil, pkgerrors.NewValidationErrorf("%s takes %d initial parameters, got %d", fitter, paramCount, len(paramsGuess))
	}
	if len(outcome.Params) != paramCount {
		return nil, pkgerrors.NewValidationErrorf("%s produces %d parameters, got %d", fitter, paramCount, len(outcome.Params))
	}
	if len(outcome.Y) != data.Columns() {
		return nil, pkgerrors.NewValidationErrorf("fitted curves have %d columns, dataset has %d", len(outcome.Y), data.Columns())
	}
	for c, col := range outcome.Y {
		if len(col) != data.Points() {
			return nil, pkgerrors.NewValidationErrorf("fitted column %d has %d points, dataset has %d", c+1, len(col), data.Points())
		}
	}

	now := time.Now().UTC()
	fit := &Fit{
		id:          id,
		name:        meta.Name,
		notes:       meta.Notes,
		dataID:      data.ID(),
		fitter:      fitter,
		paramsGuess: paramsGuess,
		params:      outcome.Params,
		y:           outcome.Y,
		coeffs:      outcome.Coeffs,
		rss:         outcome.RSS,
		createdAt:   now,
		events:      []events.DomainEvent{},
	}
	fit.addEvent(events.NewFitSaved(fit.id, fit.dataID, fitter, fit.params, fit.rss, now))
	return fit, nil
}

// ReconstructFit rebuilds a fit from storage.
func ReconstructFit(
	id valueobjects.FitID,
	meta FitMetadata,
	dataID valueobjects.DataID,
	fitter valueobjects.FitterName,
	paramsGuess []float64,
	outcome FitOutcome,
	createdAt time.Time,
) (*Fit, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("fit ID cannot be empty")
	}
	if dataID.IsZero() {
		return nil, pkgerrors.NewValidationError("fit is missing its data ID")
	}

	return &Fit{
		id:          id,
		name:        meta.Name,
		notes:       meta.Notes,
		dataID:      dataID,
		fitter:      fitter,
		paramsGuess: paramsGuess,
		params:      outcome.Params,
		y:           outcome.Y,
		coeffs:      outcome.Coeffs,
		rss:         outcome.RSS,
		createdAt:   createdAt,
		events:      []events.DomainEvent{},
	}, nil
}

func validateMetadata(meta FitMetadata, cfg *config.DomainConfig) error {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if n := utf8.RuneCountInString(meta.Name); n > cfg.MaxFitNameLength {
		return pkgerrors.NewValidationErrorf("name is %d characters, the limit is %d", n, cfg.MaxFitNameLength)
	}
	if n := utf8.RuneCountInString(meta.Notes); n > cfg.MaxFitNotesLength {
		return pkgerrors.NewValidationErrorf("notes are %d characters, the limit is %d", n, cfg.MaxFitNotesLength)
	}
	return nil
}

// Getters

func (f *Fit) ID() valueobjects.FitID          { return f.id }
func (f *Fit) Name() string                    { return f.name }
func (f *Fit) Notes() string                   { return f.notes }
func (f *Fit) DataID() valueobjects.DataID     { return f.dataID }
func (f *Fit) Fitter() valueobjects.FitterName { return f.fitter }
func (f *Fit) ParamsGuess() []float64          { return f.paramsGuess }
func (f *Fit) Params() []float64               { return f.params }
func (f *Fit) Y() [][]float64                  { return f.y }
func (f *Fit) Coeffs() [][]float64             { return f.coeffs }
func (f *Fit) RSS() float64                    { return f.rss }
func (f *Fit) CreatedAt() time.Time            { return f.createdAt }
func (f *Fit) Metadata() FitMetadata           { return FitMetadata{Name: f.name, Notes: f.notes} }
func (f *Fit) Outcome() FitOutcome             { return FitOutcome{Params: f.params, Y: f.y, Coeffs: f.coeffs, RSS: f.rss} }

// Event management

func (f *Fit) addEvent(event events.DomainEvent) {
	f.events = append(f.events, event)
}

// GetUncommittedEvents returns events that have not been published yet
func (f *Fit) GetUncommittedEvents() []events.DomainEvent {
	return f.events
}

// MarkEventsAsCommitted clears the pending events
func (f *Fit) MarkEventsAsCommitted() {
	f.events = []events.DomainEvent{}
}
