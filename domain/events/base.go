package events

import (
	"time"

	"supramolecular/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	EventTypeDataUploaded = "data.uploaded"
	EventTypeFitSaved     = "fit.saved"
	EventTypeFitDeleted   = "fit.deleted"
)

// DataUploaded is raised when a new titration dataset is stored
type DataUploaded struct {
	BaseEvent
	DataID  valueobjects.DataID `json:"data_id"`
	Points  int                 `json:"points"`
	Columns int                 `json:"columns"`
}

// NewDataUploaded creates a DataUploaded event
func NewDataUploaded(dataID valueobjects.DataID, points, columns int, timestamp time.Time) DataUploaded {
	return DataUploaded{
		BaseEvent: BaseEvent{
			AggregateID: dataID.String(),
			EventType:   EventTypeDataUploaded,
			Timestamp:   timestamp,
			Version:     1,
		},
		DataID:  dataID,
		Points:  points,
		Columns: columns,
	}
}

// FitSaved is raised when a fit is persisted
type FitSaved struct {
	BaseEvent
	FitID  valueobjects.FitID      `json:"fit_id"`
	DataID valueobjects.DataID     `json:"data_id"`
	Fitter valueobjects.FitterName `json:"fitter"`
	Params []float64               `json:"params"`
	RSS    float64                 `json:"rss"`
}

// NewFitSaved creates a FitSaved event
func NewFitSaved(fitID valueobjects.FitID, dataID valueobjects.DataID, fitter valueobjects.FitterName, params []float64, rss float64, timestamp time.Time) FitSaved {
	return FitSaved{
		BaseEvent: BaseEvent{
			AggregateID: fitID.String(),
			EventType:   EventTypeFitSaved,
			Timestamp:   timestamp,
			Version:     1,
		},
		FitID:  fitID,
		DataID: dataID,
		Fitter: fitter,
		Params: params,
		RSS:    rss,
	}
}

// FitDeleted is raised when a saved fit is removed
type FitDeleted struct {
	BaseEvent
	FitID valueobjects.FitID `json:"fit_id"`
}

// NewFitDeleted creates a FitDeleted event
func NewFitDeleted(fitID valueobjects.FitID, timestamp time.Time) FitDeleted {
	return FitDeleted{
		BaseEvent: BaseEvent{
			AggregateID: fitID.String(),
			EventType:   EventTypeFitDeleted,
			Timestamp:   timestamp,
			Version:     1,
		},
		FitID: fitID,
	}
}
