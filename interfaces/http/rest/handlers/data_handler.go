package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"supramolecular/application/commands"
	"supramolecular/application/commands/bus"
	"supramolecular/application/queries"
	querybus "supramolecular/application/queries/bus"
	"supramolecular/domain/core/entities"
	pkgerrors "supramolecular/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DataHandler handles titration data uploads
type DataHandler struct {
	responder
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	maxUpload  int64
}

// NewDataHandler creates a new data handler
func NewDataHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	maxUpload int64,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *DataHandler {
	return &DataHandler{
		responder:  responder{errors: errs, logger: logger},
		commandBus: commandBus,
		queryBus:   queryBus,
		maxUpload:  maxUpload,
	}
}

// Upload handles POST /data. The CSV arrives either as the multipart field
// "input" or as a raw text/csv body.
func (h *DataHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	dataset, err := h.parseUpload(r)
	if err != nil {
		h.respondError(w, r, h.uploadError(err))
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.UploadDataCommand{Dataset: dataset}); err != nil {
		h.respondError(w, r, err)
		return
	}

	view, err := querybus.Ask[*queries.DataView](r.Context(), h.queryBus, queries.GetDataQuery{DataID: dataset.ID().String()})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}

func (h *DataHandler) parseUpload(r *http.Request) (*entities.Dataset, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("input")
		if err != nil {
			return nil, pkgerrors.NewValidationError(`multipart field "input" is required`)
		}
		defer file.Close()
		return entities.ParseCSV(file)
	case "text/csv", "text/plain", "application/csv", "":
		return entities.ParseCSV(r.Body)
	}
	return nil, pkgerrors.NewValidationErrorf("unsupported content type %q", mediaType)
}

func (h *DataHandler) uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		appErr := pkgerrors.NewValidationErrorf("upload exceeds %d bytes", tooLarge.Limit).WithCode("BODY_TOO_LARGE")
		appErr.HTTPStatus = http.StatusRequestEntityTooLarge
		return appErr
	}
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return pkgerrors.NewValidationError("upload was truncated").WithCause(err)
	}
	if pkgerrors.GetAppError(err) == nil {
		return pkgerrors.NewValidationError("could not read upload").WithCause(err)
	}
	return err
}

// GetData handles GET /data/{dataID}
func (h *DataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	view, err := querybus.Ask[*queries.DataView](r.Context(), h.queryBus, queries.GetDataQuery{DataID: chi.URLParam(r, "dataID")})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, http.StatusOK, view)
}
