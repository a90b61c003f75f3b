package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/chillpill/chillpill/internal/api/respond"
	"github.com/chillpill/chillpill/internal/api/validate"
	"github.com/chillpill/chillpill/internal/model"
	"github.com/chillpill/chillpill/internal/services"
)

// maxBodyBytes caps a request body. Entries well past the scoring length
// still fit and are stored unscored.
const maxBodyBytes = 8 << 20

// MsgEntryTooLarge is returned when a request body exceeds maxBodyBytes.
const MsgEntryTooLarge = "Error: This journal entry is too large to save."

// EntryHandler serves the journal entry endpoints.
type EntryHandler struct {
	svc *services.JournalService
	log zerolog.Logger
}

func NewEntryHandler(svc *services.JournalService, log zerolog.Logger) *EntryHandler {
	return &EntryHandler{svc: svc, log: log}
}

type entryRequest struct {
	Body *string `json:"body" validate:"required"`
}

type entryListResponse struct {
	Entries []model.JournalEntry `json:"entries"`
	Count   int                  `json:"count"`
}

// decodeEntry reads {"body": ...}. A missing body is reported with emptyMsg,
// matching the message for a blank one.
func decodeEntry(w http.ResponseWriter, r *http.Request, emptyMsg string) (string, bool) {
	var req entryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.WriteError(w, http.StatusRequestEntityTooLarge, MsgEntryTooLarge)
			return "", false
		}
		respond.WriteBadRequest(w, "Invalid JSON")
		return "", false
	}
	if err := validate.Struct(req); err != nil {
		respond.WriteBadRequest(w, emptyMsg)
		return "", false
	}
	return *req.Body, true
}

// CreateEntry handles POST /api/entries
func (h *EntryHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeEntry(w, r, services.MsgEmptyEntry)
	if !ok {
		return
	}
	sub, err := h.svc.Submit(r.Context(), body)
	if err != nil {
		h.writeError(w, err, "create entry")
		return
	}
	respond.WriteJSON(w, http.StatusCreated, sub)
}

// ListEntries handles GET /api/entries
func (h *EntryHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.Journal().ReadAll(r.Context())
	if err != nil {
		h.writeError(w, err, "list entries")
		return
	}
	respond.WriteJSON(w, http.StatusOK, entryListResponse{Entries: entries, Count: len(entries)})
}

// GetEntry handles GET /api/entries/{id}
func (h *EntryHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok, err := h.svc.Journal().ReadOne(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "get entry")
		return
	}
	if !ok {
		respond.WriteNotFound(w, "Entry not found")
		return
	}
	respond.WriteJSON(w, http.StatusOK, e)
}

// UpdateEntry handles PUT /api/entries/{id}
func (h *EntryHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	body, ok := decodeEntry(w, r, services.MsgEmptyRevision)
	if !ok {
		return
	}
	e, err := h.svc.Revise(r.Context(), id, body)
	if err != nil {
		h.writeError(w, err, "update entry")
		return
	}
	respond.WriteJSON(w, http.StatusOK, e)
}

// DeleteEntry handles DELETE /api/entries/{id}
func (h *EntryHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Journal().Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err, "delete entry")
		return
	}
	respond.WriteNoContent(w)
}

func (h *EntryHandler) writeError(w http.ResponseWriter, err error, op string) {
	var ve model.ValidationError
	switch {
	case errors.As(err, &ve):
		respond.WriteBadRequest(w, ve.Message)
	case errors.Is(err, model.ErrNotFound):
		respond.WriteNotFound(w, "Entry not found")
	case errors.Is(err, model.ErrConflict):
		respond.WriteConflict(w, err.Error())
	default:
		h.log.Error().Stack().Err(err).Str("op", op).Msg("entry request failed")
		respond.WriteInternalError(w, "Failed to "+op)
	}
}
