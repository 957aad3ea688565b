package handler

import (
	"encoding/json"
	"errors"
	"go-notes-api/common"
	"go-notes-api/logger"
	"go-notes-api/model"
	"go-notes-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type NoteHandler struct {
	service *service.NoteService
}

func NewNoteHandler(service *service.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// CreateNote godoc
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Param        request body model.NoteRequest true "Note payload"
// @Success      201  {object}  model.Note
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Security     BearerAuth
// @Router       /notes [post]
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	var req model.NoteRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"title":   req.Title,
	})
	log.Info("Create note request received")

	note, err := h.service.CreateNote(userID, req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not create note", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(note)
	return nil
}

// ListNotes godoc
// @Summary      List the authenticated user's notes
// @Tags         notes
// @Produce      json
// @Success      200  {array}  model.Note
// @Failure      401  {object}  common.AppError
// @Security     BearerAuth
// @Router       /notes [get]
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	notes, err := h.service.ListNotesForOwner(userID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve notes", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(notes)
	return nil
}

// DeleteNote godoc
// @Summary      Delete one of the authenticated user's notes
// @Tags         notes
// @Produce      json
// @Param        id path string true "Note ID"
// @Success      200
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Security     BearerAuth
// @Router       /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	noteID := r.PathValue("id")
	if noteID == "" {
		return common.NewAppError(http.StatusBadRequest, "Invalid note id format", nil)
	}

	if err := h.service.DeleteNote(userID, noteID); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidNoteID):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNoteNotFound):
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not delete note", err)
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
