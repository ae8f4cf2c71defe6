package handlers

import (
	"errors"
	"net/http"

	"github.com/leaguedesk/officiating-system/services"
)

const maxPhotoSize = 5 << 20 // 5MB

type RefereeHandler struct {
	refereeService services.RefereeService
}

func NewRefereeHandler(refereeService services.RefereeService) *RefereeHandler {
	return &RefereeHandler{refereeService: refereeService}
}

func (h *RefereeHandler) ListLeagueRefereesHandler(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	referees, err := h.refereeService.ListByLeague(r.Context(), leagueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referees": referees}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *RefereeHandler) GetRefereeHandler(w http.ResponseWriter, r *http.Request) {
	refereeID, err := getIDFromURL(r, "refereeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	referee, err := h.refereeService.GetByID(r.Context(), refereeID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referee": referee}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadRefereePhotoHandler принимает multipart-форму с полем "photo".
func (h *RefereeHandler) UploadRefereePhotoHandler(w http.ResponseWriter, r *http.Request) {
	refereeID, err := getIDFromURL(r, "refereeID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		badRequestResponse(w, r, errors.New("could not parse multipart form"))
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		badRequestResponse(w, r, errors.New("photo file is required"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	referee, err := h.refereeService.UploadPhoto(r.Context(), refereeID, contentType, file)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"referee": referee}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
