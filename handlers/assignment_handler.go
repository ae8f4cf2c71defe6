package handlers

import (
	"net/http"

	"github.com/leaguedesk/officiating-system/middleware"
	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/services"
)

type AssignmentHandler struct {
	assignmentService services.AssignmentService
}

func NewAssignmentHandler(assignmentService services.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

type assignCrewRequest struct {
	Crew             models.CrewProposal `json:"crew"`
	IgnoreRecentTeam bool                `json:"ignore_recent_team"`
	IgnoreSameDay    bool                `json:"ignore_same_day"`
}

// AssignCrewHandler прогоняет заявку бригады через гарды и коммитит её.
// Код результата всегда в теле ответа; HTTP-статус — его проекция.
func (h *AssignmentHandler) AssignCrewHandler(w http.ResponseWriter, r *http.Request) {
	path, err := matchPathFromURL(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req assignCrewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	result, err := h.assignmentService.AssignCrew(r.Context(), services.AssignCrewInput{
		Path:             path,
		Crew:             req.Crew,
		IgnoreRecentTeam: req.IgnoreRecentTeam,
		IgnoreSameDay:    req.IgnoreSameDay,
		ActorID:          actorID,
	})
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, assignmentStatus(result.Code), jsonResponse{"result": result}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type confirmCrewsRequest struct {
	Pairs []services.CrewConfirmation `json:"pairs"`
}

// ConfirmCrewsHandler — батч-подтверждение: только структурные проверки,
// негодные пары молча пропускаются, в ответе число закоммиченных.
func (h *AssignmentHandler) ConfirmCrewsHandler(w http.ResponseWriter, r *http.Request) {
	leagueID, err := getIDFromURL(r, "leagueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var req confirmCrewsRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	actorID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, err.Error())
		return
	}

	committed, err := h.assignmentService.ConfirmCrews(r.Context(), leagueID, actorID, req.Pairs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"committed": committed}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func matchPathFromURL(r *http.Request) (services.MatchPath, error) {
	var path services.MatchPath
	var err error
	if path.LeagueID, err = getIDFromURL(r, "leagueID"); err != nil {
		return path, err
	}
	if path.GroupID, err = getIDFromURL(r, "groupID"); err != nil {
		return path, err
	}
	if path.MatchdayID, err = getIDFromURL(r, "matchdayID"); err != nil {
		return path, err
	}
	if path.MatchID, err = getIDFromURL(r, "matchID"); err != nil {
		return path, err
	}
	return path, nil
}

// assignmentStatus проецирует код исхода на HTTP-статус.
func assignmentStatus(code services.AssignmentCode) int {
	switch code {
	case services.CodeOK, services.CodeOKWithWarning:
		return http.StatusOK
	case services.CodeMissingParams, services.CodeDuplicateReferees:
		return http.StatusUnprocessableEntity
	case services.CodeMatchNotFound:
		return http.StatusNotFound
	default:
		// Недоступность, конфликты и блокировка по компетентности.
		return http.StatusConflict
	}
}
