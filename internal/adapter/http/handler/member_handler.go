package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dnrdl12/remit/internal/adapter/http/dto"
	"github.com/dnrdl12/remit/internal/usecase"
)

// MemberHandler handles member-related HTTP requests.
type MemberHandler struct {
	memberUC *usecase.MemberUseCase
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(memberUC *usecase.MemberUseCase) *MemberHandler {
	return &MemberHandler{memberUC: memberUC}
}

// Register registers a new member.
func (h *MemberHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Name == "" || req.Phone == "" || req.CI == "" {
		writeError(w, http.StatusBadRequest, "name, phone and ci are required", "")
		return
	}

	member, err := h.memberUC.RegisterMember(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to register member", err.Error())
		return
	}

	view, err := h.memberUC.GetMember(r.Context(), member.ID, true)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to load member", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.MemberFromView(view))
}

// Get returns one member, masked unless unmasked=true is passed.
func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID", err.Error())
		return
	}

	masked := r.URL.Query().Get("unmasked") != "true"

	view, err := h.memberUC.GetMember(r.Context(), id, masked)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get member", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MemberFromView(view))
}

// Search lists members by name prefix or exact phone number.
func (h *MemberHandler) Search(w http.ResponseWriter, r *http.Request) {
	input := usecase.SearchMembersInput{
		Name:   r.URL.Query().Get("name"),
		Phone:  r.URL.Query().Get("phone"),
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	}

	views, err := h.memberUC.SearchMembers(r.Context(), input, true)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to search members", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MembersFromViews(views))
}

// Delete soft-deletes a member.
func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID", err.Error())
		return
	}

	if err := h.memberUC.DeleteMember(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete member", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
