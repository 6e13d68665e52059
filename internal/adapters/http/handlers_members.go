package web

import (
	"net/http"

	memberstore "artcor/internal/adapters/storage/member"
	"artcor/internal/application/listutil"
	"artcor/internal/domain/member"
)

type memberRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Role string `json:"role" validate:"required,max=100"`
}

type memberListResponse struct {
	Members  []member.Member   `json:"members"`
	PageInfo listutil.PageInfo `json:"page_info"`
}

// handleListMembers serves GET /api/members?role=&page=&per_page=.
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.tracker.Members(r.Context(), memberstore.ListFilter{Role: r.URL.Query().Get("role")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	info := listutil.NewPageInfo(listutil.ParsePageParams(r.URL.Query()), len(members))
	writeJSON(w, http.StatusOK, memberListResponse{Members: listutil.Slice(members, info), PageInfo: info})
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.tracker.AddMember(r.Context(), req.Name, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.tracker.GetMember(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req memberRequest
	if err := s.decodeAndValidate(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	m, err := s.tracker.UpdateMember(r.Context(), id, req.Name, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleDeleteMember answers 409 with the blocking event names when the
// member still attends any event.
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.tracker.DeleteMember(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
