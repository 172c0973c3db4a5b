package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/search"
)

// handleSearch runs the filtered directory search. All filters are optional;
// an empty request returns the first page of the whole ownerless pool.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := search.Filter{
		Query:       strings.TrimSpace(q.Get("q")),
		Industry:    strings.TrimSpace(q.Get("industry")),
		Country:     strings.TrimSpace(q.Get("country")),
		Title:       strings.TrimSpace(q.Get("title")),
		CompanySize: strings.TrimSpace(q.Get("company_size")),
		SourceSheet: strings.TrimSpace(q.Get("source_sheet")),
	}
	if raw := q.Get("has_linkedin"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "has_linkedin must be a boolean")
			return
		}
		f.HasLinkedIn = &v
	}

	page, err := parsePage(q.Get("page"), q.Get("page_size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	pred := search.Compile(f)
	rows, total, err := s.repo.CountAndFetch(r.Context(), pred, page.Range())
	if err != nil {
		s.log.Error("search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}
	writeJSON(w, http.StatusOK, search.Envelope(page, rows, total))
}

// saveLinkRequest is the POST /api/v1/links body.
type saveLinkRequest struct {
	TenantID          string            `json:"tenant_id"`
	ContactID         string            `json:"contact_id"`
	FirstNameOverride string            `json:"first_name_override"`
	LastNameOverride  string            `json:"last_name_override"`
	CustomData        map[string]string `json:"custom_data"`
}

// handleSaveLink saves one tenant→contact link. Duplicate pairs come back as
// 409; references to unknown ids as 422.
func (s *Server) handleSaveLink(w http.ResponseWriter, r *http.Request) {
	var req saveLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.TenantID) == "" || strings.TrimSpace(req.ContactID) == "" {
		writeError(w, http.StatusBadRequest, "tenant_id and contact_id are required")
		return
	}

	id, err := s.repo.InsertLink(r.Context(), contacts.WorkspaceLink{
		TenantID:          req.TenantID,
		ContactID:         req.ContactID,
		FirstNameOverride: req.FirstNameOverride,
		LastNameOverride:  req.LastNameOverride,
		CustomData:        req.CustomData,
	})
	switch {
	case err == nil:
	case errors.Is(err, contacts.ErrConflict):
		writeError(w, http.StatusConflict, "contact already saved to this workspace")
		return
	case errors.Is(err, contacts.ErrBadReference):
		writeError(w, http.StatusUnprocessableEntity, "tenant or contact does not exist")
		return
	case errors.Is(err, contacts.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		s.log.Error("save link failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "save failed")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// handleListLinks lists one tenant's saved contacts, newest first.
func (s *Server) handleListLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tenantID := strings.TrimSpace(q.Get("tenant_id"))
	if tenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return
	}

	page, err := parsePage(q.Get("page"), q.Get("page_size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	links, total, err := s.repo.ListLinksJoined(r.Context(), tenantID, page.Range())
	if err != nil {
		s.log.Error("list links failed", zap.Error(err), zap.String("tenant_id", tenantID))
		writeError(w, http.StatusInternalServerError, "listing failed")
		return
	}
	writeJSON(w, http.StatusOK, search.Envelope(page, links, total))
}

// parsePage decodes and validates page/page_size query parameters. Absent
// values fall back to page 1 and the default size.
func parsePage(rawPage, rawSize string) (search.PageRequest, error) {
	p := search.PageRequest{Page: 1}
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil {
			return p, contacts.Validationf("page must be an integer")
		}
		p.Page = n
	}
	if rawSize != "" {
		n, err := strconv.Atoi(rawSize)
		if err != nil {
			return p, contacts.Validationf("page_size must be an integer")
		}
		p.PageSize = n
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
