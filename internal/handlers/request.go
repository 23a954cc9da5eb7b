package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hostmarket/backend/internal/middleware"
	"github.com/hostmarket/backend/internal/models"
	"github.com/hostmarket/backend/internal/services"
)

const maxBodyBytes = 1_048_576

// session resolves the authenticated panel user for a request.
type session struct {
	users     services.UserDirectory
	validator *services.ValidationHelper
}

func newSession(users services.UserDirectory) session {
	return session{users: users, validator: services.NewValidationHelper()}
}

func (s session) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return nil, false
	}

	user, err := s.users.UserByID(r.Context(), userID)
	if err != nil {
		if services.CodeOf(err) == services.CodeNotFound {
			services.SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
			return nil, false
		}
		services.SendServiceError(w, err)
		return nil, false
	}
	return user, true
}

// currentAdmin is currentUser for admin routes. The token claim is not
// enough: the stored root_admin flag must still be set.
func (s session) currentAdmin(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}
	if !user.RootAdmin {
		services.SendErrorResponse(w, "Admin access required", http.StatusForbidden, nil)
		return nil, false
	}
	return user, true
}

// decode reads a single JSON object into dst and validates it.
func (s session) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}

	if err := s.validator.ValidateStruct(dst); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		services.SendErrorResponse(w, "Invalid "+name, http.StatusBadRequest, nil)
		return 0, false
	}
	return id, true
}

func pagination(r *http.Request) services.Pagination {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	return services.Pagination{Page: page, PerPage: perPage}
}
