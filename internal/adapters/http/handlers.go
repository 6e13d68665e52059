package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"artcor/internal/adapters/http/middleware"
	"artcor/internal/domain/failure"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// errorResponse is the JSON body of every non-2xx API reply.
type errorResponse struct {
	Error      string   `json:"error"`
	Kind       string   `json:"kind"`
	EventNames []string `json:"event_names,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("response_encode_failed", zap.Error(err))
	}
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zap.L().Error("internal_error",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error", Kind: "internal"})
}

// writeError maps domain error kinds to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ref *failure.ReferentialIntegrityError
	switch {
	case errors.As(err, &ref):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "referential_integrity", EventNames: ref.EventNames})
	case errors.Is(err, failure.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, failure.ErrDuplicateName):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error(), Kind: "duplicate_name"})
	case errors.Is(err, failure.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	default:
		internalError(w, r, err)
	}
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return failure.Invalid("body", err.Error())
	}
	return nil
}

// decodeAndValidate decodes a JSON body into v and runs its validate tags.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, v any) error {
	if err := strictDecode(w, r, v); err != nil {
		return err
	}
	return s.check(v)
}

// check runs struct validation and reports the first failing field.
func (s *Server) check(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return failure.Invalid(strings.ToLower(fe.Field()), describeTag(fe))
	}
	return failure.Invalid("request", err.Error())
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "cannot exceed " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "datetime":
		return "must be YYYY-MM-DD"
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		return 0, failure.Invalid("id", "must be a positive integer")
	}
	return id, nil
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, failure.Invalid(name, "must be an integer")
	}
	return n, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "next_id": s.tracker.NextID()})
}
