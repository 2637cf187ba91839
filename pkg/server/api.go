package server

import (
	"encoding/json"
	"net/http"

	"github.com/vango-dev/sitekit/pkg/validate"
)

// maxValidateBody bounds /api/validate request bodies.
const maxValidateBody = 64 * 1024

// FieldResult is the verdict for one field of a validate request.
type FieldResult struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ValidateResponse is the body returned by /api/validate.
type ValidateResponse struct {
	Valid  bool          `json:"valid"`
	Fields []FieldResult `json:"fields"`
}

// handleValidate runs the field validator over a JSON array of fields.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxValidateBody)

	var fields []validate.Field
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a JSON array of fields"})
		return
	}

	resp := ValidateResponse{Valid: true, Fields: make([]FieldResult, 0, len(fields))}
	for _, f := range fields {
		res := validate.Validate(f)
		resp.Fields = append(resp.Fields, FieldResult{
			ID:      f.ID,
			Name:    f.Name,
			Valid:   res.Valid,
			Message: res.Message,
		})
		if !res.Valid {
			resp.Valid = false
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Count(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
