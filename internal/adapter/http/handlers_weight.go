package adapthttp

import (
	"encoding/json"
	"net/http"

	"weightlog/internal/domain"
)

func (s *Server) handleListWeights(w http.ResponseWriter, r *http.Request) {
	order := domain.Order(r.URL.Query().Get("order"))
	items, err := s.weight.List(r.Context(), order)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (s *Server) handleCreateWeight(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Value       *float64 `json:"value"`
		Unit        string   `json:"unit"`
		Mode        string   `json:"mode"`
		ReadingDate string   `json:"readingDate"`
		ReadingTime *string  `json:"readingTime"`
		Note        *string  `json:"note"`
		Kg          *float64 `json:"kg"`
		Lb          *float64 `json:"lb"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// kg/lb are always derived from value+unit; accepting them raw would
	// let the pair drift out of sync.
	if body.Kg != nil || body.Lb != nil {
		writeStoreError(w, &domain.ValidationError{Field: "kg", Message: "derived fields cannot be supplied; send value and unit"})
		return
	}
	if body.Value == nil {
		writeStoreError(w, &domain.ValidationError{Field: "value", Message: "is required"})
		return
	}
	if domain.Mode(body.Mode) == domain.ModeBackfill && body.ReadingTime != nil {
		writeStoreError(w, &domain.ValidationError{Field: "readingTime", Message: "backfilled entries do not capture a time"})
		return
	}

	entry, err := s.weight.Create(r.Context(), domain.CreateInput{
		Value:       *body.Value,
		Unit:        domain.Unit(body.Unit),
		Mode:        domain.Mode(body.Mode),
		ReadingDate: body.ReadingDate,
		Note:        body.Note,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUpdateWeight(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var fields map[string]json.RawMessage
	if err := parseJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	in, err := parseUpdateFields(fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	entry, err := s.weight.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// parseUpdateFields builds an UpdateInput from a partial JSON object,
// tracking presence per field so an explicit null is distinguishable from
// an absent key. Weight and unit fields are rejected as not updatable.
func parseUpdateFields(fields map[string]json.RawMessage) (domain.UpdateInput, error) {
	var in domain.UpdateInput
	for key, raw := range fields {
		switch key {
		case "readingDate":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, &domain.ValidationError{Field: "readingDate", Message: "must be a string"}
			}
			in.ReadingDate = &v
		case "readingTime":
			in.SetReadingTime = true
			if string(raw) == "null" {
				in.ReadingTime = nil
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, &domain.ValidationError{Field: "readingTime", Message: "must be a string or null"}
			}
			in.ReadingTime = &v
		case "createdAtIso":
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, &domain.ValidationError{Field: "createdAtIso", Message: "must be a string"}
			}
			in.CreatedAtIso = &v
		case "note":
			in.SetNote = true
			if string(raw) == "null" {
				in.Note = nil
				continue
			}
			var v string
			if err := json.Unmarshal(raw, &v); err != nil {
				return in, &domain.ValidationError{Field: "note", Message: "must be a string or null"}
			}
			in.Note = &v
		case "kg", "lb", "enteredUnit", "value", "unit":
			return in, &domain.ValidationError{Field: key, Message: "cannot be updated; delete and re-create the entry"}
		default:
			return in, &domain.ValidationError{Field: key, Message: "unknown field"}
		}
	}
	return in, nil
}

func (s *Server) handleDeleteWeight(w http.ResponseWriter, r *http.Request) {
	if err := s.weight.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWeightSeries(w http.ResponseWriter, r *http.Request) {
	days := intQuery(r, "days", 90)
	unit := r.URL.Query().Get("unit")
	if unit == "" {
		unit = "lb"
	}

	points, err := s.weight.Series(r.Context(), days, domain.Unit(unit))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"days":  days,
		"unit":  unit,
		"items": points,
	})
}
