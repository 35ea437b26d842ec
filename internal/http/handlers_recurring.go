package http

import (
	"net/http"

	"finctl/internal/core"
)

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := s.recurring.List(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]recurringJSON, len(items))
	for i, item := range items {
		out[i] = toRecurringJSON(item)
	}
	respond(w, http.StatusOK, map[string]any{"items": out})
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := recurringFromBody(r, uid, 0)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.recurring.Create(r.Context(), item)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusCreated, "recurring item created",
		map[string]any{"item": toRecurringJSON(created)})
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := recurringFromBody(r, uid, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.recurring.Update(r.Context(), item)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "recurring item updated",
		map[string]any{"item": toRecurringJSON(updated)})
}

func (s *Server) handleDeactivateRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := s.recurring.Deactivate(r.Context(), uid, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "recurring item deactivated",
		map[string]any{"item": toRecurringJSON(item)})
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.recurring.Delete(r.Context(), uid, id); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "recurring item deleted", nil)
}

// handleRecurringStats serves the monthly projection: per (type, frequency)
// groups and the steady-month roll-up, from active items only.
func (s *Server) handleRecurringStats(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	projection, err := s.recurring.Stats(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, toProjectionJSON(projection))
}

func recurringFromBody(r *http.Request, uid, id int64) (core.RecurringItem, error) {
	var req recurringRequest
	if err := decodeBody(r, &req); err != nil {
		return core.RecurringItem{}, err
	}

	cents, err := req.Amount.Cents()
	if err != nil {
		return core.RecurringItem{}, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.RecurringItem{}, &core.ValidationError{Field: "start_date", Reason: "start_date must be YYYY-MM-DD"}
	}

	var end core.Date
	if req.EndDate != "" {
		end, err = parseDate(req.EndDate)
		if err != nil {
			return core.RecurringItem{}, &core.ValidationError{Field: "end_date", Reason: "end_date must be YYYY-MM-DD"}
		}
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return core.RecurringItem{
		ID:          id,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.ItemType(req.Type),
		CategoryID:  req.CategoryID,
		UserID:      uid,
		Frequency:   core.Frequency(req.Frequency),
		StartDate:   start,
		EndDate:     end,
		IsActive:    active,
		Notes:       sanitizeInput(req.Notes),
	}, nil
}
