package http

import (
	"log/slog"
	"net/http"

	"finctl/internal/core"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	set, err := s.categories.List(r.Context(), uid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"categories": map[string]any{
			"expense": toCategoryListJSON(set.Expense),
			"income":  toCategoryListJSON(set.Income),
		},
	})
}

func (s *Server) handleListCategoriesByType(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	categories, err := s.categories.ListByType(r.Context(), uid, core.ItemType(r.PathValue("type")))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"categories": toCategoryListJSON(categories)})
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.categories.Create(r.Context(), core.Category{
		Name:   sanitizeInput(req.Name),
		Icon:   sanitizeInput(req.Icon),
		Color:  sanitizeInput(req.Color),
		Type:   core.ItemType(req.Type),
		UserID: uid,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	slog.InfoContext(r.Context(), "Category created via API",
		"id", created.ID, "name", created.Name, "user_id", uid)
	respondMessage(w, http.StatusCreated, "category created", map[string]any{"category": toCategoryJSON(created)})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
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

	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.categories.Update(r.Context(), uid, id,
		sanitizeInput(req.Name), sanitizeInput(req.Icon), sanitizeInput(req.Color))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "category updated", map[string]any{"category": toCategoryJSON(updated)})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
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

	if err := s.categories.Delete(r.Context(), uid, id); err != nil {
		respondError(w, r, err)
		return
	}

	respondMessage(w, http.StatusOK, "category deleted", nil)
}
