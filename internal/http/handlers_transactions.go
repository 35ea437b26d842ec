package http

import (
	"net/http"
	"strings"

	"finctl/internal/core"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	scope, err := parseScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	transactions, err := s.ledger.List(r.Context(), uid, scope)
	if err != nil {
		respondError(w, r, err)
		return
	}
	byID, err := s.categoryIndex(r, uid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]transactionJSON, len(transactions))
	for i, t := range transactions {
		out[i] = toTransactionJSON(t, byID)
	}
	respond(w, http.StatusOK, map[string]any{"transactions": out})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
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

	t, err := s.ledger.Get(r.Context(), uid, id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	byID, err := s.categoryIndex(r, uid)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{"transaction": toTransactionJSON(t, byID)})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	t, err := s.transactionFromBody(r, uid, 0)
	if err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Delete(summaryCacheKey(uid))

	byID, err := s.categoryIndex(r, uid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "transaction created",
		map[string]any{"transaction": toTransactionJSON(created, byID)})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	t, err := s.transactionFromBody(r, uid, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.ledger.Update(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Delete(summaryCacheKey(uid))

	byID, err := s.categoryIndex(r, uid)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "transaction updated",
		map[string]any{"transaction": toTransactionJSON(updated, byID)})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.ledger.Delete(r.Context(), uid, id); err != nil {
		respondError(w, r, err)
		return
	}
	s.summaryCache.Delete(summaryCacheKey(uid))

	respondMessage(w, http.StatusOK, "transaction deleted", nil)
}

// handleSummaryOverview serves the all-time totals. The unscoped overview is
// the hottest read, so it sits behind the TTL cache; any scoped request is
// computed fresh.
func (s *Server) handleSummaryOverview(w http.ResponseWriter, r *http.Request) {
	uid, err := userID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	scope, err := parseScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	breakdown := strings.EqualFold(r.URL.Query().Get("breakdown"), "true")

	unscoped := scope.Year == 0 && scope.CategoryID == 0 && scope.Type == "" && !breakdown
	if unscoped {
		if cached, ok := s.summaryCache.Get(summaryCacheKey(uid)); ok {
			respond(w, http.StatusOK, toSummaryJSON(cached))
			return
		}
	}

	sum, err := s.ledger.Summary(r.Context(), uid, scope, breakdown)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if unscoped {
		s.summaryCache.Set(summaryCacheKey(uid), sum)
	}

	respond(w, http.StatusOK, toSummaryJSON(sum))
}

func (s *Server) transactionFromBody(r *http.Request, uid, id int64) (core.Transaction, error) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		return core.Transaction{}, err
	}

	cents, err := req.Amount.Cents()
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		ID:          id,
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Type:        core.ItemType(req.Type),
		CategoryID:  req.CategoryID,
		Date:        date,
		UserID:      uid,
	}, nil
}

func (s *Server) categoryIndex(r *http.Request, uid int64) (map[int64]core.Category, error) {
	categories, err := s.categories.Visible(r.Context(), uid)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]core.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID, nil
}
