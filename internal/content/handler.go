// internal/content/handler.go
package content

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"memberhub/internal/access"
	"memberhub/internal/membership"
)

type Handler struct {
	service Service
	members *membership.Handler
}

func NewHandler(service Service, members *membership.Handler) *Handler {
	return &Handler{service: service, members: members}
}

// HandleList serves the catalog, filtered by any of query, category,
// and tier parameters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		Query:    r.URL.Query().Get("query"),
		Category: r.URL.Query().Get("category"),
		Tier:     r.URL.Query().Get("tier"),
	}

	items, err := h.service.Filter(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if items == nil {
		items = []Item{}
	}
	json.NewEncoder(w).Encode(items)
}

// HandleGetItem serves a single item. Premium items require a premium
// session; the listing above stays visible to everyone so free members
// can see what an upgrade unlocks.
func (h *Handler) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid content ID", http.StatusBadRequest)
		return
	}

	item, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrContentNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memberTier := access.TierFree
	if member, ok := h.members.CurrentMember(r); ok {
		memberTier = member.Tier
	}
	if !access.CanAccess(memberTier, item.Tier) {
		http.Error(w, "premium membership required", http.StatusForbidden)
		return
	}

	json.NewEncoder(w).Encode(item)
}

func (h *Handler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(categories)
}
