package asset

import (
	"context"
	"net/http"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/transport"
)

type ServiceAPI interface {
	CreateAsset(ctx context.Context, who auth.Identity, dto AssetDTO) (*Asset, error)
	GetAsset(ctx context.Context, who auth.Identity, id int64) (*Asset, error)
	UpdateAsset(ctx context.Context, who auth.Identity, id int64, dto AssetDTO) (*Asset, error)
	DeleteAsset(ctx context.Context, who auth.Identity, id int64) error
	ListAssets(ctx context.Context, who auth.Identity) ([]*Asset, error)
	SearchAssets(ctx context.Context, who auth.Identity, keyword string) ([]*Asset, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// ListAssets serves GET /assets. With a q parameter it searches instead.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	var (
		assets []*Asset
		err    error
	)
	query := r.URL.Query()
	keyword := query.Get("q")
	if query.Has("q") {
		assets, err = h.Service.SearchAssets(r.Context(), who, keyword)
	} else {
		assets, err = h.Service.ListAssets(r.Context(), who)
	}
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AssetsResponse{
		Assets: assets,
		Count:  len(assets),
		Query:  keyword,
	})
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	var dto AssetDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("CreateAsset: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.Service.CreateAsset(r.Context(), who, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	id, ok := h.IDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	found, err := h.Service.GetAsset(r.Context(), who, id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) UpdateAsset(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	id, ok := h.IDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	var dto AssetDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("UpdateAsset: invalid request body", "error", err, "asset_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.Service.UpdateAsset(r.Context(), who, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	id, ok := h.IDParam(r, "id")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, "invalid asset ID")
		return
	}

	if err := h.Service.DeleteAsset(r.Context(), who, id); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
