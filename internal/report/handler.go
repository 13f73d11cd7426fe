package report

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/frahmantamala/asset-inventory/internal/auth"
	"github.com/frahmantamala/asset-inventory/internal/transport"
)

type ServiceAPI interface {
	Register(ctx context.Context, who auth.Identity) ([]Row, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, svc ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     svc,
	}
}

// PrintAssets handles GET /assets/print and answers with a CSV download.
func (h *Handler) PrintAssets(w http.ResponseWriter, r *http.Request) {
	who, _ := auth.IdentityFromContext(r.Context())

	rows, err := h.Service.Register(r.Context(), who)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("assets-%s.csv", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)

	if err := WriteCSV(w, rows); err != nil {
		h.Logger.Error("PrintAssets: failed to write csv", "error", err)
	}
}
