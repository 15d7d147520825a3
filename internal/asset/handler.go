package asset

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/asset-management/internal/auth"
	"github.com/frahmantamala/asset-management/internal/transport"
	"github.com/frahmantamala/asset-management/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreatePc(ctx context.Context, dto CreatePcDTO, actor string) (*PcWithEmployee, error)
	GetPc(id int64) (*PcWithEmployee, error)
	ListPcs(f FilterState) ([]*PcWithEmployee, error)
	UpdatePc(ctx context.Context, id int64, dto UpdatePcDTO, actor string) (*PcWithEmployee, error)
	DeletePc(id int64) error
	AssignPc(ctx context.Context, id int64, dto AssignPcDTO, actor string) (*PcWithEmployee, error)
	UnassignPc(ctx context.Context, id int64, actor string) (*PcWithEmployee, error)
	SetStatus(ctx context.Context, id int64, dto SetStatusDTO, actor string) (*PcWithEmployee, error)
	HistoryForPc(id int64) ([]*History, error)
	HistoryBySerialPrefix(prefix string) ([]*History, error)
	Notifications() ([]Notification, error)
	ExportCSV(f FilterState) (filename string, data string, err error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreatePc(w http.ResponseWriter, r *http.Request) {
	var dto CreatePcDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.CreatePc(r.Context(), dto, actorName(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("pc created", "pc_id", p.ID, "asset_tag", p.AssetTag)
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) GetPc(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	p, svcErr := h.Service.GetPc(id)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListPcs(w http.ResponseWriter, r *http.Request) {
	pcs, err := h.Service.ListPcs(FilterStateFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pcs":   pcs,
		"total": len(pcs),
	})
}

func (h *Handler) UpdatePc(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	var dto UpdatePcDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, svcErr := h.Service.UpdatePc(r.Context(), id, dto, actorName(r))
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) DeletePc(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	if svcErr := h.Service.DeletePc(id); svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AssignPc(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	var dto AssignPcDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, svcErr := h.Service.AssignPc(r.Context(), id, dto, actorName(r))
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.Logger.Info("pc assigned", "pc_id", p.ID, "employee_id", dto.EmployeeID)
	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UnassignPc(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	p, svcErr := h.Service.UnassignPc(r.Context(), id, actorName(r))
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	var dto SetStatusDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, svcErr := h.Service.SetStatus(r.Context(), id, dto, actorName(r))
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid pc ID")
		return
	}

	history, svcErr := h.Service.HistoryForPc(id)
	if svcErr != nil {
		h.HandleServiceError(w, svcErr)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}

// SearchHistory looks up audit rows by serial number prefix, which keeps the
// trail reachable after the pc record itself was deleted.
func (h *Handler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Service.HistoryBySerialPrefix(r.URL.Query().Get("serial_prefix"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": history,
	})
}

func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := h.Service.Notifications()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": notifications,
	})
}

func (h *Handler) ExportPcs(w http.ResponseWriter, r *http.Request) {
	filename, data, err := h.Service.ExportCSV(FilterStateFromQuery(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(data)); err != nil {
		h.Logger.Error("failed to write csv response", "error", err)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func actorName(r *http.Request) string {
	if u, ok := auth.UserFromContext(r.Context()); ok {
		return u.Username
	}
	return ""
}
