package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/batmedia/docpress/internal/export"
	"github.com/batmedia/docpress/internal/httpx"
	"github.com/batmedia/docpress/internal/models"
	"github.com/batmedia/docpress/internal/session"
	"github.com/batmedia/docpress/internal/store"
)

// HistoryHandler manages the saved-snapshot collection and restores
// snapshots back into the workspace.
type HistoryHandler struct {
	ws       *session.Workspace
	st       *store.Store
	exporter *export.Exporter
	log      *zap.Logger
}

func NewHistoryHandler(ws *session.Workspace, st *store.Store, exporter *export.Exporter, log *zap.Logger) *HistoryHandler {
	return &HistoryHandler{ws: ws, st: st, exporter: exporter, log: log}
}

// List returns the history, newest first.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.st.LoadHistory())
}

// Save captures the workspace as a Snapshot (with thumbnail) and writes the
// matching SaleRecord. A thumbnail failure downgrades to a snapshot without
// one rather than losing the save.
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	snap := h.ws.Snapshot()
	thumb, err := h.exporter.Thumbnail(h.ws, snap.Kind)
	if err != nil {
		h.log.Warn("snapshot thumbnail failed", zap.Error(err))
	} else {
		snap.Thumb = thumb
	}
	if err := h.st.AddSnapshot(snap); err != nil {
		h.log.Error("save snapshot", zap.Error(err))
		httpx.Toast(w, http.StatusInternalServerError, "Could not save to history")
		return
	}
	rec := models.SaleRecord{
		ID:        snap.ID,
		CreatedAt: snap.CreatedAt,
		Kind:      snap.Kind,
		DocNumber: snap.Meta.DocNumber,
		Customer:  snap.Meta.BillTo,
		Total:     snap.Total,
		Paid:      snap.Paid,
	}
	if err := h.st.AddSaleRecord(rec); err != nil {
		h.log.Error("save sale record", zap.Error(err))
	}
	httpx.Toast(w, http.StatusCreated, "Saved to history")
}

func (h *HistoryHandler) id(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.FormValue("id"), 10, 64)
	return id, err == nil
}

// Delete removes exactly one snapshot by its id.
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "bad_id", nil)
		return
	}
	if err := h.st.DeleteSnapshot(id); err != nil {
		h.log.Error("delete snapshot", zap.Error(err))
		httpx.Toast(w, http.StatusInternalServerError, "Could not delete entry")
		return
	}
	httpx.Toast(w, http.StatusOK, "Deleted")
}

// Load restores a snapshot into the workspace.
func (h *HistoryHandler) Load(w http.ResponseWriter, r *http.Request) {
	id, ok := h.id(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "bad_id", nil)
		return
	}
	snap, found := h.st.FindSnapshot(id)
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	h.ws.ApplySnapshot(snap)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download restores a snapshot and returns its PNG capture in one step. The
// restore is applied to the workspace first, then captured synchronously;
// the projection is already current when the raster runs.
func (h *HistoryHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "bad_id", nil)
		return
	}
	snap, found := h.st.FindSnapshot(id)
	if !found {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	h.ws.ApplySnapshot(snap)
	dpi := 0
	if v := r.URL.Query().Get("dpi"); v != "" {
		if n, perr := strconv.Atoi(v); perr == nil {
			dpi = n
		}
	}
	name, data, err := h.exporter.PNG(h.ws, dpi)
	if err != nil {
		h.log.Warn("history download failed", zap.Error(err))
		httpx.Toast(w, http.StatusInternalServerError, "Export failed, please try again")
		return
	}
	if snap.Meta.DocNumber == "" {
		// fall back to the snapshot id rather than a fresh timestamp
		name = snap.Kind + "_" + strconv.FormatInt(snap.ID, 10) + ".png"
	}
	httpx.Download(w, name, "image/png", data)
}
