package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/goliatone/go-admin-hub/components/dashboard"
	"github.com/goliatone/go-admin-hub/components/dashboard/commands"
	"github.com/goliatone/go-admin-hub/components/dashboard/queries"
)

const maxBodyBytes = 1 << 20

// Handlers exposes HTTP endpoints backed by an Executor. Controller and
// Broadcast are optional; without them the HTML page and the live theme
// streams answer 404.
type Handlers struct {
	Exec       Executor
	Controller *dashboard.Controller
	Broadcast  *dashboard.BroadcastHook
	// DealsPrefix namespaces table parameters on the deals endpoint.
	DealsPrefix string
}

// HandlePage renders the dashboard HTML.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		http.NotFound(w, r)
		return
	}
	var buf bytes.Buffer
	if err := h.Controller.RenderTemplate(r.Context(), pageRequest(r), &buf); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// HandleLayoutPayload returns the template payload as JSON.
func (h *Handlers) HandleLayoutPayload(w http.ResponseWriter, r *http.Request) {
	if h.Controller == nil {
		layout, err := h.Exec.Layout(r.Context(), pageRequest(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, layout)
		return
	}
	payload, err := h.Controller.LayoutPayload(r.Context(), pageRequest(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// HandleStylesheet serves the CSS variables for every preset.
func (h *Handlers) HandleStylesheet(w http.ResponseWriter, r *http.Request) {
	selection, err := h.Exec.Theme(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=300")
	_, _ = io.WriteString(w, dashboard.ThemeStylesheet(selection.Attribute))
}

// HandleDeals returns one page of the deals table. The query string uses
// the datatable parameters: sort, filter.<column>, page, size and hide.
func (h *Handlers) HandleDeals(w http.ResponseWriter, r *http.Request) {
	page, err := h.Exec.Deals(r.Context(), queries.DealsInput{
		Query:  r.URL.Query(),
		Prefix: h.DealsPrefix,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// HandleNavigation returns the sidebar resolved for ?path=.
func (h *Handlers) HandleNavigation(w http.ResponseWriter, r *http.Request) {
	sidebar, err := h.Exec.Navigation(r.Context(), r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sidebar)
}

// HandleGetTheme reports the active preset.
func (h *Handlers) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	selection, err := h.Exec.Theme(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selection)
}

// HandleSetTheme switches the preset from a {"preset": "..."} body.
func (h *Handlers) HandleSetTheme(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetThemePresetInput
	if !decodeJSON(w, r, &payload) {
		return
	}
	selection, err := h.Exec.SetTheme(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selection)
}

// HandleThemeEvents streams preset changes as server-sent events.
func (h *Handlers) HandleThemeEvents(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.NotFound(w, r)
		return
	}
	h.Broadcast.ServeSSE(w, r)
}

// HandleThemeSocket streams preset changes over a WebSocket.
func (h *Handlers) HandleThemeSocket(w http.ResponseWriter, r *http.Request) {
	if h.Broadcast == nil {
		http.NotFound(w, r)
		return
	}
	h.Broadcast.ServeWebSocket(w, r)
}

func (h *Handlers) HandleAssignWidget(w http.ResponseWriter, r *http.Request) {
	var payload commands.AssignWidgetInput
	if !decodeJSON(w, r, &payload) {
		return
	}
	inst, err := h.Exec.Assign(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inst)
}

func (h *Handlers) HandleUpdateWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	var payload commands.UpdateWidgetInput
	if !decodeJSON(w, r, &payload) {
		return
	}
	payload.WidgetID = widgetID
	inst, err := h.Exec.Update(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inst)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, widgetID string) {
	input := commands.RemoveWidgetInput{WidgetID: widgetID}
	if err := h.Exec.Remove(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleReorderWidgets(w http.ResponseWriter, r *http.Request) {
	var payload commands.ReorderWidgetsInput
	if !decodeJSON(w, r, &payload) {
		return
	}
	order, err := h.Exec.Reorder(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ReorderBody{Status: "reordered", Order: order})
}

// HandlePurgeCharts drops cached chart renders matching ?prefix=.
func (h *Handlers) HandlePurgeCharts(w http.ResponseWriter, r *http.Request) {
	purged, err := h.Exec.PurgeCharts(r.Context(), commands.PurgeChartsInput{
		Prefix: r.URL.Query().Get("prefix"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"purged": purged})
}

// ReorderBody reports the area order after a reorder.
type ReorderBody struct {
	Status string   `json:"status"`
	Order  []string `json:"order"`
}

func pageRequest(r *http.Request) dashboard.PageRequest {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}
	return dashboard.PageRequest{Path: path, Query: r.URL.Query()}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, ErrorBody{Error: "invalid JSON body: " + err.Error()})
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), NewErrorBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
