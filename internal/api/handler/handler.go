package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DIvanCode/rwlock/internal/api"
	"github.com/DIvanCode/rwlock/internal/lib/locker"
	"github.com/DIvanCode/rwlock/internal/observer"
	"github.com/DIvanCode/rwlock/internal/scenario"
	"github.com/DIvanCode/rwlock/internal/tester"
	. "github.com/DIvanCode/rwlock/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handler struct {
	tester *tester.Tester
	// A scenario runs at most once at a time.
	running *locker.Locker[string]

	// Optional, the matching routes are not registered when nil.
	recorder *observer.Recorder
	gatherer prometheus.Gatherer

	log *slog.Logger
}

func NewHandler(
	log *slog.Logger,
	tester *tester.Tester,
	recorder *observer.Recorder,
	gatherer prometheus.Gatherer,
) *Handler {
	return &Handler{
		tester:   tester,
		running:  locker.NewLocker[string](),
		recorder: recorder,
		gatherer: gatherer,
		log:      log,
	}
}

func (h *Handler) Register(mux chi.Router) {
	mux.Get("/scenarios", h.handleListScenarios)
	mux.Post("/scenarios/{name}/run", h.handleRunScenario)
	if h.recorder != nil {
		mux.Get("/trace", h.handleTrace)
	}
	if h.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	}
}

func (h *Handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	var resp api.ListScenariosResponse
	for _, s := range scenario.All() {
		resp.Scenarios = append(resp.Scenarios, api.ScenarioInfo{
			Name:        s.Name,
			Description: s.Description,
		})
	}
	h.writeJSON(w, resp)
}

func (h *Handler) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	s, err := scenario.Lookup(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, ErrUnknownScenario) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := h.running.TryLock(s.Name); err != nil {
		http.Error(w, ErrScenarioRunning.Error(), http.StatusConflict)
		return
	}
	defer h.running.Unlock(s.Name)

	res := h.tester.RunOne(r.Context(), s)

	resp := api.RunResponse{
		Name:           res.Name,
		DurationMicros: res.Duration.Microseconds(),
		Passed:         res.Passed(),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}
	h.writeJSON(w, resp)
}

func (h *Handler) handleTrace(w http.ResponseWriter, r *http.Request) {
	events := h.recorder.Drain()

	resp := api.TraceResponse{
		Events:  make([]api.TraceEvent, 0, len(events)),
		Dropped: h.recorder.Dropped(),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, api.NewTraceEvent(e))
	}
	h.writeJSON(w, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
