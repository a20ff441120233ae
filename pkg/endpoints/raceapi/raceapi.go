package raceapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/pkg/endpoints/utils"
	"github.com/mpapenbr/f1-visual-simulator/pkg/model"
	"github.com/mpapenbr/f1-visual-simulator/pkg/race"
	"github.com/mpapenbr/f1-visual-simulator/pkg/utils/broadcast"
)

var errStreamUnavailable = errors.New("live stream not available")

type (
	RaceManager struct {
		ctrl   *race.Controller
		bcst   broadcast.BroadcastServer[race.Snapshot]
		tracer trace.Tracer
		l      *log.Logger
	}
	Option func(*RaceManager)

	PauseResponse struct {
		Phase race.Phase `json:"phase"`
	}
	TyreOption struct {
		ID model.TyreCompound `json:"id"`
		model.TyreSpec
	}
	TrackOption struct {
		ID model.TrackType `json:"id"`
		model.TrackSpec
	}
	Range struct {
		Min int `json:"min"`
		Max int `json:"max"`
	}
	Bounds struct {
		TotalLaps Range `json:"totalLaps"`
		NumRivals Range `json:"numRivals"`
		TrackTemp Range `json:"trackTemp"`
	}
	OptionsResponse struct {
		Tyres          []TyreOption         `json:"tyres"`
		Tracks         []TrackOption        `json:"tracks"`
		Strategies     []model.Strategy     `json:"strategies"`
		Weather        []model.Weather      `json:"weather"`
		AIDifficulties []model.AIDifficulty `json:"aiDifficulties"`
		Bounds         Bounds               `json:"bounds"`
		Defaults       model.RaceConfig     `json:"defaults"`
	}
)

// WithBroadcast enables the live stream endpoint
func WithBroadcast(bcst broadcast.BroadcastServer[race.Snapshot]) Option {
	return func(m *RaceManager) {
		m.bcst = bcst
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(m *RaceManager) {
		m.tracer = tracer
	}
}

func WithLogger(l *log.Logger) Option {
	return func(m *RaceManager) {
		m.l = l
	}
}

func NewRaceManager(ctrl *race.Controller, opts ...Option) *RaceManager {
	ret := &RaceManager{
		ctrl:   ctrl,
		tracer: otel.Tracer("f1sim.raceapi"),
		l:      log.Default().Named("raceapi"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (m *RaceManager) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/race", m.getRace)
	mux.HandleFunc("POST /api/race/start", m.start)
	mux.HandleFunc("POST /api/race/pause", m.pause)
	mux.HandleFunc("POST /api/race/reset", m.reset)
	mux.HandleFunc("GET /api/race/history", m.history)
	mux.HandleFunc("GET /api/race/events", m.events)
	mux.HandleFunc("GET /api/race/stream", m.stream)
	mux.HandleFunc("GET /api/config/options", m.options)
}

func (m *RaceManager) getRace(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, m.ctrl.Snapshot())
}

// start accepts a partial configuration. Missing values are taken from
// the current configuration of the controller.
func (m *RaceManager) start(w http.ResponseWriter, r *http.Request) {
	ctx, span := m.tracer.Start(r.Context(), "race.start")
	defer span.End()
	l := m.l.With(log.String("traceId",
		trace.SpanContextFromContext(ctx).TraceID().String()))

	cfg := m.ctrl.Config()
	if err := utils.DecodeJSON(r, &cfg); err != nil {
		span.SetStatus(codes.Error, err.Error())
		l.Debug("invalid start request", log.ErrorField(err))
		utils.WriteError(w, http.StatusBadRequest, err)
		return
	}
	span.SetAttributes(
		attribute.Int("race.laps", cfg.TotalLaps),
		attribute.Int("race.rivals", cfg.NumRivals),
		attribute.String("race.track", cfg.TrackType.String()))

	snap, err := m.ctrl.Start(cfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.Debug("race not started", log.ErrorField(err))
		switch {
		case errors.Is(err, model.ErrInvalidConfig):
			utils.WriteError(w, http.StatusBadRequest, err)
		case errors.Is(err, race.ErrRaceInProgress):
			utils.WriteError(w, http.StatusConflict, err)
		default:
			utils.WriteError(w, http.StatusInternalServerError, err)
		}
		return
	}
	span.SetAttributes(attribute.String("race.id", snap.RaceID))
	l.Debug("start request accepted", log.String("raceId", snap.RaceID))
	utils.WriteJSON(w, http.StatusCreated, snap)
}

func (m *RaceManager) pause(w http.ResponseWriter, r *http.Request) {
	phase, err := m.ctrl.TogglePause()
	if err != nil {
		utils.WriteError(w, http.StatusConflict, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, PauseResponse{Phase: phase})
}

func (m *RaceManager) reset(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, m.ctrl.Reset())
}

func (m *RaceManager) history(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, m.ctrl.Snapshot().History)
}

func (m *RaceManager) events(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, m.ctrl.Snapshot().Events)
}

func (m *RaceManager) options(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, OptionsResponse{
		Tyres: lo.Map(model.TyreCompounds(), func(t model.TyreCompound, _ int) TyreOption {
			return TyreOption{ID: t, TyreSpec: t.Spec()}
		}),
		Tracks: lo.Map(model.TrackTypes(), func(t model.TrackType, _ int) TrackOption {
			return TrackOption{ID: t, TrackSpec: t.Spec()}
		}),
		Strategies:     model.Strategies(),
		Weather:        []model.Weather{model.WeatherDry, model.WeatherWet},
		AIDifficulties: []model.AIDifficulty{model.AIEasy, model.AIMedium, model.AIHard},
		Bounds: Bounds{
			TotalLaps: Range{Min: model.MinTotalLaps, Max: model.MaxTotalLaps},
			NumRivals: Range{Min: model.MinRivals, Max: model.MaxRivals},
			TrackTemp: Range{Min: model.MinTrackTemp, Max: model.MaxTrackTemp},
		},
		Defaults: model.DefaultRaceConfig(),
	})
}

// stream sends the current snapshot followed by one "lap" event per
// lap update until the client disconnects.
func (m *RaceManager) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if m.bcst == nil || !ok {
		utils.WriteError(w, http.StatusServiceUnavailable, errStreamUnavailable)
		return
	}
	ch := m.bcst.Subscribe()
	defer m.bcst.CancelSubscription(ch)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "snapshot", m.ctrl.Snapshot()); err != nil {
		return
	}
	flusher.Flush()
	m.l.Debug("stream client connected", log.String("remote", r.RemoteAddr))
	for {
		select {
		case <-r.Context().Done():
			m.l.Debug("stream client disconnected", log.String("remote", r.RemoteAddr))
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, "lap", snap); err != nil {
				m.l.Debug("stream write failed", log.ErrorField(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
