// Package web exposes the pool status and schedule over HTTP.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/gruberb/isthelclcpoolopen/internal/classify"
	"github.com/gruberb/isthelclcpoolopen/internal/config"
	appLog "github.com/gruberb/isthelclcpoolopen/internal/log"
	"github.com/gruberb/isthelclcpoolopen/internal/model"
	"github.com/gruberb/isthelclcpoolopen/internal/schedule"
	"github.com/gruberb/isthelclcpoolopen/internal/status"
)

// Server provides the HTTP API over a schedule store.
type Server struct {
	cfg   *config.Config
	store *schedule.Store
	mux   *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, store *schedule.Store) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		mux:   http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty credentials count as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// /health stays unauthenticated for probes.
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="poolstatus", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// StartServer runs the HTTP server until ctx is cancelled, then shuts it
// down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, store *schedule.Store) error {
	s := NewServer(cfg, store)
	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/schedule.ics", s.handleScheduleICS)
	s.mux.HandleFunc("/api/refresh", s.handleRefresh)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// featureStatusDTO is the JSON view of one feature's availability.
type featureStatusDTO struct {
	Feature   string     `json:"feature"`
	Open      bool       `json:"open"`
	Kind      string     `json:"kind"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	NextStart *time.Time `json:"next_start,omitempty"`
	Category  string     `json:"category"`
	Label     string     `json:"label"`
	Special   bool       `json:"special"`
	Text      string     `json:"text"`
}

type statusResponse struct {
	Now         time.Time        `json:"now"`
	Timezone    string           `json:"timezone"`
	Lanes       featureStatusDTO `json:"lanes"`
	Kids        featureStatusDTO `json:"kids"`
	LastUpdated time.Time        `json:"last_updated"`
}

// handleStatus answers the two patron questions: is each feature available
// right now, and until (or from) when.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(s.store.Location())

	resp := statusResponse{
		Now:         now,
		Timezone:    s.store.Location().String(),
		Lanes:       featureDTO(model.FeatureLanes, s.store.Status(model.FeatureLanes, now), now),
		Kids:        featureDTO(model.FeatureKids, s.store.Status(model.FeatureKids, now), now),
		LastUpdated: s.store.LastUpdated(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func featureDTO(feature model.Feature, st model.FeatureStatus, now time.Time) featureStatusDTO {
	dto := featureStatusDTO{
		Feature:  string(feature),
		Open:     st.Kind == model.StatusActive,
		Kind:     string(st.Kind),
		Category: string(st.Category),
		Label:    st.Category.Label(),
		Special:  st.Special,
		Text:     status.Text(feature, st, now),
	}
	if st.Kind == model.StatusActive {
		end := st.EndTime
		dto.EndTime = &end
	}
	if st.Kind == model.StatusGap {
		next := st.NextStart
		dto.NextStart = &next
	}
	return dto
}

// eventDTO is the JSON view of one schedule entry with its analysis.
type eventDTO struct {
	ID               string    `json:"id,omitempty"`
	Title            string    `json:"title"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Lanes            bool      `json:"lanes"`
	Kids             bool      `json:"kids"`
	MembersOnly      bool      `json:"members_only"`
	RestrictedAccess bool      `json:"restricted_access"`
	Category         string    `json:"category"`
	LaneCount        int       `json:"lane_count,omitempty"`
}

type scheduleResponse struct {
	Date     string     `json:"date"`
	Timezone string     `json:"timezone"`
	Events   []eventDTO `json:"events"`
}

// handleSchedule returns one facility-timezone day of classified events.
//
// GET /api/schedule?date=2006-01-02 (default: today)
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	loc := s.store.Location()

	day := time.Now().In(loc)
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.ParseInLocation("2006-01-02", v, loc)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
			return
		}
		day = parsed
	}

	events := s.store.EventsForDay(day)
	dtos := make([]eventDTO, 0, len(events))
	for _, ev := range events {
		a := classify.Analyze(model.RawEvent{Title: ev.Title})
		dtos = append(dtos, eventDTO{
			ID:               ev.ID,
			Title:            ev.Title,
			Start:            ev.Start,
			End:              ev.End,
			Lanes:            a.Lanes,
			Kids:             a.Kids,
			MembersOnly:      a.MembersOnly,
			RestrictedAccess: a.RestrictedAccess,
			Category:         string(a.Category),
			LaneCount:        a.LaneCount,
		})
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Date:     day.Format("2006-01-02"),
		Timezone: loc.String(),
		Events:   dtos,
	})
}

// handleScheduleICS exports the current snapshot as an iCalendar feed so
// patrons can subscribe from their own calendar apps.
func (s *Server) handleScheduleICS(w http.ResponseWriter, _ *http.Request) {
	events := s.store.Events()

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//isthelclcpoolopen//Pool Schedule//EN")

	for i, ev := range events {
		uid := ev.ID
		if uid == "" {
			uid = fmt.Sprintf("event-%d-%s", i, ev.Start.Format("20060102T150405"))
		}
		ve := cal.AddEvent(uid + "@isthelclcpoolopen")
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetSummary(ev.Title)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="pool-schedule.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(cal.Serialize())); err != nil {
		appLog.Error("failed to write ICS response", err)
	}
}

// handleRefresh forces an immediate feed refetch.
//
// POST /api/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	if err := s.store.Refresh(r.Context()); err != nil {
		appLog.Error("manual refresh failed", err)
		writeError(w, http.StatusBadGateway, "refresh failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"last_updated": s.store.LastUpdated(),
		"events":       len(s.store.Events()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
