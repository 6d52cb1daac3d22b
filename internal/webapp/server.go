// Package webapp serves the forecast browsing UI and its JSON API.
package webapp

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/domain"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/observability"
	"github.com/ChaimaBSlima/CareForHospitals-FinalProject/internal/storage"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Top-risk listing bounds.
const (
	topRiskDefault = 15
	topRiskMin     = 5
	topRiskMax     = 50
)

// Server is the forecast web app.
type Server struct {
	store   *ForecastStore
	logger  *slog.Logger
	metrics *observability.Metrics
	engine  *gin.Engine
}

// NewServer wires the routes over a forecast store.
func NewServer(store *ForecastStore, logger *slog.Logger, metrics *observability.Metrics) *Server {
	s := &Server{store: store, logger: logger, metrics: metrics}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.Default())
	engine.Use(s.observe())
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.tmpl")))

	engine.GET("/", s.handleIndex)
	engine.GET("/state/:code", s.handleState)
	engine.GET("/top-risk", s.handleTopRisk)

	engine.GET("/api/forecast", s.handleAPIForecast)
	engine.GET("/api/state/:code", s.handleAPIState)

	engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	engine.GET("/readyz", s.handleReady)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.engine = engine
	return s
}

// Handler exposes the router for the HTTP server and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// observe records per-route request counts and latency.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		s.metrics.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type stateOption struct {
	Code  string
	Label string
}

func (s *Server) handleIndex(c *gin.Context) {
	// Dropdown selection arrives as ?state=XX; send the browser to the
	// state page.
	if selected := c.Query("state"); selected != "" {
		c.Redirect(http.StatusFound, "/state/"+selected)
		return
	}

	records, err := s.store.All()
	if err != nil {
		s.renderError(c, err)
		return
	}

	options := make([]stateOption, 0, len(records))
	seen := make(map[string]bool, len(records))
	for _, st := range domain.USStates {
		if _, ok := s.lookup(records, st); ok && !seen[st] {
			options = append(options, stateOption{Code: st, Label: domain.StateLabel(st)})
			seen[st] = true
		}
	}

	c.HTML(http.StatusOK, "index.tmpl", gin.H{"States": options})
}

// stateView is a forecast record formatted for display.
type stateView struct {
	Code         string
	Label        string
	CurrentWeek  string
	ForecastWeek string
	ICU          string
	Inpatient    string
	RiskProba    string
	RiskLabel    string
	Critical     bool
	Disease      string

	Recommendation string
	NeighborLabel  string
}

func (s *Server) handleState(c *gin.Context) {
	code := c.Param("code")
	rec, ok, err := s.store.State(code)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if !ok {
		c.HTML(http.StatusNotFound, "state.tmpl", gin.H{"NotFound": true, "Code": code})
		return
	}

	data := gin.H{"Data": viewOf(rec)}
	if rec.SuggestedNeighbor != "" {
		if nrec, ok, err := s.store.State(rec.SuggestedNeighbor); err == nil && ok {
			data["Neighbor"] = viewOf(nrec)
		}
	}
	c.HTML(http.StatusOK, "state.tmpl", data)
}

func (s *Server) handleTopRisk(c *gin.Context) {
	n := topRiskDefault
	if raw := c.Query("n"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			n = v
		}
	}
	if n < topRiskMin {
		n = topRiskMin
	}
	if n > topRiskMax {
		n = topRiskMax
	}

	records, err := s.store.TopRisk(n)
	if err != nil {
		s.renderError(c, err)
		return
	}

	views := make([]stateView, len(records))
	for i, r := range records {
		views[i] = viewOf(r)
	}
	c.HTML(http.StatusOK, "top_risk.tmpl", gin.H{"Rows": views, "N": n})
}

func (s *Server) handleAPIForecast(c *gin.Context) {
	records, err := s.store.All()
	if err != nil {
		s.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleAPIState(c *gin.Context) {
	code := c.Param("code")
	rec, ok, err := s.store.State(code)
	if err != nil {
		s.apiError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no forecast for state " + code})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleReady(c *gin.Context) {
	if !s.store.Ready() {
		c.String(http.StatusServiceUnavailable, "forecast data not available")
		return
	}
	c.String(http.StatusOK, "ok")
}

func (s *Server) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var missing *storage.MissingInputError
	if errors.As(err, &missing) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.String(status, err.Error())
}

func (s *Server) apiError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var missing *storage.MissingInputError
	if errors.As(err, &missing) {
		status = http.StatusServiceUnavailable
	}
	s.logger.Error("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) lookup(records []domain.ForecastRecord, code string) (domain.ForecastRecord, bool) {
	for _, r := range records {
		if r.State == code {
			return r, true
		}
	}
	return domain.ForecastRecord{}, false
}

func viewOf(r domain.ForecastRecord) stateView {
	riskLabel := "LOW"
	if r.CriticalPred == 1 {
		riskLabel = "HIGH"
	}
	v := stateView{
		Code:           r.State,
		Label:          domain.StateLabel(r.State),
		CurrentWeek:    r.CurrentWeek.Format("2006-01-02"),
		ForecastWeek:   r.ForecastWeek.Format("2006-01-02"),
		ICU:            fmt.Sprintf("%.1f%%", r.ICUPctPred),
		Inpatient:      fmt.Sprintf("%.1f%%", r.InpatientPctPred),
		RiskProba:      fmt.Sprintf("%.2f", r.CriticalProba),
		RiskLabel:      riskLabel,
		Critical:       r.CriticalPred == 1,
		Disease:        fmt.Sprintf("%.0f", r.DiseaseBurdenPred),
		Recommendation: r.Recommendation,
	}
	if r.SuggestedNeighbor != "" {
		v.NeighborLabel = domain.StateLabel(r.SuggestedNeighbor)
	}
	return v
}
