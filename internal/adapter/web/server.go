package web

import (
	_ "embed"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang/glog"

	"github.com/atcwiz/xrp-dashboard/internal/domain"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/dashboard"
	"github.com/atcwiz/xrp-dashboard/internal/usecase/status"
)

// DocumentRoute is where the page expects the dashboard document, relative to itself
const DocumentRoute = "/xrp_consolidated_dashboard.json"

//go:embed static/index.html
var indexHTML []byte

// Handler serves the dashboard page and its read-only API
type Handler struct {
	DashboardService *dashboard.DashboardService
	DashboardRepo    domain.DashboardRepository
	Tracker          *status.Tracker   // optional
	Cache            domain.QuoteCache // optional
	VsCurrency       string            // suffix of the metric keys the page reads
}

// NewHandler creates a new Handler instance
func NewHandler(
	dashboardService *dashboard.DashboardService,
	dashboardRepo domain.DashboardRepository,
	tracker *status.Tracker,
	cache domain.QuoteCache,
	vsCurrency string,
) *Handler {
	return &Handler{
		DashboardService: dashboardService,
		DashboardRepo:    dashboardRepo,
		Tracker:          tracker,
		Cache:            cache,
		VsCurrency:       strings.ToLower(vsCurrency),
	}
}

// NewRouter wires the routes. Only GET requests are served.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.SetTrustedProxies(nil)

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/", h.Index)
	r.GET(DocumentRoute, h.Document)

	api := r.Group("/api")
	{
		api.GET("/settings", h.Settings)
		api.GET("/summary", h.Summary)
		api.GET("/status", h.Status)
		api.GET("/quote", h.Quote)
	}

	return r
}

// Index serves the embedded dashboard page
func (h *Handler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

// Document serves the dashboard document exactly as stored
func (h *Handler) Document(c *gin.Context) {
	raw, err := h.DashboardRepo.Raw(c.Request.Context())
	if err != nil {
		glog.Errorf("Serving dashboard document: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard document unavailable"})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// Settings tells the page which metric keys to read from the document
func (h *Handler) Settings(c *gin.Context) {
	keys := domain.MetricsKeysFor(h.VsCurrency)
	c.JSON(http.StatusOK, gin.H{
		"vs_currency": h.VsCurrency,
		"metric_keys": gin.H{
			"price":      keys.Price,
			"change_24h": keys.Change24h,
			"market_cap": keys.MarketCap,
			"volume_24h": keys.Volume24h,
		},
	})
}

// Summary returns the aggregated scenario/trigger view
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.DashboardService.GetSummary(c.Request.Context(), c.Query("horizon"))
	if err != nil {
		glog.Errorf("Building dashboard summary: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

type cycleResponse struct {
	RunID      string        `json:"run_id"`
	Cycle      int           `json:"cycle"`
	OK         bool          `json:"ok"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Quote      *domain.Quote `json:"quote,omitempty"`
}

type statusResponse struct {
	Last        cycleResponse  `json:"last"`
	LastSuccess *cycleResponse `json:"last_success,omitempty"`
	Cycles      int            `json:"cycles_kept"`
}

func toCycleResponse(r status.CycleResult) cycleResponse {
	resp := cycleResponse{
		RunID:      r.RunID.String(),
		Cycle:      r.Cycle,
		OK:         r.OK(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Quote:      r.Quote,
	}
	if r.Err != nil {
		resp.Error = r.Err.Error()
	}
	return resp
}

// Status reports the most recent update cycle
func (h *Handler) Status(c *gin.Context) {
	if h.Tracker == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no update cycle has run"})
		return
	}
	last, ok := h.Tracker.Last()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no update cycle has run"})
		return
	}

	resp := statusResponse{
		Last:   toCycleResponse(last),
		Cycles: len(h.Tracker.History()),
	}
	if success, ok := h.Tracker.LastSuccess(); ok {
		s := toCycleResponse(success)
		resp.LastSuccess = &s
	}
	c.JSON(http.StatusOK, resp)
}

// Quote returns the latest quote from the cache, falling back to the tracker
func (h *Handler) Quote(c *gin.Context) {
	if h.Cache != nil {
		quote, err := h.Cache.GetLatest(c.Request.Context())
		if err != nil {
			glog.Warningf("Reading cached quote: %v", err)
		} else if quote != nil {
			c.JSON(http.StatusOK, quote)
			return
		}
	}

	if h.Tracker != nil {
		if success, ok := h.Tracker.LastSuccess(); ok {
			c.JSON(http.StatusOK, success.Quote)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "no quote available"})
}
