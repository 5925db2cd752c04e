// Package server exposes the pipeline over HTTP: trigger analyses, read
// trends, compare products and list the registry.
package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/infblueocean/briefd/internal/compare"
	"github.com/infblueocean/briefd/internal/logging"
	"github.com/infblueocean/briefd/internal/signal"
	"github.com/infblueocean/briefd/internal/store"
)

// maxCompetitors caps how many competitors one analyze request may name.
const maxCompetitors = 3

// Runner triggers pipeline runs. Implemented by pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, product string, terms []string) (signal.Report, error)
	RunCompetitive(ctx context.Context, product string, competitors []string) (signal.CompetitiveReport, error)
}

// Storage is the read side the API serves from. Implemented by store.Store.
type Storage interface {
	LatestSnapshot(product string) (store.WeeklySnapshot, error)
	ThemeSnapshots(product, weekID string) ([]store.ThemeSnapshot, error)
	Trend(product string) (store.Trend, error)
	Products() ([]store.Product, error)
}

// Server is the briefd HTTP API.
type Server struct {
	runner  Runner
	storage Storage
}

// New creates a Server.
func New(runner Runner, storage Storage) *Server {
	return &Server{runner: runner, storage: storage}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", s.handleHealth)
	r.POST("/api/analyze", s.handleAnalyze)
	r.GET("/api/trend/:product", s.handleTrend)
	r.GET("/api/compare", s.handleCompare)
	r.GET("/api/products", s.handleProducts)

	return r
}

// Serve runs the API until the listener fails.
func (s *Server) Serve(addr string) error {
	logging.Info("api listening", "addr", addr)
	return s.Router().Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type analyzeRequest struct {
	Product     string   `json:"product"`
	Competitors []string `json:"competitors"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Product == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product is required"})
		return
	}
	if len(req.Competitors) > maxCompetitors {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at most 3 competitors"})
		return
	}

	if len(req.Competitors) == 0 {
		report, err := s.runner.Run(c.Request.Context(), req.Product, nil)
		if err != nil {
			logging.Error("analyze failed", "product", req.Product, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	report, err := s.runner.RunCompetitive(c.Request.Context(), req.Product, req.Competitors)
	if err != nil {
		logging.Error("competitive analyze failed", "product", req.Product, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleTrend(c *gin.Context) {
	product := c.Param("product")

	trend, err := s.storage.Trend(product)
	switch {
	case errors.Is(err, store.ErrInsufficientHistory), errors.Is(err, store.ErrMissingSnapshot):
		// Not enough weeks yet. The product key still answers, trend is null.
		c.JSON(http.StatusOK, gin.H{"product": product, "trend": nil})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"product": product,
		"trend": gin.H{
			"pfi_change":           trend.PFIChange,
			"negative_rate_change": trend.NegativeRateChange,
		},
	}
	if latest, err := s.storage.LatestSnapshot(product); err == nil {
		resp["latest"] = gin.H{
			"week_id":       latest.WeekID,
			"pfi":           latest.PFI,
			"negative_rate": latest.NegativeRate,
			"total_signals": latest.TotalSignals,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleCompare(c *gin.Context) {
	product := c.Query("product")
	competitor := c.Query("competitor")
	if product == "" || competitor == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product and competitor are required"})
		return
	}

	cmp, err := compare.Products(s.storage, product, competitor)
	if errors.Is(err, store.ErrMissingSnapshot) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, cmp)
}

func (s *Server) handleProducts(c *gin.Context) {
	products, err := s.storage.Products()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(products))
	for _, p := range products {
		out = append(out, gin.H{
			"name":            p.Name,
			"normalized_name": p.NormalizedName,
			"category":        p.Category,
			"playstore_id":    p.PlayStoreID,
			"appstore_id":     p.AppStoreID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}
