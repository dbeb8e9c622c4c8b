package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/limaJavier/sectiontable/internal/logger"
	"github.com/limaJavier/sectiontable/internal/metrics"
	"github.com/limaJavier/sectiontable/internal/service"
	"github.com/limaJavier/sectiontable/pkg/model"
)

type timetableService interface {
	Generate(ctx context.Context, req service.GenerateRequest) (*service.Result, error)
	Current() (*service.Result, error)
	Section(section int) (*service.SectionView, error)
	DefaultInput() model.ModelInput
}

type Handler struct {
	service timetableService
	metrics *metrics.Metrics
}

func NewHandler(svc timetableService, m *metrics.Metrics) *Handler {
	return &Handler{service: svc, metrics: m}
}

// NewRouter wires every route behind request id, logging, metrics and panic recovery middleware
func NewRouter(h *Handler, l *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), logger.RequestID(), logger.GinMiddleware(l), h.metrics.Middleware())

	router.GET("/health", h.Health)
	router.GET("/metrics", gin.WrapH(h.metrics.Handler()))

	api := router.Group("/api/v1")
	api.GET("/dataset", h.Dataset)
	api.POST("/timetables", h.Generate)
	api.GET("/timetables/current", h.Current)
	api.GET("/timetables/current/sections/:section", h.Section)

	return router
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Dataset(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{
		"input":        h.service.DefaultInput(),
		"bellSchedule": model.DefaultBellSchedule,
		"blockStarts":  model.DefaultBlockStarts,
		"days":         model.DayNames,
	}, nil)
}

func (h *Handler) Generate(c *gin.Context) {
	var req service.GenerateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, &service.Error{Code: service.ErrValidation.Code, Status: http.StatusBadRequest, Message: "invalid request body", Err: err})
			return
		}
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, result, map[string]any{"requestId": logger.RequestIDValue(c)})
}

func (h *Handler) Current(c *gin.Context) {
	result, err := h.service.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result, nil)
}

func (h *Handler) Section(c *gin.Context) {
	section, err := strconv.Atoi(c.Param("section"))
	if err != nil {
		respondError(c, &service.Error{Code: service.ErrValidation.Code, Status: http.StatusBadRequest, Message: "section must be a number", Err: err})
		return
	}

	view, err := h.service.Section(section)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, view, nil)
}

// Run serves until the context is cancelled, then shuts down gracefully
func Run(ctx context.Context, port int, router http.Handler, l *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	l.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}
