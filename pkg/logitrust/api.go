package logitrust

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type analyzeRequest struct {
	Place string `json:"place"`
}

type analyzeResponse struct {
	Place      string `json:"place"`
	Analysis   string `json:"analysis"`
	Disclaimer string `json:"disclaimer"`
}

type errorResponse struct {
	Error string    `json:"error"`
	Kind  errorKind `json:"kind"`
}

func (o *Orchestrator) generateRouter() (*gin.Engine, error) {
	pageTemplate, err := parsePageTemplate()
	if err != nil {
		return nil, err
	}

	router := gin.Default()
	// client addresses come from the connection, not forwarding headers
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}
	router.SetHTMLTemplate(pageTemplate)
	router.Use(sessionMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	router.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, pageTemplateName, page{})
	})

	router.POST("/analyze", func(c *gin.Context) {
		place := c.PostForm("place")

		result, err := o.Analyze(c.Request.Context(), sessionID(c), place)
		if err != nil {
			view := describeError(err)
			c.HTML(view.Status, pageTemplateName, newErrorPage(place, view))
			return
		}

		c.HTML(http.StatusOK, pageTemplateName, newResultPage(result))
	})

	router.POST("/api/analyze", func(c *gin.Context) {
		var req analyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: errorKindValidation})
			return
		}

		result, err := o.Analyze(c.Request.Context(), sessionID(c), req.Place)
		if err != nil {
			view := describeError(err)
			c.JSON(view.Status, errorResponse{Error: view.Message, Kind: view.Kind})
			return
		}

		c.JSON(http.StatusOK, analyzeResponse{
			Place:      result.Place,
			Analysis:   result.Text,
			Disclaimer: Disclaimer,
		})
	})

	return router, nil
}

func (o *Orchestrator) GetRouter() *gin.Engine {
	return o.apiRouter
}

// StartServer listens on the configured address and serves in the background.
// Errors from the background server are sent on the returned channel. It
// returns a nil server when no address is configured.
func (o *Orchestrator) StartServer() (*http.Server, <-chan error, error) {
	slog.Info("starting server", "port", o.apiIpPort)

	if o.apiIpPort == "" {
		slog.Info("api ip port is empty, skipping server")
		return nil, nil, nil
	}

	listener, err := net.Listen("tcp", o.apiIpPort)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on %s: %w", o.apiIpPort, err)
	}

	server := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           o.apiRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErrs := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			serveErrs <- err
		}
	}()

	return server, serveErrs, nil
}
