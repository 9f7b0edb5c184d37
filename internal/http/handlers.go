package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shahzadakram74/TradesCaptureService/internal/audit"
	"github.com/shahzadakram74/TradesCaptureService/internal/ingest"
	"github.com/shahzadakram74/TradesCaptureService/internal/models"
	"github.com/shahzadakram74/TradesCaptureService/internal/transform"
)

const apiBase = "/instructions/v1/api"

type Uploader interface {
	ProcessUpload(ctx context.Context, r io.Reader, filename string) (int, error)
}

type AuditLookup interface {
	Get(id string) (models.CanonicalTrade, error)
}

type Server struct {
	R              *gin.Engine
	Uploader       Uploader
	Audit          AuditLookup
	Logger         *zap.Logger
	MaxUploadBytes int64
}

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Processed *int   `json:"processed,omitempty"`
}

type uploadResponse struct {
	Message   string `json:"message"`
	Processed int    `json:"processed"`
	Filename  string `json:"filename"`
}

// auditEntry is the audit record as exposed over HTTP; the account stays masked.
type auditEntry struct {
	CanonicalID string              `json:"canonical_id"`
	Account     string              `json:"account"`
	SecurityID  string              `json:"security_id"`
	TradeType   string              `json:"trade_type"`
	Quantity    *int64              `json:"quantity,omitempty"`
	Price       decimal.NullDecimal `json:"price"`
	Amount      decimal.Decimal     `json:"amount"`
	Timestamp   models.Timestamp    `json:"timestamp"`
}

// NewServer wires the router, pipeline and middleware.
func NewServer(uploader Uploader, lookup AuditLookup, logger *zap.Logger, corsOrigin string, maxUploadBytes int64) *Server {
	g := gin.New()

	// Request logging
	g.Use(func(cn *gin.Context) {
		start := time.Now()
		cn.Next()
		logger.Info("http_request",
			zap.String("method", cn.Request.Method),
			zap.String("path", cn.Request.URL.Path),
			zap.Int("status", cn.Writer.Status()),
			zap.String("ip", cn.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	})

	g.Use(gin.Recovery())

	// CORS
	g.Use(func(cn *gin.Context) {
		origin := cn.GetHeader("Origin")
		cn.Writer.Header().Set("Vary", "Origin")
		cn.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		cn.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		cn.Writer.Header().Set("Access-Control-Max-Age", "86400")
		if corsOrigin == "*" {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" && origin == corsOrigin {
			cn.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
		}
		if cn.Request.Method == http.MethodOptions {
			cn.AbortWithStatus(http.StatusNoContent)
			return
		}
		cn.Next()
	})

	s := &Server{
		R:              g,
		Uploader:       uploader,
		Audit:          lookup,
		Logger:         logger,
		MaxUploadBytes: maxUploadBytes,
	}

	g.GET("/health", func(cn *gin.Context) { cn.JSON(http.StatusOK, gin.H{"ok": true}) })
	api := g.Group(apiBase)
	api.POST("/upload", s.upload)
	api.GET("/trades/:id", s.getTrade)

	return s
}

// --- Helpers ---

func (s *Server) badRequest(c *gin.Context, msg string, processed *int) {
	c.JSON(http.StatusBadRequest, apiError{Code: "bad_request", Message: msg, Processed: processed})
}

func (s *Server) internalError(c *gin.Context, where string, err error, processed *int) {
	s.Logger.Error("internal_error", zap.String("where", where), zap.Error(err))
	c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "Failed to process file.", Processed: processed})
}

// --- Handlers ---

func (s *Server) upload(c *gin.Context) {
	if s.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, apiError{
				Code:    "payload_too_large",
				Message: fmt.Sprintf("File exceeds the %d byte upload limit.", tooLarge.Limit),
			})
			return
		}
		s.badRequest(c, "Please select a file to upload.", nil)
		return
	}
	if fh.Size == 0 {
		s.badRequest(c, "Please select a file to upload.", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.internalError(c, "open upload", err, nil)
		return
	}
	defer f.Close()

	start := time.Now()
	// The upload runs to completion even if the client goes away.
	count, err := s.Uploader.ProcessUpload(context.WithoutCancel(c.Request.Context()), f, fh.Filename)
	switch {
	case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrEmptyInput):
		s.Logger.Warn("upload rejected", zap.String("filename", fh.Filename), zap.Error(err))
		s.badRequest(c, "File upload failed: "+err.Error(), nil)
		return
	case errors.Is(err, ingest.ErrMalformed):
		s.Logger.Warn("upload aborted", zap.String("filename", fh.Filename), zap.Int("processed", count), zap.Error(err))
		s.badRequest(c, "File upload failed: "+err.Error(), &count)
		return
	case err != nil:
		s.internalError(c, "ProcessUpload", err, &count)
		return
	}

	msg := fmt.Sprintf(
		"Successfully queued %d trade instructions from file: %s. Processing initiated asynchronously. Time: %d ms",
		count, fh.Filename, time.Since(start).Milliseconds(),
	)
	s.Logger.Info(msg)
	c.JSON(http.StatusAccepted, uploadResponse{Message: msg, Processed: count, Filename: fh.Filename})
}

func (s *Server) getTrade(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	trade, err := s.Audit.Get(id)
	if err != nil {
		if errors.Is(err, audit.ErrNotFound) {
			c.JSON(http.StatusNotFound, apiError{Code: "not_found", Message: "no audit entry for id " + id})
			return
		}
		s.Logger.Error("internal_error", zap.String("where", "Get"), zap.Error(err))
		c.JSON(http.StatusInternalServerError, apiError{Code: "internal_server_error", Message: "internal server error"})
		return
	}
	c.JSON(http.StatusOK, auditEntry{
		CanonicalID: trade.CanonicalID,
		Account:     transform.MaskAccount(trade.AccountNumber),
		SecurityID:  trade.SecurityID,
		TradeType:   trade.TradeType,
		Quantity:    trade.Quantity,
		Price:       trade.Price,
		Amount:      trade.Amount,
		Timestamp:   trade.Timestamp,
	})
}
