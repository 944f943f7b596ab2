// Package api exposes the series pipeline over HTTP.
package api

import (
	"io"

	"github.com/labstack/echo/v4"

	"github.com/maifast-lab/maifast/internal/domain/models"
	"github.com/maifast-lab/maifast/internal/usecase"
	xhttp "github.com/maifast-lab/maifast/pkg/http"
	xlogger "github.com/maifast-lab/maifast/pkg/logger"
)

// SeriesEchoHandler implements the series, upload, predict, and conversation
// endpoints on Echo.
type SeriesEchoHandler struct {
	logger        *xlogger.Logger
	series        *usecase.SeriesService
	ingestion     *usecase.IngestionEngine
	prediction    *usecase.PredictionEngine
	conversations *usecase.ConversationService
}

func NewSeriesEchoHandler(
	logger *xlogger.Logger,
	series *usecase.SeriesService,
	ingestion *usecase.IngestionEngine,
	prediction *usecase.PredictionEngine,
	conversations *usecase.ConversationService,
) *SeriesEchoHandler {
	return &SeriesEchoHandler{
		logger:        logger,
		series:        series,
		ingestion:     ingestion,
		prediction:    prediction,
		conversations: conversations,
	}
}

func (h *SeriesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/series")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Detail)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/upload", h.Upload)
	g.POST("/:id/predict", h.Predict)
	g.POST("/:id/message", h.PostMessage)
	g.GET("/:id/messages", h.Messages)
}

func (h *SeriesEchoHandler) Create(c echo.Context) error {
	req := &models.CreateSeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != "" {
		return xhttp.BadRequestResponse(c, verr)
	}

	s, err := h.series.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("series create error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.CreatedResponse(c, s)
}

func (h *SeriesEchoHandler) List(c echo.Context) error {
	listed, err := h.series.List(c.Request().Context())
	if err != nil {
		h.logger.Error("series list error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	if listed == nil {
		listed = []models.Series{}
	}
	return xhttp.SuccessResponse(c, listed)
}

func (h *SeriesEchoHandler) Detail(c echo.Context) error {
	detail, err := h.series.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, detail)
}

func (h *SeriesEchoHandler) Delete(c echo.Context) error {
	if err := h.series.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"success": true,
		"message": "Series soft deleted",
	})
}

func (h *SeriesEchoHandler) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return xhttp.BadRequestResponse(c, "No file uploaded")
	}
	if fileHeader.Size > usecase.MaxUploadBytes {
		return xhttp.BadRequestResponse(c, "File size exceeds 200MB limit.")
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("upload open error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	defer file.Close()

	// The declared size is client-controlled; cap the actual read too.
	content, err := io.ReadAll(io.LimitReader(file, usecase.MaxUploadBytes+1))
	if err != nil {
		h.logger.Error("upload read error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	if len(content) > usecase.MaxUploadBytes {
		return xhttp.BadRequestResponse(c, "File size exceeds 200MB limit.")
	}

	res, err := h.ingestion.Upload(c.Request().Context(), c.Param("id"), string(content))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SeriesEchoHandler) Predict(c echo.Context) error {
	res, err := h.prediction.Predict(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SeriesEchoHandler) PostMessage(c echo.Context) error {
	req := &models.PostMessageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != "" {
		return xhttp.BadRequestResponse(c, "Message text required")
	}

	msg, err := h.conversations.Post(c.Request().Context(), c.Param("id"), req.Text)
	if err != nil {
		h.logger.Error("message error",
			xlogger.String("series_id", c.Param("id")),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, msg)
}

func (h *SeriesEchoHandler) Messages(c echo.Context) error {
	msgs, err := h.conversations.History(c.Request().Context(), c.Param("id"))
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return xhttp.SuccessResponse(c, msgs)
}
