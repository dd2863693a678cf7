package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/agri-advisor/internal/domain/advisory"
	"github.com/yanqian/agri-advisor/internal/domain/alerts"
	"github.com/yanqian/agri-advisor/internal/domain/calendar"
	"github.com/yanqian/agri-advisor/internal/domain/farmer"
	"github.com/yanqian/agri-advisor/internal/domain/fieldscan"
	apperrors "github.com/yanqian/agri-advisor/pkg/errors"
)

// advisorySourceHeader tells clients whether the advisory came from the model or the fallback.
const advisorySourceHeader = "X-Advisory-Source"

// maxUploadBytes bounds how much of a multipart file is read; the field scan service enforces the real limit.
const maxUploadBytes = 16 << 20

// Handler wires the HTTP transport to domain services.
type Handler struct {
	advisorySvc  advisory.Service
	alertsSvc    alerts.Service
	farmerSvc    farmer.Service
	fieldscanSvc fieldscan.Service
	calendarSvc  calendar.Service
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(
	advisorySvc advisory.Service,
	alertsSvc alerts.Service,
	farmerSvc farmer.Service,
	fieldscanSvc fieldscan.Service,
	calendarSvc calendar.Service,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		advisorySvc:  advisorySvc,
		alertsSvc:    alertsSvc,
		farmerSvc:    farmerSvc,
		fieldscanSvc: fieldscanSvc,
		calendarSvc:  calendarSvc,
		logger:       logger.With("component", "http.handler"),
	}
}

type generateAdvisoryRequest struct {
	UserID       string                `json:"userId"`
	FarmerInputs *advisory.FarmerInput `json:"farmerInputs"`
}

// GenerateAdvisory runs the advisory pipeline for a farmer submission.
func (h *Handler) GenerateAdvisory(c *gin.Context) {
	var req generateAdvisoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid JSON body", err))
		return
	}
	if strings.TrimSpace(req.UserID) == "" || req.FarmerInputs == nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, apperrors.CodeInvalidInput, "Missing required fields: userId, farmerInputs", nil))
		return
	}
	if !ensureSessionOwner(c, req.UserID) {
		return
	}

	res, err := h.advisorySvc.Generate(c.Request.Context(), *req.FarmerInputs)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	h.logger.Info("advisory served", "userId", req.UserID, "source", res.Source)

	c.Header(advisorySourceHeader, string(res.Source))
	respond(c, http.StatusOK, res.Advisory, "Advisory generated successfully")
}

// ExportCalendar renders a crop calendar as a spreadsheet download.
func (h *Handler) ExportCalendar(c *gin.Context) {
	var req calendar.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid JSON body", err))
		return
	}
	file, err := h.calendarSvc.Export(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// WeatherAlerts lists weather alerts for a location.
func (h *Handler) WeatherAlerts(c *gin.Context) {
	list, err := h.alertsSvc.Weather(c.Request.Context(), c.Query("location"))
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, list, "Weather alerts retrieved successfully")
}

// MarketAlerts lists market price movements, optionally for one crop.
func (h *Handler) MarketAlerts(c *gin.Context) {
	list, err := h.alertsSvc.Market(c.Request.Context(), c.Query("crop"), c.Query("location"))
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, list, "Market price alerts retrieved successfully")
}

// RegisterFarmer creates a farmer profile and returns a session token.
func (h *Handler) RegisterFarmer(c *gin.Context) {
	var req farmer.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid JSON body", err))
		return
	}
	if claims, ok := sessionClaims(c); ok {
		req.SessionUserID = claims.UserID
	}
	reg, err := h.farmerSvc.Register(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusCreated, reg, "Farmer registered successfully")
}

// SubmitFarmerInput stores a farmer form submission.
func (h *Handler) SubmitFarmerInput(c *gin.Context) {
	var req farmer.InputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid JSON body", err))
		return
	}
	if !ensureSessionOwner(c, req.UserID) {
		return
	}
	sub, err := h.farmerSvc.SubmitInput(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, sub, "Farmer input processed successfully")
}

// FarmerHistory returns the farmer's profile and stored submissions.
func (h *Handler) FarmerHistory(c *gin.Context) {
	userID := c.Query("userId")
	if !ensureSessionOwner(c, userID) {
		return
	}
	history, err := h.farmerSvc.History(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, history, "Farmer history retrieved successfully")
}

// SoilTest accepts a soil photo upload.
func (h *Handler) SoilTest(c *gin.Context) {
	photo, err := readPhoto(c, "soilPhoto")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid soilPhoto upload", err))
		return
	}
	location, err := formLocation(c.PostForm("location"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid location", err))
		return
	}
	userID := c.PostForm("userId")
	if !ensureSessionOwner(c, userID) {
		return
	}
	res, err := h.fieldscanSvc.SoilTest(c.Request.Context(), fieldscan.SoilTestRequest{
		UserID:   userID,
		Location: location,
		Photo:    photo,
	})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, res, "Soil test completed successfully")
}

// DetectPest accepts a pest photo upload.
func (h *Handler) DetectPest(c *gin.Context) {
	photo, err := readPhoto(c, "pestPhoto")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid pestPhoto upload", err))
		return
	}
	location, err := formLocation(c.PostForm("location"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "Invalid location", err))
		return
	}
	userID := c.PostForm("userId")
	if !ensureSessionOwner(c, userID) {
		return
	}
	res, err := h.fieldscanSvc.DetectPest(c.Request.Context(), fieldscan.PestRequest{
		UserID:   userID,
		CropName: c.PostForm("cropName"),
		Location: location,
		Photo:    photo,
	})
	if err != nil {
		abortWithError(c, domainError(err))
		return
	}
	respond(c, http.StatusOK, res, "Pest detection completed successfully")
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readPhoto returns nil when the field is absent so the service can report the missing field.
func readPhoto(c *gin.Context, field string) (*fieldscan.Photo, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	return &fieldscan.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// formLocation accepts a JSON encoded location or a bare village name.
func formLocation(raw string) (*advisory.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.HasPrefix(raw, "{") {
		return &advisory.Location{Village: raw}, nil
	}
	var loc advisory.Location
	if err := json.Unmarshal([]byte(raw), &loc); err != nil {
		return nil, err
	}
	return &loc, nil
}
