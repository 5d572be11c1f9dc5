package handlers

import (
	"time"

	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VitalsHandler handles the append-only vital sign log.
type VitalsHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// NewVitalsHandler creates a new VitalsHandler.
func NewVitalsHandler(db *gorm.DB, log *zap.Logger) *VitalsHandler {
	return &VitalsHandler{DB: db, Log: log}
}

// RecordVitalsRequest represents the request body for recording vitals.
// Ranges are sanity bounds, not clinical judgements.
type RecordVitalsRequest struct {
	HeartRate        int        `json:"heartRate" binding:"required,gt=0,lte=300"`
	TemperatureC     float64    `json:"temperatureC" binding:"required,gt=25,lt=45"`
	SystolicBP       int        `json:"systolicBP" binding:"required,gt=0,lte=300"`
	DiastolicBP      int        `json:"diastolicBP" binding:"required,gt=0,lte=200"`
	OxygenSaturation int        `json:"oxygenSaturation" binding:"required,gt=0,lte=100"`
	RespiratoryRate  int        `json:"respiratoryRate" binding:"required,gt=0,lte=100"`
	Notes            string     `json:"notes"`
	RecordedAt       *time.Time `json:"recordedAt"`
}

// Record appends a vital sign measurement for the authenticated user.
func (h *VitalsHandler) Record(c *gin.Context) {
	var req RecordVitalsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	vitals := models.VitalSigns{
		UserID:           middleware.IdentityFromContext(c).UserID,
		HeartRate:        req.HeartRate,
		TemperatureC:     req.TemperatureC,
		SystolicBP:       req.SystolicBP,
		DiastolicBP:      req.DiastolicBP,
		OxygenSaturation: req.OxygenSaturation,
		RespiratoryRate:  req.RespiratoryRate,
		Notes:            req.Notes,
		RecordedAt:       recordedAt,
	}

	if err := h.DB.Create(&vitals).Error; err != nil {
		h.Log.Error("vitals insert failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to record vitals")
		return
	}

	c.JSON(201, vitals)
}

// List returns the caller's vital sign history, newest measurement first.
func (h *VitalsHandler) List(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	var vitals []models.VitalSigns
	if err := h.DB.Where("user_id = ?", ident.UserID).Order("recorded_at DESC").Find(&vitals).Error; err != nil {
		h.Log.Error("vitals query failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to load vitals")
		return
	}

	c.JSON(200, vitals)
}
