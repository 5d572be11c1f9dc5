package handlers

import (
	"errors"
	"time"

	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConsultationHandler handles consultation booking requests.
type ConsultationHandler struct {
	DB  *gorm.DB
	Log *zap.Logger
}

// NewConsultationHandler creates a new ConsultationHandler.
func NewConsultationHandler(db *gorm.DB, log *zap.Logger) *ConsultationHandler {
	return &ConsultationHandler{DB: db, Log: log}
}

// CreateConsultationRequest represents the request body for booking a
// consultation.
type CreateConsultationRequest struct {
	ConsultationType string     `json:"consultationType" binding:"required,oneof=chronic-care urgent follow-up"`
	TriageSessionID  string     `json:"triageSessionId"`
	ScheduledAt      *time.Time `json:"scheduledAt"`
	Notes            string     `json:"notes"`
}

// Create books a consultation for the authenticated user. Bookings always
// start as pending; status changes are the care team's side of the fence.
func (h *ConsultationHandler) Create(c *gin.Context) {
	var req CreateConsultationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	consultation := models.Consultation{
		UserID:      middleware.IdentityFromContext(c).UserID,
		Type:        models.ConsultationType(req.ConsultationType),
		Status:      models.ConsultationPending,
		ScheduledAt: req.ScheduledAt,
		Notes:       req.Notes,
	}

	if req.TriageSessionID != "" {
		// The reference is informational, but a dangling one is a caller bug.
		var ts models.TriageSession
		if err := h.DB.First(&ts, "id = ?", req.TriageSessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.BadRequest(c, "Unknown triage session")
			} else {
				h.Log.Error("triage session lookup failed", zap.Error(err))
				utils.InternalServerError(c, "Failed to create consultation")
			}
			return
		}
		sessionID := ts.ID
		consultation.TriageSessionID = &sessionID
	}

	if err := h.DB.Create(&consultation).Error; err != nil {
		h.Log.Error("consultation insert failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create consultation")
		return
	}

	c.JSON(201, consultation)
}

// List returns the caller's consultation bookings, newest first.
func (h *ConsultationHandler) List(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	var consultations []models.Consultation
	if err := h.DB.Where("user_id = ?", ident.UserID).Order("created_at DESC").Find(&consultations).Error; err != nil {
		h.Log.Error("consultations query failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to load consultations")
		return
	}

	c.JSON(200, consultations)
}
