package handlers

import (
	"encoding/json"
	"errors"
	"strings"

	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/triage"
	"symptom-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TriageHandler handles symptom analysis and triage session retrieval.
type TriageHandler struct {
	DB  *gorm.DB
	AI  triage.Classifier
	Log *zap.Logger
}

// NewTriageHandler creates a new TriageHandler.
func NewTriageHandler(db *gorm.DB, ai triage.Classifier, log *zap.Logger) *TriageHandler {
	return &TriageHandler{DB: db, AI: ai, Log: log}
}

// AnalyzeRequest represents the request body for symptom analysis.
type AnalyzeRequest struct {
	Symptoms         string   `json:"symptoms"`
	QuickTriageTypes []string `json:"quickTriageTypes"`
}

// description flattens quick-select tags and free text into the single
// plain-language string handed to the classifier.
func (r *AnalyzeRequest) description() string {
	var parts []string
	for _, tag := range r.QuickTriageTypes {
		if tag = strings.TrimSpace(tag); tag != "" {
			parts = append(parts, tag)
		}
	}
	if text := strings.TrimSpace(r.Symptoms); text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, ". ")
}

// Analyze runs the classifier over a symptom submission and persists the
// resulting triage session. Classifier failures leave no partial row.
func (h *TriageHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	description := req.description()
	if description == "" {
		utils.BadRequest(c, "Symptoms are required")
		return
	}

	analysis, err := h.AI.Analyze(c.Request.Context(), description)
	if err != nil {
		h.Log.Error("symptom analysis failed", zap.Error(err))
		if errors.Is(err, triage.ErrUpstreamContract) {
			utils.InternalServerError(c, "Symptom analysis returned an invalid result")
		} else {
			utils.InternalServerError(c, "Symptom analysis failed")
		}
		return
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		h.Log.Error("analysis payload marshal failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to store analysis")
		return
	}

	ts := models.TriageSession{
		Symptoms:           strings.TrimSpace(req.Symptoms),
		QuickTags:          strings.Join(req.QuickTriageTypes, ","),
		RiskLevel:          analysis.RiskLevel,
		Priority:           analysis.Priority,
		Analysis:           payload,
		Recommendations:    analysis.Recommendations,
		PossibleCauses:     analysis.PossibleCauses,
		ExpectedConditions: analysis.ExpectedConditions,
		ActionRequired:     analysis.ActionRequired,
	}

	// The owner comes from the resolved identity, never from the body.
	// Guest submissions stay ownerless even if the guest registers later.
	ident := middleware.IdentityFromContext(c)
	if ident.IsAuthenticated() {
		userID := ident.UserID
		ts.UserID = &userID
	} else {
		ts.IsGuest = true
	}

	if err := h.DB.Create(&ts).Error; err != nil {
		h.Log.Error("triage session insert failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to store triage session")
		return
	}

	c.JSON(200, gin.H{
		"sessionId":          ts.ID,
		"riskLevel":          ts.RiskLevel,
		"priority":           ts.Priority,
		"recommendations":    ts.Recommendations,
		"possibleCauses":     ts.PossibleCauses,
		"expectedConditions": ts.ExpectedConditions,
		"actionRequired":     ts.ActionRequired,
		"isGuest":            ts.IsGuest,
	})
}

// GetSession returns a single triage session by id. Sessions owned by a
// user are only visible to that user and answer 404 to everyone else, so
// their existence is not leaked. Guest sessions have no owner to check
// and stay retrievable by id alone.
func (h *TriageHandler) GetSession(c *gin.Context) {
	id := c.Param("id")

	var ts models.TriageSession
	if err := h.DB.First(&ts, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Triage session not found")
		} else {
			h.Log.Error("triage session lookup failed", zap.Error(err))
			utils.InternalServerError(c, "Failed to load triage session")
		}
		return
	}

	if ts.UserID != nil {
		ident := middleware.IdentityFromContext(c)
		if !ident.IsAuthenticated() || ident.UserID != *ts.UserID {
			utils.NotFound(c, "Triage session not found")
			return
		}
	}

	c.JSON(200, ts.View())
}

// History lists the caller's triage sessions, newest first.
func (h *TriageHandler) History(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	var sessions []models.TriageSession
	if err := h.DB.Where("user_id = ?", ident.UserID).Order("created_at DESC").Find(&sessions).Error; err != nil {
		h.Log.Error("triage history query failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to load triage history")
		return
	}

	c.JSON(200, lo.Map(sessions, func(s models.TriageSession, _ int) models.TriageSessionView {
		return s.View()
	}))
}
