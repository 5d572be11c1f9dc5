package handlers

import (
	"errors"

	"symptom-triage-server/internal/config"
	"symptom-triage-server/internal/middleware"
	"symptom-triage-server/internal/models"
	"symptom-triage-server/internal/session"
	"symptom-triage-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// invalidCredentials is deliberately identical for unknown email and wrong
// password so the response does not leak which one failed.
const invalidCredentials = "Invalid email or password"

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB       *gorm.DB
	Sessions session.Store
	Cfg      *config.Config
	Log      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, sessions session.Store, cfg *config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Sessions: sessions, Cfg: cfg, Log: log}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetCookie(
		middleware.SessionCookieName,
		token,
		h.Cfg.SessionTTLHours*60*60,        // Max age in seconds
		"/",                                // Path
		"",                                 // Domain (empty means current domain)
		h.Cfg.Environment != "development", // Secure (true in prod, false in dev)
		true,                               // HTTP only
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", h.Cfg.Environment != "development", true)
}

// SignupRequest represents the request body for account creation.
type SignupRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

// Signup handles account creation and logs the new user in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	// Check if the email is already registered
	var existingUser models.User
	err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error
	if err == nil {
		utils.BadRequest(c, "An account with this email already exists")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.Log.Error("signup email lookup failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create account")
		return
	}

	user := models.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.Phone,
	}
	if err := user.SetPassword(req.Password); err != nil {
		h.Log.Error("password hashing failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create account")
		return
	}

	if err := h.DB.Create(&user).Error; err != nil {
		h.Log.Error("user insert failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create account")
		return
	}

	token, err := h.Sessions.Create(c.Request.Context(), session.Record{UserID: user.ID})
	if err != nil {
		h.Log.Error("session create failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create session")
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(200, user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, invalidCredentials)
		} else {
			h.Log.Error("login user lookup failed", zap.Error(err))
			utils.InternalServerError(c, "Failed to log in")
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, invalidCredentials)
		return
	}

	token, err := h.Sessions.Create(c.Request.Context(), session.Record{UserID: user.ID})
	if err != nil {
		h.Log.Error("session create failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create session")
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(200, user.Sanitize())
}

// Guest mints a guest pseudo-identity so symptoms can be submitted without
// registering. The guest id is not tied to any user row.
func (h *AuthHandler) Guest(c *gin.Context) {
	guestID := uuid.New().String()

	token, err := h.Sessions.Create(c.Request.Context(), session.Record{GuestID: guestID, IsGuest: true})
	if err != nil {
		h.Log.Error("guest session create failed", zap.Error(err))
		utils.InternalServerError(c, "Failed to create guest session")
		return
	}
	h.setSessionCookie(c, token)

	c.JSON(200, gin.H{"id": guestID, "isGuest": true})
}

// Logout destroys the server-side session. Requests carrying the same
// token afterwards resolve to Unauthenticated.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookieName)
	if err == nil && token != "" {
		if err := h.Sessions.Destroy(c.Request.Context(), token); err != nil {
			h.Log.Error("session destroy failed", zap.Error(err))
			utils.InternalServerError(c, "Failed to log out")
			return
		}
	}
	h.clearSessionCookie(c)

	c.JSON(200, gin.H{"message": "Logged out"})
}

// CurrentUser returns the identity behind the session cookie.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	ident := middleware.IdentityFromContext(c)

	switch {
	case ident.IsGuest():
		c.JSON(200, gin.H{"id": ident.GuestID, "isGuest": true})
	case ident.IsAuthenticated():
		var user models.User
		if err := h.DB.First(&user, "id = ?", ident.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.Unauthorized(c, "Session user no longer exists")
			} else {
				h.Log.Error("current user lookup failed", zap.Error(err))
				utils.InternalServerError(c, "Failed to load user")
			}
			return
		}
		c.JSON(200, user.Sanitize())
	default:
		utils.Unauthorized(c, "Not authenticated")
	}
}
