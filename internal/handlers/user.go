package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/note-api/internal/constants"
	"github.com/yukikurage/note-api/internal/dto"
	apierrors "github.com/yukikurage/note-api/internal/errors"
	"github.com/yukikurage/note-api/internal/middleware"
	"github.com/yukikurage/note-api/internal/services"
)

// UserHandler serves the /user routes.
type UserHandler struct {
	profileService *services.ProfileService
	log            zerolog.Logger
}

func NewUserHandler(profileService *services.ProfileService, log zerolog.Logger) *UserHandler {
	return &UserHandler{profileService: profileService, log: log}
}

// Onboard registers a new identity
func (h *UserHandler) Onboard(c *gin.Context) {
	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	identity, err := h.profileService.Onboard(c.Request.Context(), services.OnboardInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info().Str("user", identity.ID).Msg("user onboarded")
	apierrors.RespondWithData(c, http.StatusCreated, dto.ToIdentityDTO(*identity))
}

// Login authenticates and stores the token in the session
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.profileService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(constants.SessionKeyAccessToken, result.Token)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToLoginDTO(result.Token, *result.Profile))
}

// Logout revokes the token and clears the session
func (h *UserHandler) Logout(c *gin.Context) {
	if err := h.profileService.Logout(c.Request.Context(), middleware.GetAccessToken(c)); err != nil {
		respondError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to clear session")
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Me returns the caller's profile
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.ToProfileDTO(*profile))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	response := dto.ToProfileDTO(*profile)
	response.Status = ""
	apierrors.RespondWithData(c, http.StatusOK, response)
}

func (h *UserHandler) UpdateAccountStatus(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req dto.AccountStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	profile, err := h.profileService.UpdateAccountStatus(c.Request.Context(), userID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	apierrors.RespondWithData(c, http.StatusOK, dto.AccountStatusDTO{ID: profile.ID, Status: profile.Status})
}

// RemoveAccount soft-deletes the caller's profile
func (h *UserHandler) RemoveAccount(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.SoftDeleteAccount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	h.log.Info().Str("user", profile.ID).Msg("account removed")
	apierrors.RespondWithData(c, http.StatusOK, dto.RemovedAccountDTO{ID: profile.ID, IsDeleted: profile.IsDeleted})
}
