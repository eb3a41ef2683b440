package handler

import (
	"net/http"

	"github.com/avdeyev/contacts-service/internal/domain"
	"github.com/avdeyev/contacts-service/internal/dto"
	"github.com/avdeyev/contacts-service/internal/service"
	"github.com/gin-gonic/gin"
)

const refreshCookiePath = "/api/v1/auth/refresh"

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration. The refresh token travels only in an
// httpOnly cookie scoped to the refresh endpoint.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("refresh_token", result.RefreshToken, result.ExpiresIn, refreshCookiePath, "", true, true)

	c.JSON(http.StatusCreated, result.AuthResponse)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("refresh_token", result.RefreshToken, result.ExpiresIn, refreshCookiePath, "", true, true)

	c.JSON(http.StatusOK, result.AuthResponse)
}

// Refresh mints a new access token. The refresh token is echoed back
// unchanged in the cookie; it is not rotated.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie("refresh_token")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Refresh token not found in cookie",
		})
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("refresh_token", result.RefreshToken, result.ExpiresIn, refreshCookiePath, "", true, true)

	c.JSON(http.StatusOK, result.AuthResponse)
}

// Logout revokes the presented refresh token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie("refresh_token")

	if err := h.authService.Logout(c.Request.Context(), refreshToken); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("refresh_token", "", -1, refreshCookiePath, "", true, true)

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Logged out successfully",
	})
}

// GetMe returns the profile of the authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	c.JSON(http.StatusOK, dto.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		AvatarURL:  user.AvatarURL,
		CreatedAt:  user.CreatedAt.Format(timeFormat),
		UpdatedAt:  user.UpdatedAt.Format(timeFormat),
	})
}

// Verify flips the verification flag for the token's subject. Calling it
// again with the same token succeeds without changing anything.
func (h *AuthHandler) Verify(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Verification token is required",
		})
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "Email successfully verified",
	})
}

// UpdateAvatar uploads a new avatar image for the authenticated user
func (h *AuthHandler) UpdateAvatar(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Avatar file is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Bad request",
			Message: "Failed to read avatar file",
		})
		return
	}
	defer file.Close()

	avatarURL, err := h.authService.UpdateAvatar(
		c.Request.Context(),
		user.ID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AvatarResponse{
		Message:   "Avatar updated",
		AvatarURL: avatarURL,
	})
}

// currentUser pulls the resolved user out of the request context. The auth
// middleware guarantees it is present on protected routes.
func currentUser(c *gin.Context) *domain.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "User not found in context",
		})
		return nil
	}

	user, ok := value.(*domain.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
			Error:   "Unauthorized",
			Message: "User not found in context",
		})
		return nil
	}

	return user
}
