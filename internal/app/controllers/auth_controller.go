package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/oguzk/campdir/internal/app/models"
	"github.com/oguzk/campdir/internal/app/models/dto"
	"github.com/oguzk/campdir/internal/app/services"
	"github.com/oguzk/campdir/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService  services.AuthService
	resetBaseURL string
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService services.AuthService, resetBaseURL string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		resetBaseURL: resetBaseURL,
		logger:       logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates an account with the user or publisher role and returns a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, token, err := c.authService.Register(ctx.Request.Context(), req.Name, req.Email, req.Password, models.RoleType(req.Role))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Int64("userID", user.ID).Str("email", user.Email).Msg("User registered")
	ctx.JSON(http.StatusCreated, dto.NewTokenResponse(token))
}

// Login handles user login
// @Summary User login
// @Description Authenticates a user and returns a signed token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, token, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Warn().Err(err).Str("email", req.Email).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Debug().Int64("userID", user.ID).Msg("User logged in")
	ctx.JSON(http.StatusOK, dto.NewTokenResponse(token))
}

// GetMe returns the authenticated user's profile
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Router /auth/me [get]
func (c *AuthController) GetMe(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	user, err := c.authService.GetMe(ctx.Request.Context(), ident.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// UpdateDetails changes the caller's name and email
// @Summary Update own details
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateDetailsRequest true "New name and email"
// @Success 200 {object} dto.APIResponse
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /auth/updatedetails [put]
func (c *AuthController) UpdateDetails(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.UpdateDetailsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.authService.UpdateDetails(ctx.Request.Context(), ident.UserID, req.Name, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(user))
}

// UpdatePassword changes the caller's password and reissues a token
// @Summary Update own password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse
// @Failure 401 {object} dto.ErrorResponse "Current password incorrect"
// @Router /auth/updatepassword [put]
func (c *AuthController) UpdatePassword(ctx *gin.Context) {
	ident, ok := requireIdentity(ctx)
	if !ok {
		return
	}

	var req dto.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	token, err := c.authService.UpdatePassword(ctx.Request.Context(), ident.UserID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewTokenResponse(token))
}

// ForgotPassword emails a password reset link
// @Summary Request a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "Account email"
// @Success 200 {object} dto.APIResponse "Reset email sent"
// @Failure 404 {object} dto.ErrorResponse "No account for that email"
// @Router /auth/forgotpassword [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	if err := c.authService.ForgotPassword(ctx.Request.Context(), req.Email, c.resetBaseURL); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse("reset email sent"))
}

// ResetPassword consumes a reset token and sets a new password
// @Summary Complete a password reset
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token from the email link"
// @Param request body dto.ResetPasswordRequest true "New password"
// @Success 200 {object} dto.APIResponse "Password updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired reset token"
// @Router /auth/resetpassword/{resettoken} [put]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	token, err := c.authService.ResetPassword(ctx.Request.Context(), ctx.Param("resettoken"), req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewTokenResponse(token))
}
