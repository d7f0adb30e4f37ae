package handler

import (
	"errors"
	"log"
	"net/http"

	"agriconnect/internal/middleware"
	"agriconnect/internal/repository"
	"agriconnect/internal/response"
	"agriconnect/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc      *service.AuthService
	userRepo *repository.UserRepository
}

func NewAuthHandler(svc *service.AuthService, userRepo *repository.UserRepository) *AuthHandler {
	return &AuthHandler{svc: svc, userRepo: userRepo}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=FARMER CONSUMER WAREHOUSE_MANAGER AGENT"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
	Region   string `json:"region"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, access, refresh, err := h.svc.Register(req.Email, req.Username, req.Password, req.Role, req.Phone, req.Country, req.Region)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists), errors.Is(err, service.ErrUsernameExists):
			response.Err(c, http.StatusConflict, "Registration conflict", response.CodeConflict, err.Error(), nil)
		default:
			log.Printf("[auth] register failed: email=%s err=%v", req.Email, err)
			internalErr(c, "registration failed")
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, access, refresh, err := h.svc.Login(req.Email, req.Password, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			response.Err(c, http.StatusUnauthorized,
				"Authentication failed", response.CodeAuthRequired,
				"Invalid email or password.", response.Help{
					"issue":    "The supplied credentials did not match any account.",
					"solution": "Check the email and password and try again.",
				})
		case errors.Is(err, service.ErrAccountLocked):
			response.Err(c, http.StatusForbidden,
				"Account deactivated", response.CodePrivilegesRequired,
				"This account has been deactivated.", nil)
		default:
			log.Printf("[auth] login failed: email=%s err=%v", req.Email, err)
			internalErr(c, "login failed")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	access, refresh, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		response.Err(c, http.StatusUnauthorized,
			"Invalid refresh token", response.CodeAuthRequired,
			"The refresh token is invalid or has expired.", response.Help{
				"issue":    "Refresh tokens expire after 7 days.",
				"solution": "Log in again to obtain a new token pair.",
			})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access_token": access, "refresh_token": refresh})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(middleware.GetUserID(c), c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.ChangePassword(middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			response.Err(c, http.StatusUnauthorized,
				"Authentication failed", response.CodeAuthRequired,
				"Current password is incorrect.", nil)
			return
		}
		internalErr(c, "password change failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		notFound(c, "user")
		return
	}
	c.JSON(http.StatusOK, u)
}
