package service

import (
	"errors"
	"time"

	"agriconnect/config"
	"agriconnect/internal/auth"
	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailExists    = errors.New("email already registered")
	ErrUsernameExists = errors.New("username already taken")
	ErrInvalidCreds   = errors.New("invalid email or password")
	ErrAccountLocked  = errors.New("account is deactivated")
)

// failureThreshold is the number of failed logins from one IP inside
// failureWindow before a MULTIPLE_FAILURES security event is raised.
const (
	failureThreshold = 5
	failureWindow    = 15 * time.Minute
)

type AuthService struct {
	cfg       *config.Config
	userRepo  *repository.UserRepository
	auditRepo *repository.AuditRepository
}

func NewAuthService(cfg *config.Config, userRepo *repository.UserRepository, auditRepo *repository.AuditRepository) *AuthService {
	return &AuthService{cfg: cfg, userRepo: userRepo, auditRepo: auditRepo}
}

func (s *AuthService) Register(email, username, password, role, phone, country, region string) (*models.User, string, string, error) {
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	_, err = s.userRepo.GetByUsername(username)
	if err == nil {
		return nil, "", "", ErrUsernameExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	switch role {
	case domain.RoleFarmer, domain.RoleConsumer, domain.RoleWarehouseManager, domain.RoleAgent:
	default:
		role = domain.RoleConsumer
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Phone:        phone,
		Country:      country,
		Region:       region,
		IsActive:     true,
	}
	if err := s.userRepo.Create(u); err != nil {
		return nil, "", "", err
	}
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, u.IsStaff)
	if err != nil {
		return u, "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	if err != nil {
		return u, access, "", err
	}
	return u, access, refresh, nil
}

// Login verifies credentials, records the attempt in the activity log and
// raises a security event when one IP accumulates repeated failures.
func (s *AuthService) Login(email, password, ip, userAgent string) (*models.User, string, string, error) {
	u, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.recordFailure(nil, email, ip, userAgent)
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(u, email, ip, userAgent)
		return nil, "", "", ErrInvalidCreds
	}
	if !u.IsActive {
		return nil, "", "", ErrAccountLocked
	}

	s.auditRepo.LogActivity(&models.UserActivityLog{
		UserID:       u.ID,
		ActivityType: domain.ActivityLogin,
		Description:  "successful login",
		IPAddress:    ip,
		UserAgent:    userAgent,
	})
	s.userRepo.TouchLastLogin(u.ID)

	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, u.IsStaff)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return u, access, refresh, nil
}

// recordFailure logs the failed attempt as a VIOLATION activity and, past
// the per-IP threshold, escalates to a MULTIPLE_FAILURES security event.
func (s *AuthService) recordFailure(u *models.User, email, ip, userAgent string) {
	log := &models.UserActivityLog{
		ActivityType: domain.ActivityViolation,
		Description:  "failed login for " + email,
		IPAddress:    ip,
		UserAgent:    userAgent,
	}
	if u != nil {
		log.UserID = u.ID
	}
	s.auditRepo.LogActivity(log)

	if u == nil {
		return
	}
	count, err := s.auditRepo.CountRecentFailures(ip, failureWindow)
	if err != nil || count < failureThreshold {
		return
	}
	s.auditRepo.LogSecurityEvent(&models.UserSecurityEvent{
		UserID:      u.ID,
		EventType:   domain.SecurityMultipleFailures,
		Severity:    domain.SeverityHigh,
		Description: "repeated failed logins from " + ip,
		IPAddress:   ip,
	})
}

// Logout only records the event; tokens stay valid until expiry.
func (s *AuthService) Logout(userID uint, ip string) {
	s.auditRepo.LogActivity(&models.UserActivityLog{
		UserID:       userID,
		ActivityType: domain.ActivityLogout,
		Description:  "logout",
		IPAddress:    ip,
	})
}

func (s *AuthService) RefreshToken(refreshToken string) (string, string, error) {
	userID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	if !u.IsActive {
		return "", "", ErrAccountLocked
	}
	access, _ := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.Email, u.Role, u.IsStaff)
	refresh, _ := auth.GenerateRefreshToken(&s.cfg.JWT, u.ID)
	return access, refresh, nil
}

func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	u, err := s.userRepo.GetByID(userID)
	if err != nil {
		return ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCreds
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.Update(u.ID, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		return err
	}
	s.auditRepo.LogActivity(&models.UserActivityLog{
		UserID:       u.ID,
		ActivityType: domain.ActivityPasswordChange,
		Description:  "password changed",
	})
	return nil
}
