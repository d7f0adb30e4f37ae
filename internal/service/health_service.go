package service

import (
	"context"
	"time"

	"agriconnect/internal/domain"
	"agriconnect/internal/models"
	"agriconnect/internal/repository"
	"agriconnect/internal/ws"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// HealthService checks platform dependencies, records the results and
// pushes alerts to connected staff dashboards when a service degrades.
type HealthService struct {
	db         *gorm.DB
	rdb        *redis.Client
	healthRepo *repository.HealthRepository
	hub        *ws.AlertHub
}

func NewHealthService(db *gorm.DB, rdb *redis.Client, healthRepo *repository.HealthRepository, hub *ws.AlertHub) *HealthService {
	return &HealthService{db: db, rdb: rdb, healthRepo: healthRepo, hub: hub}
}

// warnThreshold marks a check WARNING when it responds slower than this.
const warnThreshold = 500 * time.Millisecond

// RunChecks checks every configured dependency, persists one row per
// service and returns the results.
func (s *HealthService) RunChecks(ctx context.Context) ([]models.SystemHealthCheck, error) {
	checks := []models.SystemHealthCheck{
		s.checkDatabase(ctx),
		s.checkRedis(ctx),
	}
	for i := range checks {
		if err := s.healthRepo.Record(&checks[i]); err != nil {
			return checks, err
		}
		if checks[i].Status == domain.HealthCritical || checks[i].Status == domain.HealthDown {
			s.hub.Broadcast(ws.Alert{
				Type:     "health",
				Severity: checks[i].Status,
				Title:    checks[i].ServiceName + " is " + checks[i].Status,
				Detail:   checks[i],
			})
		}
	}
	return checks, nil
}

func (s *HealthService) checkDatabase(ctx context.Context) models.SystemHealthCheck {
	check := models.SystemHealthCheck{
		ServiceName: "mysql",
		ServiceType: domain.ServiceDatabase,
		CheckedAt:   time.Now(),
	}
	start := time.Now()
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	check.ResponseTimeMs = float64(time.Since(start).Microseconds()) / 1000
	check.Status = statusFor(err, time.Since(start))
	if err != nil {
		check.ErrorMessage = err.Error()
	}
	return check
}

func (s *HealthService) checkRedis(ctx context.Context) models.SystemHealthCheck {
	check := models.SystemHealthCheck{
		ServiceName: "redis",
		ServiceType: domain.ServiceRedis,
		CheckedAt:   time.Now(),
	}
	start := time.Now()
	err := s.rdb.Ping(ctx).Err()
	check.ResponseTimeMs = float64(time.Since(start).Microseconds()) / 1000
	check.Status = statusFor(err, time.Since(start))
	if err != nil {
		check.ErrorMessage = err.Error()
	}
	return check
}

func statusFor(err error, elapsed time.Duration) string {
	if err != nil {
		return domain.HealthDown
	}
	if elapsed > warnThreshold {
		return domain.HealthWarning
	}
	return domain.HealthHealthy
}

// OverallStatus reduces the latest per-service checks to one status:
// any DOWN or CRITICAL wins, then WARNING, else HEALTHY.
func (s *HealthService) OverallStatus() (string, []models.SystemHealthCheck, error) {
	checks, err := s.healthRepo.CurrentStatus()
	if err != nil {
		return "", nil, err
	}
	overall := domain.HealthHealthy
	for _, c := range checks {
		switch c.Status {
		case domain.HealthDown, domain.HealthCritical:
			return c.Status, checks, nil
		case domain.HealthWarning:
			overall = domain.HealthWarning
		}
	}
	return overall, checks, nil
}

// Liveness pings the database and Redis without persisting results.
// Serves the unauthenticated /healthz endpoint.
func (s *HealthService) Liveness(ctx context.Context) (map[string]string, bool) {
	db := s.checkDatabase(ctx)
	rds := s.checkRedis(ctx)
	services := map[string]string{
		db.ServiceName:  db.Status,
		rds.ServiceName: rds.Status,
	}
	ok := db.Status != domain.HealthDown && rds.Status != domain.HealthDown
	return services, ok
}

// FlushCache clears all rate-limit and cached dashboard state in Redis.
func (s *HealthService) FlushCache(ctx context.Context) error {
	return s.rdb.FlushDB(ctx).Err()
}
