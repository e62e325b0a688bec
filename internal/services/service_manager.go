package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/Rex-a25/money-biz-server/internal/cache"
	"github.com/Rex-a25/money-biz-server/internal/events"
	"github.com/Rex-a25/money-biz-server/internal/repositories"
	"github.com/Rex-a25/money-biz-server/internal/validator"
)

// ServiceManagerConfig holds construction inputs for the service layer.
type ServiceManagerConfig struct {
	LicenseCode    string
	DefaultTimeout time.Duration
}

type serviceManager struct {
	repo       repositories.Repository
	identity   repositories.IdentityStore
	store      SessionStore
	publisher  events.EventPublisher
	subscriber message.Subscriber
	cache      *cache.CacheManager
	logger     *slog.Logger
	validator  *validator.Validator
	config     ServiceManagerConfig

	authService        AuthService
	sessionService     SessionService
	gradeService       GradeService
	attendanceService  AttendanceService
	userService        UserService
	transactionService TransactionService
	customerService    CustomerService
	settingsService    SettingsService
	remarkService      RemarkService
	dashboardService   DashboardService

	dashboardCancel context.CancelFunc

	initialized bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(
	repo repositories.Repository,
	identity repositories.IdentityStore,
	store SessionStore,
	publisher events.EventPublisher,
	subscriber message.Subscriber,
	cm *cache.CacheManager,
	logger *slog.Logger,
	v *validator.Validator,
	config ServiceManagerConfig,
) ServiceManager {
	return &serviceManager{
		repo:       repo,
		identity:   identity,
		store:      store,
		publisher:  publisher,
		subscriber: subscriber,
		cache:      cm,
		logger:     logger,
		validator:  v,
		config:     config,
	}
}

// NewDefaultServiceManager applies the standard timeouts.
func NewDefaultServiceManager(
	repo repositories.Repository,
	identity repositories.IdentityStore,
	store SessionStore,
	publisher events.EventPublisher,
	subscriber message.Subscriber,
	cm *cache.CacheManager,
	logger *slog.Logger,
	v *validator.Validator,
	licenseCode string,
) ServiceManager {
	return NewServiceManager(repo, identity, store, publisher, subscriber, cm, logger, v, ServiceManagerConfig{
		LicenseCode:    licenseCode,
		DefaultTimeout: 30 * time.Second,
	})
}

// Initialize wires every service and starts the dashboard consumer.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if sm.repo == nil {
		return fmt.Errorf("repository is required")
	}

	sm.logger.Info("Initializing service manager")

	sm.authService = NewAuthService(sm.repo, sm.identity, sm.store, sm.publisher, sm.logger, sm.validator, sm.config.LicenseCode)
	sm.sessionService = NewSessionService(sm.repo, sm.store, sm.logger)
	sm.gradeService = NewGradeService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.userService = NewUserService(sm.repo, sm.publisher, sm.cache, sm.logger, sm.validator)
	sm.transactionService = NewTransactionService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.customerService = NewCustomerService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.settingsService = NewSettingsService(sm.repo, sm.cache, sm.logger, sm.validator)
	sm.remarkService = NewRemarkService(sm.repo, sm.publisher, sm.logger, sm.validator)
	sm.dashboardService = NewDashboardService(sm.repo, sm.subscriber, sm.cache, sm.logger)

	if sm.subscriber != nil {
		runCtx, cancel := context.WithCancel(context.Background())
		sm.dashboardCancel = cancel
		go func() {
			if err := sm.dashboardService.Run(runCtx); err != nil && runCtx.Err() == nil {
				sm.logger.Error("Dashboard consumer stopped", "error", err)
			}
		}()
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.dashboardCancel != nil {
		sm.dashboardCancel()
	}
	if sm.publisher != nil {
		if err := sm.publisher.Close(); err != nil {
			sm.logger.Warn("Failed to close event publisher", "error", err)
		}
	}

	sm.initialized = false
	return nil
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.authService
}

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessionService
}

func (sm *serviceManager) Grade() GradeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.gradeService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.attendanceService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.userService
}

func (sm *serviceManager) Transaction() TransactionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.transactionService
}

func (sm *serviceManager) Customer() CustomerService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.customerService
}

func (sm *serviceManager) Settings() SettingsService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.settingsService
}

func (sm *serviceManager) Remark() RemarkService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.remarkService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.dashboardService
}
