package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/feedback-form-service/internal/events"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	Auth           AuthOptions
	DefaultTimeout time.Duration
}

// Collaborators are the external capabilities the services compose:
// token minting, password hashing, mail dispatch and event publishing.
type Collaborators struct {
	Hasher    utils.PasswordHasher
	Tokens    utils.TokenMinter
	Mailer    utils.MailSender
	Publisher events.EventPublisher
}

// serviceManager implements ServiceManager
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	collab    Collaborators
	config    ServiceManagerConfig

	// Service instances
	formService       FormService
	submissionService SubmissionService
	responseService   ResponseService
	exportService     ExportService
	authService       AuthService
	userService       UserService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, collab Collaborators, config ServiceManagerConfig) ServiceManager {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}
	return &serviceManager{
		repo:      repo,
		logger:    logger,
		validator: validator,
		collab:    collab,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.formService = NewFormService(sm.repo, sm.logger, sm.validator, sm.collab.Publisher)
	sm.submissionService = NewSubmissionService(sm.repo, sm.logger, sm.validator, sm.collab.Publisher)
	sm.responseService = NewResponseService(sm.repo, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.logger)
	sm.authService = NewAuthService(sm.repo, sm.logger, sm.validator, sm.collab.Hasher, sm.collab.Tokens, sm.collab.Mailer, sm.collab.Publisher, sm.config.Auth)
	sm.userService = NewUserService(sm.repo, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized")

	return nil
}

// Service getters

func (sm *serviceManager) Form() FormService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.formService
}

func (sm *serviceManager) Submission() SubmissionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.submissionService
}

func (sm *serviceManager) Response() ResponseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.responseService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.exportService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.userService
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		sm.logger.Error("Repository health check failed", "error", err)
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.collab.Publisher != nil {
		if err := sm.collab.Publisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if repoManager, ok := sm.repo.(repositories.RepositoryManager); ok {
		if err := repoManager.Shutdown(ctx); err != nil {
			sm.logger.Error("Failed to shutdown repository manager", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
