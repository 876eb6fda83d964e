package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/feedback-form-service/internal/events"
	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-form-service/internal/utils"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// generatedPasswordLength is the size of forgot-password replacements
const generatedPasswordLength = 10

// AuthOptions carries the deployment switches for the auth flows
type AuthOptions struct {
	// AllowAdminSignup permits self-service ADMIN registration
	AllowAdminSignup bool
	// DevPasswordEcho returns the reset password inline when mail is
	// disabled. Development only; must stay off in production.
	DevPasswordEcho bool
}

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	hasher    utils.PasswordHasher
	tokens    utils.TokenMinter
	mailer    utils.MailSender
	publisher events.EventPublisher
	opts      AuthOptions
}

func NewAuthService(
	repo repositories.Repository,
	logger *slog.Logger,
	validator *validator.Validator,
	hasher utils.PasswordHasher,
	tokens utils.TokenMinter,
	mailer utils.MailSender,
	publisher events.EventPublisher,
	opts AuthOptions,
) AuthService {
	return &authService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		hasher:    hasher,
		tokens:    tokens,
		mailer:    mailer,
		publisher: publisher,
		opts:      opts,
	}
}

func (s *authService) Register(ctx context.Context, req *SignupRequest) (*models.UserProfile, error) {
	s.logger.Info("Registering user", "username", req.Username)

	if errs := s.validator.GetBusinessValidator().ValidateSignup(req); len(errs) > 0 {
		return nil, errs
	}

	wantsAdmin := containsRole(req.Roles, string(models.RoleAdmin))
	if wantsAdmin && !s.opts.AllowAdminSignup {
		return nil, NewPermissionError(req.Username, 0, "role", "assign", "admin signup is disabled")
	}

	if taken, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, ErrUsernameTaken
	}
	if taken, err := s.repo.User().ExistsByEmail(ctx, nil, req.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, ErrEmailTaken
	}

	verifier, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	roleNames := []models.RoleName{models.RoleUser}
	if wantsAdmin {
		roleNames = append(roleNames, models.RoleAdmin)
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		roles := make([]models.Role, 0, len(roleNames))
		for _, name := range roleNames {
			role, err := txRepo.Role().GetByName(ctx, nil, name)
			if err != nil {
				if repositories.IsNotFoundError(err) {
					return ErrRoleNotFound
				}
				return fmt.Errorf("failed to get role %s: %w", name, err)
			}
			roles = append(roles, *role)
		}

		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			FullName: req.FullName,
			Password: verifier,
			Roles:    roles,
		}
		if err := txRepo.User().Create(ctx, nil, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err != nil {
		// A concurrent signup can still lose the uniqueness race after
		// the prechecks passed. The transaction is already aborted, so
		// classify on a fresh connection.
		if repositories.IsDuplicateKeyError(err) {
			return nil, s.classifySignupConflict(ctx, req)
		}
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	publishEvent(ctx, s.logger, s.publisher, events.EventUserRegistered, map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})

	profile := models.NewUserProfile(user)
	return &profile, nil
}

// classifySignupConflict decides which uniqueness index a lost signup
// race collided on, so the caller gets the same sentinel the precheck
// would have produced.
func (s *authService) classifySignupConflict(ctx context.Context, req *SignupRequest) error {
	if taken, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username); err == nil && taken {
		return ErrUsernameTaken
	}
	if _, err := s.repo.User().GetByEmail(ctx, nil, req.Email); err == nil {
		return ErrEmailTaken
	}
	return ErrUsernameTaken
}

// SignIn verifies the credentials and mints a bearer token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *authService) SignIn(ctx context.Context, req *LoginRequest) (*models.SignInResult, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.Password, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(user.ID, user.Username, user.Email, user.RoleNames())
	if err != nil {
		return nil, fmt.Errorf("failed to mint token: %w", err)
	}

	s.logger.Info("User signed in", "user_id", user.ID, "username", user.Username)

	return &models.SignInResult{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Roles:    user.RoleNames(),
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, username string) (*ForgotPasswordResult, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	newPassword, err := utils.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}

	verifier, err := s.hasher.Hash(newPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.User().UpdatePassword(ctx, nil, user.ID, verifier); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("Password reset", "user_id", user.ID, "username", username)
	publishEvent(ctx, s.logger, s.publisher, events.EventUserPasswordReset, map[string]interface{}{
		"user_id":  user.ID,
		"username": username,
	})

	if s.mailer != nil && s.mailer.Enabled() {
		body := fmt.Sprintf("Hello %s,\n\nYour password has been reset. Your new password is:\n\n%s\n\nPlease sign in and change it.\n", user.FullName, newPassword)
		if err := s.mailer.Send(user.Email, "Your password has been reset", body); err != nil {
			return nil, fmt.Errorf("failed to send reset mail: %w", err)
		}
		return &ForgotPasswordResult{EmailSent: true}, nil
	}

	if s.opts.DevPasswordEcho {
		return &ForgotPasswordResult{EmailSent: false, NewPassword: newPassword}, nil
	}

	s.logger.Warn("Password reset completed with no delivery channel", "username", username)
	return &ForgotPasswordResult{EmailSent: false}, nil
}

func containsRole(roles []string, want string) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
