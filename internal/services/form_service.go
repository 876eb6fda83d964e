package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/feedback-form-service/internal/events"
	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

// publicURLAttempts bounds the collision-check loop; uuid collisions
// are not expected in practice.
const publicURLAttempts = 5

type formService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewFormService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) FormService {
	return &formService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// publishEvent is best-effort: failures are logged and never fail the
// surrounding request.
func publishEvent(ctx context.Context, logger *slog.Logger, publisher events.EventPublisher, eventType string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, events.NewEvent(eventType, data)); err != nil {
		logger.Warn("Failed to publish event", "type", eventType, "error", err)
	}
}

// ===== CORE OPERATIONS =====

func (s *formService) Create(ctx context.Context, username string, req *CreateFormRequest) (*models.FormView, error) {
	s.logger.Info("Creating form", "username", username, "title", req.Title)

	// Validate request with business rules
	if errs := s.validator.GetBusinessValidator().ValidateFormCreate(req); len(errs) > 0 {
		return nil, errs
	}

	owner, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve form owner: %w", err)
	}

	publicURL, err := s.mintPublicURL(ctx)
	if err != nil {
		return nil, err
	}

	var form *models.Form
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		form = &models.Form{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			PublicURL:   publicURL,
			CreatedByID: owner.ID,
		}
		if err := txRepo.Form().Create(ctx, nil, form); err != nil {
			return fmt.Errorf("failed to create form: %w", err)
		}

		questions := make([]*models.Question, len(req.Questions))
		for i := range req.Questions {
			questions[i] = buildQuestion(form.ID, i, &req.Questions[i])
		}
		if len(questions) > 0 {
			if err := txRepo.Question().CreateBatch(ctx, nil, questions); err != nil {
				return fmt.Errorf("failed to create questions: %w", err)
			}
		}

		for i, question := range questions {
			// Options are persisted only for choice questions; stray
			// options on other types are dropped without error.
			if question.Type.IsChoice() && len(req.Questions[i].Options) > 0 {
				options := buildOptions(question.ID, req.Questions[i].Options)
				if err := txRepo.Option().CreateBatch(ctx, nil, options); err != nil {
					return fmt.Errorf("failed to create options for question %d: %w", i, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Form created", "form_id", form.ID, "public_url", form.PublicURL)
	publishEvent(ctx, s.logger, s.publisher, events.EventFormCreated, map[string]interface{}{
		"form_id":    form.ID,
		"title":      form.Title,
		"public_url": form.PublicURL,
		"created_by": username,
	})

	created, err := s.repo.Form().GetByIDWithDetails(ctx, nil, form.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created form: %w", err)
	}

	view := models.NewFormView(created)
	return &view, nil
}

func (s *formService) ListByOwner(ctx context.Context, username string) ([]*models.FormView, error) {
	owner, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve owner: %w", err)
	}

	forms, err := s.repo.Form().GetByOwner(ctx, nil, owner.ID, repositories.FormFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}

	formIDs := make([]uint, len(forms))
	for i, f := range forms {
		formIDs[i] = f.ID
	}
	counts, err := s.repo.Form().CountResponsesBatch(ctx, nil, formIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}

	views := make([]*models.FormView, 0, len(forms))
	for _, f := range forms {
		f.ResponseCount = counts[f.ID]
		view := models.NewFormView(f)
		views = append(views, &view)
	}
	return views, nil
}

func (s *formService) GetByID(ctx context.Context, id uint, username string) (*models.FormView, error) {
	form, err := s.repo.Form().GetByIDWithDetails(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.CreatedBy.Username != username {
		return nil, NewPermissionError(username, id, "form", "read", "not the form owner")
	}

	count, err := s.repo.Response().CountByForm(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	form.ResponseCount = count

	view := models.NewFormView(form)
	return &view, nil
}

func (s *formService) GetByPublicURL(ctx context.Context, publicURL string) (*models.FormView, error) {
	form, err := s.repo.Form().GetByPublicURL(ctx, nil, publicURL)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form by public url: %w", err)
	}

	count, err := s.repo.Response().CountByForm(ctx, nil, form.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count responses: %w", err)
	}
	form.ResponseCount = count

	view := models.NewFormView(form)
	return &view, nil
}

func (s *formService) Delete(ctx context.Context, id uint, username string) error {
	s.logger.Info("Deleting form", "form_id", id, "username", username)

	form, err := s.repo.Form().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrFormNotFound
		}
		return fmt.Errorf("failed to get form: %w", err)
	}

	if form.CreatedBy.Username != username {
		return NewPermissionError(username, id, "form", "delete", "not the form owner")
	}

	// Questions, options, responses and answers go with the form
	// through the FK cascades.
	if err := s.repo.Form().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete form: %w", err)
	}

	s.logger.Info("Form deleted", "form_id", id)
	publishEvent(ctx, s.logger, s.publisher, events.EventFormDeleted, map[string]interface{}{
		"form_id":    id,
		"deleted_by": username,
	})
	return nil
}

// ===== HELPERS =====

// mintPublicURL allocates a fresh capability token; possession alone
// grants submit access, so it must come from a CSPRNG.
func (s *formService) mintPublicURL(ctx context.Context) (string, error) {
	for i := 0; i < publicURLAttempts; i++ {
		candidate := uuid.NewString()
		exists, err := s.repo.Form().ExistsByPublicURL(ctx, nil, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check public url: %w", err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("failed to allocate a unique public url after %d attempts", publicURLAttempts)
}

func buildQuestion(formID uint, index int, req *validator.QuestionCreateRequest) *models.Question {
	displayOrder := index
	if req.DisplayOrder != nil {
		displayOrder = *req.DisplayOrder
	}

	return &models.Question{
		FormID:        formID,
		Text:          strings.TrimSpace(req.Text),
		Type:          req.Type.Normalize(),
		DisplayOrder:  displayOrder,
		Required:      req.Required,
		WordLimit:     req.WordLimit,
		MinRating:     req.MinRating,
		MaxRating:     req.MaxRating,
		DefaultRating: req.DefaultRating,
		DateFormat:    req.DateFormat,
		MinDate:       req.MinDate,
		MaxDate:       req.MaxDate,
	}
}

func buildOptions(questionID uint, reqs []validator.OptionCreateRequest) []*models.Option {
	options := make([]*models.Option, 0, len(reqs))
	for i := range reqs {
		displayOrder := i
		if reqs[i].DisplayOrder != nil {
			displayOrder = *reqs[i].DisplayOrder
		}
		options = append(options, &models.Option{
			QuestionID:   questionID,
			Text:         strings.TrimSpace(reqs[i].Text),
			DisplayOrder: displayOrder,
		})
	}
	return options
}
