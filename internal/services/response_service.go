package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
)

type responseService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewResponseService(repo repositories.Repository, logger *slog.Logger) ResponseService {
	return &responseService{
		repo:   repo,
		logger: logger,
	}
}

// ListByForm returns a form's responses, newest first, owner only
func (s *responseService) ListByForm(ctx context.Context, formID uint, username string) ([]*models.ResponseView, error) {
	form, err := s.repo.Form().GetByID(ctx, nil, formID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to get form: %w", err)
	}

	if form.CreatedBy.Username != username {
		return nil, NewPermissionError(username, formID, "form", "read_responses", "not the form owner")
	}

	responses, err := s.repo.Response().GetByForm(ctx, nil, formID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	return s.buildViews(responses), nil
}

// GetByID returns one response, authorized through the form's owner
func (s *responseService) GetByID(ctx context.Context, responseID uint, username string) (*models.ResponseView, error) {
	response, err := s.getResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if response.Form.CreatedBy.Username != username {
		return nil, NewPermissionError(username, responseID, "response", "read", "not the form owner")
	}

	view := models.NewResponseView(response, nil)
	return &view, nil
}

// GetByIDForRespondent matches the stored respondent email exactly,
// case-sensitive.
func (s *responseService) GetByIDForRespondent(ctx context.Context, responseID uint, email string) (*models.ResponseView, error) {
	response, err := s.getResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if response.RespondentEmail == nil || *response.RespondentEmail != email {
		return nil, NewPermissionError(email, responseID, "response", "read", "respondent email does not match")
	}

	view := models.NewResponseView(response, nil)
	return &view, nil
}

// ListByEmail returns every response the respondent submitted, across
// all forms, newest first. No match yields an empty list, not an
// authorization failure.
func (s *responseService) ListByEmail(ctx context.Context, email string) ([]*models.ResponseView, error) {
	responses, err := s.repo.Response().GetByRespondentEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses by email: %w", err)
	}

	return s.buildViews(responses), nil
}

func (s *responseService) getResponse(ctx context.Context, responseID uint) (*models.Response, error) {
	response, err := s.repo.Response().GetByID(ctx, nil, responseID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResponseNotFound
		}
		return nil, fmt.Errorf("failed to get response: %w", err)
	}
	return response, nil
}

func (s *responseService) buildViews(responses []*models.Response) []*models.ResponseView {
	views := make([]*models.ResponseView, 0, len(responses))
	for _, r := range responses {
		view := models.NewResponseView(r, nil)
		views = append(views, &view)
	}
	return views
}
