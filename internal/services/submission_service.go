package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/feedback-form-service/internal/events"
	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/repositories"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

type submissionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
}

func NewSubmissionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher) SubmissionService {
	return &submissionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
		publisher: publisher,
	}
}

// preparedAnswer is a validated answer row waiting for its response id
type preparedAnswer struct {
	answer       *models.Answer
	multiOptions []models.Option
}

func (s *submissionService) Submit(ctx context.Context, publicURL string, req *SubmitResponseRequest) (*models.ResponseView, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	form, err := s.repo.Form().GetByPublicURL(ctx, nil, publicURL)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrFormNotFound
		}
		return nil, fmt.Errorf("failed to resolve form: %w", err)
	}

	questions := questionIndex(form)

	if errs := checkDuplicateAnswers(req.Answers); len(errs) > 0 {
		return nil, errs
	}

	// Validate every draft before any row is written so a failing
	// answer leaves no partial response behind.
	prepared := make([]preparedAnswer, 0, len(req.Answers))
	for i := range req.Answers {
		draft := &req.Answers[i]

		question, ok := questions[draft.QuestionID]
		if !ok {
			if _, err := s.repo.Question().GetByID(ctx, nil, draft.QuestionID); err != nil {
				if repositories.IsNotFoundError(err) {
					return nil, ErrQuestionNotFound
				}
				return nil, fmt.Errorf("failed to resolve question: %w", err)
			}
			return nil, NewReferenceMismatchError("question", draft.QuestionID, "form", form.ID)
		}

		if errs := validateAnswerDraft(question, draft); len(errs) > 0 {
			return nil, errs
		}

		p, err := s.buildAnswer(ctx, question, draft)
		if err != nil {
			return nil, err
		}
		prepared = append(prepared, p)
	}

	var response *models.Response
	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		response = &models.Response{
			FormID:          form.ID,
			RespondentName:  req.RespondentName,
			RespondentEmail: req.RespondentEmail,
			SubmittedAt:     time.Now(),
		}
		if err := txRepo.Response().Create(ctx, nil, response); err != nil {
			return fmt.Errorf("failed to create response: %w", err)
		}

		for _, p := range prepared {
			p.answer.ResponseID = response.ID
			if err := txRepo.Answer().Create(ctx, nil, p.answer); err != nil {
				return fmt.Errorf("failed to create answer: %w", err)
			}
			if len(p.multiOptions) > 0 {
				if err := txRepo.Answer().ReplaceSelectedOptions(ctx, nil, p.answer, p.multiOptions); err != nil {
					return fmt.Errorf("failed to store selected options: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Response submitted", "form_id", form.ID, "response_id", response.ID)
	publishEvent(ctx, s.logger, s.publisher, events.EventResponseSubmitted, map[string]interface{}{
		"form_id":     form.ID,
		"response_id": response.ID,
	})

	stored, err := s.repo.Response().GetByID(ctx, nil, response.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload response: %w", err)
	}

	view := models.NewResponseView(stored, questionTypes(form))
	return &view, nil
}

// buildAnswer materializes the typed payload columns for one draft.
// Option references are checked against the answered question; a live
// option under another question is a reference mismatch, not NotFound.
func (s *submissionService) buildAnswer(ctx context.Context, question *models.Question, draft *validator.AnswerSubmitRequest) (preparedAnswer, error) {
	answer := &models.Answer{QuestionID: question.ID}
	p := preparedAnswer{answer: answer}

	switch question.Type.Normalize() {
	case models.Text, models.TextWithLimit:
		answer.TextAnswer = draft.TextAnswer

	case models.MultipleChoice, models.SingleSelect:
		if draft.SelectedOptionID != nil {
			option, err := s.resolveOption(ctx, question, *draft.SelectedOptionID)
			if err != nil {
				return p, err
			}
			answer.SelectedOptionID = &option.ID
		}

	case models.MultiSelect:
		for _, id := range dedupeIDs(draft.SelectedOptionIDs) {
			option, err := s.resolveOption(ctx, question, id)
			if err != nil {
				return p, err
			}
			p.multiOptions = append(p.multiOptions, *option)
		}

	case models.RatingScale:
		answer.RatingValue = draft.RatingValue

	case models.Date:
		answer.DateValue = draft.DateValue
	}

	return p, nil
}

func (s *submissionService) resolveOption(ctx context.Context, question *models.Question, optionID uint) (*models.Option, error) {
	for i := range question.Options {
		if question.Options[i].ID == optionID {
			return &question.Options[i], nil
		}
	}

	if _, err := s.repo.Option().GetByID(ctx, nil, optionID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrOptionNotFound
		}
		return nil, fmt.Errorf("failed to resolve option: %w", err)
	}
	return nil, NewReferenceMismatchError("option", optionID, "question", question.ID)
}

// ===== PURE VALIDATION =====

func questionIndex(form *models.Form) map[uint]*models.Question {
	index := make(map[uint]*models.Question, len(form.Questions))
	for i := range form.Questions {
		index[form.Questions[i].ID] = &form.Questions[i]
	}
	return index
}

func questionTypes(form *models.Form) map[uint]models.QuestionType {
	types := make(map[uint]models.QuestionType, len(form.Questions))
	for i := range form.Questions {
		types[form.Questions[i].ID] = form.Questions[i].Type
	}
	return types
}

func checkDuplicateAnswers(drafts []validator.AnswerSubmitRequest) validator.ValidationErrors {
	seen := make(map[uint]bool, len(drafts))
	for i := range drafts {
		if seen[drafts[i].QuestionID] {
			return validator.ValidationErrors{{
				Field:   "answers",
				Message: "multiple answers for the same question",
				Value:   drafts[i].QuestionID,
				Rule:    validator.RuleDuplicateAnswer,
			}}
		}
		seen[drafts[i].QuestionID] = true
	}
	return nil
}

// validateAnswerDraft applies the per-type rules for one (question,
// draft) pair. Option membership is checked separately because it
// needs the option rows.
func validateAnswerDraft(question *models.Question, draft *validator.AnswerSubmitRequest) validator.ValidationErrors {
	var errs validator.ValidationErrors
	field := fmt.Sprintf("answers.question_%d", question.ID)

	switch question.Type.Normalize() {
	case models.TextWithLimit:
		if draft.TextAnswer != nil && question.WordLimit != nil && *question.WordLimit > 0 {
			if count := countWords(*draft.TextAnswer); count > *question.WordLimit {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: fmt.Sprintf("answer exceeds the word limit of %d", *question.WordLimit),
					Value:   count,
					Rule:    validator.RuleWordLimitExceeded,
				})
			}
		}

	case models.RatingScale:
		if draft.RatingValue != nil {
			rating := *draft.RatingValue
			if (question.MinRating != nil && rating < *question.MinRating) ||
				(question.MaxRating != nil && rating > *question.MaxRating) {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "rating is outside the configured bounds",
					Value:   rating,
					Rule:    validator.RuleOutOfRange,
				})
			}
		}

	case models.Date:
		// ISO-8601 dates compare correctly as strings
		if draft.DateValue != nil && *draft.DateValue != "" {
			date := *draft.DateValue
			if (question.MinDate != nil && date < *question.MinDate) ||
				(question.MaxDate != nil && date > *question.MaxDate) {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: "date is outside the configured bounds",
					Value:   date,
					Rule:    validator.RuleDateOutOfRange,
				})
			}
		}
	}

	if question.Required && !hasPayload(question.Type, draft) {
		errs = append(errs, validator.ValidationError{
			Field:   field,
			Message: "an answer is required for this question",
			Rule:    validator.RuleFieldMissing,
		})
	}

	return errs
}

// hasPayload reports whether the draft carries a non-empty payload of
// the shape the question type expects.
func hasPayload(qt models.QuestionType, draft *validator.AnswerSubmitRequest) bool {
	switch qt.Normalize() {
	case models.Text, models.TextWithLimit:
		return draft.TextAnswer != nil && strings.TrimSpace(*draft.TextAnswer) != ""
	case models.MultipleChoice, models.SingleSelect:
		return draft.SelectedOptionID != nil
	case models.MultiSelect:
		return len(draft.SelectedOptionIDs) > 0
	case models.RatingScale:
		return draft.RatingValue != nil
	case models.Date:
		return draft.DateValue != nil && *draft.DateValue != ""
	}
	return false
}

// countWords splits on runs of Unicode whitespace after trimming
func countWords(text string) int {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	return len(strings.Fields(trimmed))
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
