package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
)

// fakeResponseRepo is an in-memory ResponseRepository
type fakeResponseRepo struct {
	responses map[uint]*models.Response
}

func newFakeResponseRepo(responses ...*models.Response) *fakeResponseRepo {
	repo := &fakeResponseRepo{responses: make(map[uint]*models.Response)}
	for _, r := range responses {
		repo.responses[r.ID] = r
	}
	return repo
}

func (f *fakeResponseRepo) Create(ctx context.Context, tx *gorm.DB, response *models.Response) error {
	response.ID = uint(len(f.responses) + 1)
	f.responses[response.ID] = response
	return nil
}

func (f *fakeResponseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Response, error) {
	if r, ok := f.responses[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeResponseRepo) GetByForm(ctx context.Context, tx *gorm.DB, formID uint) ([]*models.Response, error) {
	out := make([]*models.Response, 0)
	for _, r := range f.responses {
		if r.FormID == formID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) GetByRespondentEmail(ctx context.Context, tx *gorm.DB, email string) ([]*models.Response, error) {
	out := make([]*models.Response, 0)
	for _, r := range f.responses {
		if r.RespondentEmail != nil && *r.RespondentEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResponseRepo) CountByForm(ctx context.Context, tx *gorm.DB, formID uint) (int64, error) {
	n, _ := f.GetByForm(ctx, tx, formID)
	return int64(len(n)), nil
}

func storedResponse(id uint, owner string, respondentEmail *string) *models.Response {
	return &models.Response{
		ID:              id,
		FormID:          1,
		RespondentEmail: respondentEmail,
		SubmittedAt:     time.Date(2025, 8, 30, 12, 0, 0, 0, time.UTC),
		Form: models.Form{
			ID:        1,
			Title:     "Survey",
			CreatedBy: models.User{ID: 1, Username: owner},
		},
	}
}

func newTestResponseService(repo *fakeRepository) *responseService {
	return &responseService{
		repo:   repo,
		logger: slog.New(slog.NewTextHandler(os.Stdout, nil)),
	}
}

func TestResponseService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{
		responses: newFakeResponseRepo(storedResponse(5, "ada", strPtr("bob@example.com"))),
	}
	svc := newTestResponseService(repo)

	t.Run("form owner reads", func(t *testing.T) {
		view, err := svc.GetByID(ctx, 5, "ada")
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if view.ID != 5 || view.FormTitle != "Survey" {
			t.Errorf("unexpected view: %+v", view)
		}
	})

	t.Run("non-owner denied", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 5, "mallory")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("unknown response", func(t *testing.T) {
		_, err := svc.GetByID(ctx, 99, "ada")
		if !errors.Is(err, ErrResponseNotFound) {
			t.Errorf("expected ErrResponseNotFound, got %v", err)
		}
	})
}

func TestResponseService_GetByIDForRespondent(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{
		responses: newFakeResponseRepo(
			storedResponse(5, "ada", strPtr("bob@example.com")),
			storedResponse(6, "ada", nil),
		),
	}
	svc := newTestResponseService(repo)

	t.Run("matching respondent reads", func(t *testing.T) {
		view, err := svc.GetByIDForRespondent(ctx, 5, "bob@example.com")
		if err != nil {
			t.Fatalf("GetByIDForRespondent failed: %v", err)
		}
		if view.ID != 5 {
			t.Errorf("unexpected view: %+v", view)
		}
	})

	t.Run("email match is case-sensitive", func(t *testing.T) {
		_, err := svc.GetByIDForRespondent(ctx, 5, "Bob@Example.com")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("anonymous response is unreadable by anyone", func(t *testing.T) {
		_, err := svc.GetByIDForRespondent(ctx, 6, "bob@example.com")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})
}

func TestResponseService_ListByForm(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{
		forms: newFakeFormRepo(ownedForm(1, "ada")),
		responses: newFakeResponseRepo(
			storedResponse(5, "ada", strPtr("bob@example.com")),
			storedResponse(6, "ada", nil),
		),
	}
	svc := newTestResponseService(repo)

	t.Run("owner lists all responses", func(t *testing.T) {
		views, err := svc.ListByForm(ctx, 1, "ada")
		if err != nil {
			t.Fatalf("ListByForm failed: %v", err)
		}
		if len(views) != 2 {
			t.Errorf("expected 2 responses, got %d", len(views))
		}
	})

	t.Run("non-owner denied", func(t *testing.T) {
		_, err := svc.ListByForm(ctx, 1, "mallory")
		var permErr *PermissionError
		if !errors.As(err, &permErr) {
			t.Errorf("expected PermissionError, got %v", err)
		}
	})

	t.Run("unknown form", func(t *testing.T) {
		_, err := svc.ListByForm(ctx, 99, "ada")
		if !errors.Is(err, ErrFormNotFound) {
			t.Errorf("expected ErrFormNotFound, got %v", err)
		}
	})
}

func TestResponseService_ListByEmail(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{
		responses: newFakeResponseRepo(
			storedResponse(5, "ada", strPtr("bob@example.com")),
			storedResponse(6, "ada", strPtr("carol@example.com")),
		),
	}
	svc := newTestResponseService(repo)

	t.Run("returns only the caller's responses", func(t *testing.T) {
		views, err := svc.ListByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("ListByEmail failed: %v", err)
		}
		if len(views) != 1 || views[0].ID != 5 {
			t.Errorf("unexpected views: %+v", views)
		}
	})

	t.Run("no matches is an empty list, not an error", func(t *testing.T) {
		views, err := svc.ListByEmail(ctx, "nobody@example.com")
		if err != nil {
			t.Fatalf("ListByEmail failed: %v", err)
		}
		if len(views) != 0 {
			t.Errorf("expected empty list, got %d", len(views))
		}
	})
}
