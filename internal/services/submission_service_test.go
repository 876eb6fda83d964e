package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
	"github.com/SAP-F-2025/feedback-form-service/internal/validator"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func uintPtr(u uint) *uint    { return &u }

func TestCountWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "whitespace only", text: "   \t\n  ", want: 0},
		{name: "single word", text: "hello", want: 1},
		{name: "multiple words", text: "the quick brown fox", want: 4},
		{name: "runs of whitespace", text: "  a   b\t\tc\nd  ", want: 4},
		{name: "punctuation stays attached", text: "well, that's two", want: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countWords(tt.text); got != tt.want {
				t.Errorf("countWords(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestValidateAnswerDraft_WordLimit(t *testing.T) {
	question := &models.Question{
		ID:        1,
		Type:      models.TextWithLimit,
		WordLimit: intPtr(3),
	}

	t.Run("within limit", func(t *testing.T) {
		draft := &validator.AnswerSubmitRequest{QuestionID: 1, TextAnswer: strPtr("one two three")}
		if errs := validateAnswerDraft(question, draft); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("over limit", func(t *testing.T) {
		draft := &validator.AnswerSubmitRequest{QuestionID: 1, TextAnswer: strPtr("one two three four")}
		errs := validateAnswerDraft(question, draft)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if errs[0].Rule != validator.RuleWordLimitExceeded {
			t.Errorf("expected rule %s, got %s", validator.RuleWordLimitExceeded, errs[0].Rule)
		}
	})

	t.Run("trailing whitespace does not count", func(t *testing.T) {
		draft := &validator.AnswerSubmitRequest{QuestionID: 1, TextAnswer: strPtr("  one two three  ")}
		if errs := validateAnswerDraft(question, draft); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("no limit configured", func(t *testing.T) {
		unlimited := &models.Question{ID: 2, Type: models.TextWithLimit}
		draft := &validator.AnswerSubmitRequest{QuestionID: 2, TextAnswer: strPtr("as many words as anyone could ever want to write")}
		if errs := validateAnswerDraft(unlimited, draft); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestValidateAnswerDraft_RatingBounds(t *testing.T) {
	question := &models.Question{
		ID:        1,
		Type:      models.RatingScale,
		MinRating: intPtr(1),
		MaxRating: intPtr(5),
	}

	tests := []struct {
		name    string
		rating  int
		wantErr bool
	}{
		{name: "at min", rating: 1},
		{name: "at max", rating: 5},
		{name: "below min", rating: 0, wantErr: true},
		{name: "above max", rating: 6, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := &validator.AnswerSubmitRequest{QuestionID: 1, RatingValue: intPtr(tt.rating)}
			errs := validateAnswerDraft(question, draft)
			if tt.wantErr && (len(errs) != 1 || errs[0].Rule != validator.RuleOutOfRange) {
				t.Errorf("expected out_of_range error, got %v", errs)
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}

	t.Run("unbounded question accepts anything", func(t *testing.T) {
		unbounded := &models.Question{ID: 2, Type: models.RatingScale}
		draft := &validator.AnswerSubmitRequest{QuestionID: 2, RatingValue: intPtr(-100)}
		if errs := validateAnswerDraft(unbounded, draft); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("legacy type alias enforces bounds", func(t *testing.T) {
		legacy := &models.Question{ID: 3, Type: "RATING", MinRating: intPtr(1), MaxRating: intPtr(5)}
		draft := &validator.AnswerSubmitRequest{QuestionID: 3, RatingValue: intPtr(9)}
		errs := validateAnswerDraft(legacy, draft)
		if len(errs) != 1 || errs[0].Rule != validator.RuleOutOfRange {
			t.Errorf("expected out_of_range error, got %v", errs)
		}
	})
}

func TestValidateAnswerDraft_DateBounds(t *testing.T) {
	question := &models.Question{
		ID:      1,
		Type:    models.Date,
		MinDate: strPtr("2025-01-01"),
		MaxDate: strPtr("2025-12-31"),
	}

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{name: "inside range", date: "2025-06-15"},
		{name: "at min", date: "2025-01-01"},
		{name: "at max", date: "2025-12-31"},
		{name: "before min", date: "2024-12-31", wantErr: true},
		{name: "after max", date: "2026-01-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := &validator.AnswerSubmitRequest{QuestionID: 1, DateValue: strPtr(tt.date)}
			errs := validateAnswerDraft(question, draft)
			if tt.wantErr && (len(errs) != 1 || errs[0].Rule != validator.RuleDateOutOfRange) {
				t.Errorf("expected date_out_of_range error, got %v", errs)
			}
			if !tt.wantErr && len(errs) != 0 {
				t.Errorf("expected no errors, got %v", errs)
			}
		})
	}
}

func TestValidateAnswerDraft_Required(t *testing.T) {
	tests := []struct {
		name     string
		question models.Question
		draft    validator.AnswerSubmitRequest
		missing  bool
	}{
		{
			name:     "text present",
			question: models.Question{ID: 1, Type: models.Text, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 1, TextAnswer: strPtr("hi")},
		},
		{
			name:     "text absent",
			question: models.Question{ID: 1, Type: models.Text, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 1},
			missing:  true,
		},
		{
			name:     "whitespace-only text counts as absent",
			question: models.Question{ID: 1, Type: models.Text, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 1, TextAnswer: strPtr("   ")},
			missing:  true,
		},
		{
			name:     "single select absent",
			question: models.Question{ID: 2, Type: models.SingleSelect, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 2},
			missing:  true,
		},
		{
			name:     "multi select empty list counts as absent",
			question: models.Question{ID: 3, Type: models.MultiSelect, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 3, SelectedOptionIDs: []uint{}},
			missing:  true,
		},
		{
			name:     "rating zero is a valid payload",
			question: models.Question{ID: 4, Type: models.RatingScale, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 4, RatingValue: intPtr(0)},
		},
		{
			name:     "date empty string counts as absent",
			question: models.Question{ID: 5, Type: models.Date, Required: true},
			draft:    validator.AnswerSubmitRequest{QuestionID: 5, DateValue: strPtr("")},
			missing:  true,
		},
		{
			name:     "optional question absent",
			question: models.Question{ID: 6, Type: models.Text},
			draft:    validator.AnswerSubmitRequest{QuestionID: 6},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validateAnswerDraft(&tt.question, &tt.draft)
			gotMissing := false
			for _, e := range errs {
				if e.Rule == validator.RuleFieldMissing {
					gotMissing = true
				}
			}
			if gotMissing != tt.missing {
				t.Errorf("missing = %v, want %v (errs: %v)", gotMissing, tt.missing, errs)
			}
		})
	}
}

func TestCheckDuplicateAnswers(t *testing.T) {
	t.Run("no duplicates", func(t *testing.T) {
		drafts := []validator.AnswerSubmitRequest{
			{QuestionID: 1}, {QuestionID: 2}, {QuestionID: 3},
		}
		if errs := checkDuplicateAnswers(drafts); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("duplicate question", func(t *testing.T) {
		drafts := []validator.AnswerSubmitRequest{
			{QuestionID: 1}, {QuestionID: 2}, {QuestionID: 1},
		}
		errs := checkDuplicateAnswers(drafts)
		if len(errs) != 1 {
			t.Fatalf("expected 1 error, got %d", len(errs))
		}
		if errs[0].Rule != validator.RuleDuplicateAnswer {
			t.Errorf("expected rule %s, got %s", validator.RuleDuplicateAnswer, errs[0].Rule)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if errs := checkDuplicateAnswers(nil); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestDedupeIDs(t *testing.T) {
	got := dedupeIDs([]uint{3, 1, 3, 2, 1})
	want := []uint{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestQuestionIndex(t *testing.T) {
	form := &models.Form{
		Questions: []models.Question{
			{ID: 10, Text: "a"},
			{ID: 20, Text: "b"},
		},
	}
	index := questionIndex(form)
	if len(index) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(index))
	}
	if q, ok := index[20]; !ok || q.Text != "b" {
		t.Errorf("index[20] = %+v", q)
	}
}

type fakeOptionRepo struct {
	options map[uint]*models.Option
}

func newFakeOptionRepo() *fakeOptionRepo {
	return &fakeOptionRepo{options: make(map[uint]*models.Option)}
}

func (f *fakeOptionRepo) CreateBatch(ctx context.Context, tx *gorm.DB, options []*models.Option) error {
	for _, o := range options {
		o.ID = uint(len(f.options) + 1)
		f.options[o.ID] = o
	}
	return nil
}

func (f *fakeOptionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Option, error) {
	o, ok := f.options[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func TestResolveOption(t *testing.T) {
	ctx := context.Background()
	question := &models.Question{
		ID:   5,
		Type: models.SingleSelect,
		Options: []models.Option{
			{ID: 11, QuestionID: 5, Text: "Yes"},
			{ID: 12, QuestionID: 5, Text: "No"},
		},
	}
	svc := &submissionService{repo: &fakeRepository{
		options: &fakeOptionRepo{options: map[uint]*models.Option{
			// an option that belongs to some other question
			30: {ID: 30, QuestionID: 9, Text: "Elsewhere"},
		}},
	}}

	t.Run("option under the question resolves", func(t *testing.T) {
		option, err := svc.resolveOption(ctx, question, 12)
		if err != nil {
			t.Fatalf("resolveOption failed: %v", err)
		}
		if option.Text != "No" {
			t.Errorf("resolved %+v", option)
		}
	})

	t.Run("live option under another question is a mismatch", func(t *testing.T) {
		_, err := svc.resolveOption(ctx, question, 30)
		var mismatch *ReferenceMismatchError
		if !errors.As(err, &mismatch) {
			t.Fatalf("expected ReferenceMismatchError, got %v", err)
		}
	})

	t.Run("unknown option is not found", func(t *testing.T) {
		_, err := svc.resolveOption(ctx, question, 999)
		if !errors.Is(err, ErrOptionNotFound) {
			t.Errorf("expected ErrOptionNotFound, got %v", err)
		}
	})
}

type fakeAnswerRepo struct {
	answers []*models.Answer
}

func (f *fakeAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answer *models.Answer) error {
	answer.ID = uint(len(f.answers) + 1)
	f.answers = append(f.answers, answer)
	return nil
}

func (f *fakeAnswerRepo) ReplaceSelectedOptions(ctx context.Context, tx *gorm.DB, answer *models.Answer, options []models.Option) error {
	answer.SelectedOptions = options
	return nil
}

func newTestSubmissionService(repo *fakeRepository) *submissionService {
	return &submissionService{
		repo:      repo,
		logger:    slog.New(slog.NewTextHandler(os.Stdout, nil)),
		validator: validator.New(),
	}
}

func TestSubmissionService_Submit(t *testing.T) {
	ctx := context.Background()
	form := &models.Form{
		ID:        1,
		Title:     "Survey",
		PublicURL: "11111111-2222-3333-4444-555555555555",
		Questions: []models.Question{
			{ID: 10, FormID: 1, Type: models.Text, Text: "Comments"},
			{ID: 20, FormID: 1, Type: models.MultiSelect, Text: "Pick features", Options: []models.Option{
				{ID: 11, QuestionID: 20, Text: "Export"},
				{ID: 12, QuestionID: 20, Text: "Sharing"},
			}},
		},
	}
	answers := &fakeAnswerRepo{}
	repo := &fakeRepository{
		forms:     newFakeFormRepo(form),
		responses: newFakeResponseRepo(),
		answers:   answers,
		options:   newFakeOptionRepo(),
	}
	svc := newTestSubmissionService(repo)

	t.Run("stores the response with its answers", func(t *testing.T) {
		view, err := svc.Submit(ctx, form.PublicURL, &SubmitResponseRequest{
			RespondentEmail: strPtr("bob@example.com"),
			Answers: []validator.AnswerSubmitRequest{
				{QuestionID: 10, TextAnswer: strPtr("Looks good")},
				{QuestionID: 20, SelectedOptionIDs: []uint{12, 11}},
			},
		})
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if view.ID == 0 {
			t.Error("expected a stored response id")
		}

		if len(answers.answers) != 2 {
			t.Fatalf("expected 2 answers, got %d", len(answers.answers))
		}
		for _, a := range answers.answers {
			if a.ResponseID != view.ID {
				t.Errorf("answer %d bound to response %d, want %d", a.ID, a.ResponseID, view.ID)
			}
		}
		var multi *models.Answer
		for _, a := range answers.answers {
			if a.QuestionID == 20 {
				multi = a
			}
		}
		if multi == nil || len(multi.SelectedOptions) != 2 {
			t.Errorf("multi-select join rows not written: %+v", multi)
		}
	})

	t.Run("unknown public url", func(t *testing.T) {
		_, err := svc.Submit(ctx, "no-such-url", &SubmitResponseRequest{
			Answers: []validator.AnswerSubmitRequest{{QuestionID: 10, TextAnswer: strPtr("hi")}},
		})
		if !errors.Is(err, ErrFormNotFound) {
			t.Errorf("expected ErrFormNotFound, got %v", err)
		}
	})
}

func TestBuildAnswer_MultiSelect(t *testing.T) {
	ctx := context.Background()
	question := &models.Question{
		ID:   5,
		Type: models.MultiSelect,
		Options: []models.Option{
			{ID: 11, QuestionID: 5, Text: "Export"},
			{ID: 12, QuestionID: 5, Text: "Sharing"},
		},
	}
	svc := &submissionService{repo: &fakeRepository{
		options: &fakeOptionRepo{options: map[uint]*models.Option{}},
	}}

	draft := &validator.AnswerSubmitRequest{
		QuestionID:        5,
		SelectedOptionIDs: []uint{12, 11, 12},
	}
	prepared, err := svc.buildAnswer(ctx, question, draft)
	if err != nil {
		t.Fatalf("buildAnswer failed: %v", err)
	}
	if len(prepared.multiOptions) != 2 {
		t.Fatalf("expected 2 options after dedupe, got %d", len(prepared.multiOptions))
	}
	if prepared.multiOptions[0].ID != 12 || prepared.multiOptions[1].ID != 11 {
		t.Errorf("order not preserved: %+v", prepared.multiOptions)
	}
}
