package validator

import (
	"testing"

	"github.com/SAP-F-2025/feedback-form-service/internal/models"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "valid", password: "Str0ng!pass", valid: true},
		{name: "minimum shape", password: "Abcdefg!", valid: true},
		{name: "too short", password: "Ab!", valid: false},
		{name: "no uppercase", password: "str0ng!pass", valid: false},
		{name: "no special", password: "Str0ngpass", valid: false},
		{name: "empty", password: "", valid: false},
		{name: "every special counts", password: `Abcdefg"`, valid: true},
		{name: "space is not special", password: "Abcdefg h", valid: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePassword(tt.password)
			if tt.valid && len(errs) != 0 {
				t.Errorf("expected valid, got %v", errs)
			}
			if !tt.valid && len(errs) == 0 {
				t.Error("expected errors, got none")
			}
		})
	}
}

func TestValidateSignup(t *testing.T) {
	bv := NewBusinessValidator()

	valid := SignupRequest{
		Username: "ada",
		Email:    "ada@example.com",
		Password: "Str0ng!pass",
		FullName: "Ada Lovelace",
	}

	t.Run("valid request", func(t *testing.T) {
		req := valid
		if errs := bv.ValidateSignup(&req); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("bad email", func(t *testing.T) {
		req := valid
		req.Email = "not-an-email"
		if errs := bv.ValidateSignup(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		req := valid
		req.Roles = []string{"SUPERUSER"}
		if errs := bv.ValidateSignup(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})

	t.Run("weak password reports the policy failures", func(t *testing.T) {
		req := valid
		req.Password = "short"
		errs := bv.ValidateSignup(&req)
		if len(errs) == 0 {
			t.Fatal("expected errors")
		}
		for _, e := range errs {
			if e.Field != "password" {
				t.Errorf("unexpected field %s", e.Field)
			}
		}
	})
}

func TestValidateFormCreate(t *testing.T) {
	bv := NewBusinessValidator()

	t.Run("valid form", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Customer feedback",
			Questions: []QuestionCreateRequest{
				{Text: "Any comments?", Type: models.Text},
				{Text: "Rate us", Type: models.RatingScale, MinRating: intPtr(1), MaxRating: intPtr(5)},
				{Text: "Pick one", Type: models.SingleSelect, Options: []OptionCreateRequest{
					{Text: "Yes"}, {Text: "No"},
				}},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("blank title", func(t *testing.T) {
		req := FormCreateRequest{Title: "   "}
		if errs := bv.ValidateFormCreate(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})

	t.Run("min rating above max", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "Rate", Type: models.RatingScale, MinRating: intPtr(5), MaxRating: intPtr(1)},
			},
		}
		errs := bv.ValidateFormCreate(&req)
		if len(errs) != 1 || errs[0].Rule != RuleOutOfRange {
			t.Errorf("expected one out_of_range error, got %v", errs)
		}
	})

	t.Run("default rating outside bounds", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "Rate", Type: models.RatingScale, MinRating: intPtr(1), MaxRating: intPtr(5), DefaultRating: intPtr(9)},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})

	t.Run("min date after max date", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "When", Type: models.Date, MinDate: strPtr("2025-12-31"), MaxDate: strPtr("2025-01-01")},
			},
		}
		errs := bv.ValidateFormCreate(&req)
		if len(errs) != 1 || errs[0].Rule != RuleDateOutOfRange {
			t.Errorf("expected one date_out_of_range error, got %v", errs)
		}
	})

	t.Run("malformed date", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "When", Type: models.Date, MinDate: strPtr("31/12/2025")},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})

	t.Run("options on a non-choice question pass validation", func(t *testing.T) {
		// Stray options are dropped at persistence time, not rejected.
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "Comments", Type: models.Text, Options: []OptionCreateRequest{{Text: "Yes"}}},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("legacy rating alias accepted", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "Rate", Type: "RATING"},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})

	t.Run("unknown question type rejected", func(t *testing.T) {
		req := FormCreateRequest{
			Title: "Survey",
			Questions: []QuestionCreateRequest{
				{Text: "Q", Type: "FREEFORM"},
			},
		}
		if errs := bv.ValidateFormCreate(&req); len(errs) == 0 {
			t.Error("expected errors")
		}
	})
}
