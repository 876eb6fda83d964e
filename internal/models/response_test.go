package models

import (
	"reflect"
	"strings"
	"testing"
)

// Form deletion relies on the FK chain wiping questions, options,
// responses and answers. Every relation on that chain must carry the
// cascade constraint so AutoMigrate emits ON DELETE CASCADE.
func TestDeleteCascadeTags(t *testing.T) {
	tests := []struct {
		model interface{}
		field string
	}{
		{Form{}, "Questions"},
		{Form{}, "Responses"},
		{Question{}, "Options"},
		{Response{}, "Answers"},
		{Answer{}, "Question"},
		{Answer{}, "SelectedOption"},
		{Answer{}, "SelectedOptions"},
	}

	for _, tt := range tests {
		typ := reflect.TypeOf(tt.model)
		field, ok := typ.FieldByName(tt.field)
		if !ok {
			t.Fatalf("%s has no field %s", typ.Name(), tt.field)
		}
		if tag := field.Tag.Get("gorm"); !strings.Contains(tag, "constraint:OnDelete:CASCADE") {
			t.Errorf("%s.%s gorm tag %q lacks the delete cascade", typ.Name(), tt.field, tag)
		}
	}
}
