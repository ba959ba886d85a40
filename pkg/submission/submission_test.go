package submission_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formguard/pkg/model"
	"github.com/goliatone/go-formguard/pkg/submission"
)

func postForm() model.FormModel {
	return model.FormModel{
		OperationID: "createPost",
		Endpoint:    "/posts/new",
		Method:      "POST",
		Fields: []model.Field{
			{Name: "title", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "255"}},
			}},
			{Name: "content", Type: model.FieldTypeString, Required: true},
			{Name: "tags", Type: model.FieldTypeString},
		},
	}
}

func TestValidate_AllRequiredPresent(t *testing.T) {
	result := submission.Validate(postForm(), url.Values{
		"title":   {"첫 글"},
		"content": {"본문입니다"},
	})
	if !result.Valid {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if result.Message != "" {
		t.Fatalf("valid result should carry no message, got %q", result.Message)
	}
}

func TestValidate_ReportsEveryEmptyRequiredField(t *testing.T) {
	result := submission.Validate(postForm(), url.Values{
		"title":   {"   "},
		"content": {""},
		"tags":    {""},
	})
	if result.Valid {
		t.Fatalf("expected invalid result")
	}

	keys := make([]string, 0, len(result.FieldErrors))
	for key := range result.FieldErrors {
		keys = append(keys, key)
	}
	if len(keys) != 2 {
		t.Fatalf("expected errors for title and content only, got %v", keys)
	}
	if _, ok := result.FieldErrors["tags"]; ok {
		t.Fatalf("optional empty field must not error")
	}
	if result.Message != "모든 필수 항목을 입력해주세요." {
		t.Fatalf("summary message = %q", result.Message)
	}
}

func TestValidate_LengthRules(t *testing.T) {
	form := model.FormModel{
		OperationID: "registerUser",
		Endpoint:    "/register",
		Method:      "POST",
		Fields: []model.Field{
			{Name: "username", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "3"}},
			}},
		},
	}

	result := submission.Validate(form, url.Values{"username": {"ab"}}, submission.WithLocale("en"))
	if result.Valid {
		t.Fatalf("expected min length violation")
	}
	want := map[string][]string{"username": {"Enter at least 3 characters."}}
	if diff := cmp.Diff(want, result.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	// Korean characters count as runes, not bytes.
	result = submission.Validate(form, url.Values{"username": {"홍길동"}})
	if !result.Valid {
		t.Fatalf("three runes should satisfy minLength 3: %+v", result)
	}
}

func TestValidate_PatternRule(t *testing.T) {
	form := model.FormModel{
		OperationID: "updateHandle",
		Endpoint:    "/handle",
		Method:      "POST",
		Fields: []model.Field{
			{Name: "handle", Type: model.FieldTypeString, Required: true, Validations: []model.ValidationRule{
				{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": "^[a-z0-9_]+$"}},
			}},
		},
	}

	if result := submission.Validate(form, url.Values{"handle": {"valid_handle"}}); !result.Valid {
		t.Fatalf("expected pattern match: %+v", result)
	}
	if result := submission.Validate(form, url.Values{"handle": {"Invalid Handle!"}}); result.Valid {
		t.Fatalf("expected pattern violation")
	}
}

func TestValidate_LengthRulesSkipEmptyOptionalValues(t *testing.T) {
	form := model.FormModel{
		OperationID: "profile",
		Endpoint:    "/profile",
		Method:      "POST",
		Fields: []model.Field{
			{Name: "bio", Type: model.FieldTypeString, Validations: []model.ValidationRule{
				{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": "10"}},
			}},
		},
	}
	if result := submission.Validate(form, url.Values{}); !result.Valid {
		t.Fatalf("optional empty field must pass: %+v", result)
	}
}
