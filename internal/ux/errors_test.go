package ux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/siagacs/siaga-admin/internal/api"
	"github.com/siagacs/siaga-admin/internal/authz"
	adminerrors "github.com/siagacs/siaga-admin/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		suggestion string
		wantNil    bool
	}{
		{
			name:       "nil error returns nil",
			err:        nil,
			suggestion: "some suggestion",
			wantNil:    true,
		},
		{
			name:       "error with suggestion",
			err:        errors.New("something failed"),
			suggestion: "try this fix",
			wantNil:    false,
		},
		{
			name:       "error without suggestion",
			err:        errors.New("something failed"),
			suggestion: "",
			wantNil:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewErrorWithSuggestion(tt.err, tt.suggestion)
			if tt.wantNil {
				if result != nil {
					t.Errorf("NewErrorWithSuggestion() = %v, want nil", result)
				}
				return
			}

			if result == nil {
				t.Fatal("NewErrorWithSuggestion() returned nil, want error")
			}

			errMsg := result.Error()
			if !strings.Contains(errMsg, tt.err.Error()) {
				t.Errorf("Error message %q does not contain original error %q", errMsg, tt.err.Error())
			}

			if tt.suggestion != "" && !strings.Contains(errMsg, tt.suggestion) {
				t.Errorf("Error message %q does not contain suggestion %q", errMsg, tt.suggestion)
			}
		})
	}
}

type fieldsErr struct{}

func (fieldsErr) Error() string                       { return "invalid input: email (required)" }
func (fieldsErr) ValidationFields() map[string]string { return map[string]string{"email": "required"} }

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantSuffix string
		unchanged  bool
	}{
		{"nil", nil, "", true},
		{"coded error keeps its suggestions", adminerrors.NewNotSignedInError(), "", true},
		{"denied", &authz.DeniedError{Permission: authz.Manage(authz.FeatureSatpam)}, "SATPAM_MANAGE", false},
		{"validation", fieldsErr{}, "Fix the listed fields", false},
		{"unauthorized", &api.Error{Kind: api.KindHTTP, Status: 401}, "auth login", false},
		{"forbidden wrapped", fmt.Errorf("list: %w", &api.Error{Kind: api.KindHTTP, Status: 403}), "auth login", false},
		{"transport", &api.Error{Kind: api.KindTransport, Cause: errors.New("dial tcp: connection refused")}, "SIAGA_API_BASE_URL", false},
		{"timeout", &api.Error{Kind: api.KindTransport, Cause: context.DeadlineExceeded}, "api.timeout", false},
		{"server error", &api.Error{Kind: api.KindHTTP, Status: 500}, "Try again later", false},
		{"conflict passes through", &api.Error{Kind: api.KindHTTP, Status: 409}, "", true},
		{"missing file", fmt.Errorf("open: %w", os.ErrNotExist), "file path", false},
		{"plain refused", errors.New("dial tcp 127.0.0.1:8686: connection refused"), "SIAGA_API_BASE_URL", false},
		{"unrelated", errors.New("something odd"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			if tt.unchanged {
				if got != tt.err {
					t.Errorf("EnhanceError() = %v, want the original error", got)
				}
				return
			}
			var ws *ErrorWithSuggestion
			if !errors.As(got, &ws) {
				t.Fatalf("EnhanceError() = %T, want *ErrorWithSuggestion", got)
			}
			if ws.Err != tt.err {
				t.Error("enhanced error does not wrap the original")
			}
			if !strings.Contains(ws.Suggestion, tt.wantSuffix) {
				t.Errorf("Suggestion = %q, want it to mention %q", ws.Suggestion, tt.wantSuffix)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "ctx") != nil {
		t.Error("FormatError(nil) should be nil")
	}
	err := FormatError(errors.New("boom"), "export")
	if err.Error() != "export: boom" {
		t.Errorf("FormatError() = %q", err.Error())
	}
}
