package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(handler gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("GET", "/test", nil)
	handler(c)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestOK(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		OK(c, "Project successfully started.", map[string]string{"status": "ACTIVE"})
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
	if resp.Message != "Project successfully started." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Data == nil {
		t.Error("expected data payload")
	}
}

func TestCreated(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Created(c, "Project successfully created.", map[string]int{"id": 1})
	})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status %d, got %d", http.StatusCreated, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestMessage(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Message(c, "Task successfully deleted.")
	})

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Message != "Task successfully deleted." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Data != nil {
		t.Error("side-effect responses should carry no data")
	}
}

func TestError_AppError(t *testing.T) {
	cases := []struct {
		name       string
		err        *AppError
		wantStatus int
	}{
		{"not found", NewNotFound("Project not found."), http.StatusNotFound},
		{"forbidden", NewForbidden("Insufficient permissions."), http.StatusForbidden},
		{"conflict", NewConflict("Project already started."), http.StatusConflict},
		{"bad request", NewBadRequest("Passwords do not match."), http.StatusBadRequest},
		{"unauthorized", NewUnauthorized("Invalid credentials."), http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(func(c *gin.Context) {
				Error(c, tc.err)
			})

			if w.Code != tc.wantStatus {
				t.Errorf("expected status %d, got %d", tc.wantStatus, w.Code)
			}

			resp := parseResponse(t, w)
			if resp.Code != tc.err.Code {
				t.Errorf("expected code %d, got %d", tc.err.Code, resp.Code)
			}
			if resp.Message != tc.err.Message {
				t.Errorf("expected message %q, got %q", tc.err.Message, resp.Message)
			}
		})
	}
}

func TestError_WrappedAppError(t *testing.T) {
	wrapped := errors.Join(errors.New("context"), NewConflict("already a member"))

	w := performRequest(func(c *gin.Context) {
		Error(c, wrapped)
	})

	if w.Code != http.StatusConflict {
		t.Errorf("errors.As should unwrap AppError, got status %d", w.Code)
	}
}

func TestError_GenericError(t *testing.T) {
	w := performRequest(func(c *gin.Context) {
		Error(c, errors.New("database unreachable"))
	})

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	resp := parseResponse(t, w)
	if resp.Code != 500 {
		t.Errorf("expected code 500, got %d", resp.Code)
	}
}
