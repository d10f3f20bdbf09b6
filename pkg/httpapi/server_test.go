package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	intakex "github.com/estateplan/intake-agent/agent/agents/intake"
	contractx "github.com/estateplan/intake-agent/agent/contract"
	statex "github.com/estateplan/intake-agent/agent/state"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(ctx context.Context, req contractx.CompletionRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, completer contractx.Completer) *Server {
	t.Helper()
	agent, err := intakex.New(statex.NewMemoryStore(), completer, nil)
	if err != nil {
		t.Fatalf("intake.New() error = %v", err)
	}
	srv, err := NewServer(agent, Config{Addr: ":0"})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func TestHandleInvokeSuccess(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubCompleter{reply: "Welcome! What is your full legal name?"})

	body := `{"session_id":"s-1","prompt":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp contractx.AgentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != contractx.StatusSuccess {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Message == "" {
		t.Fatal("message is empty")
	}
	if resp.Progress.CurrentSection == "" {
		t.Fatal("progress missing from response")
	}
}

func TestHandleInvokeGeneratesSessionID(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubCompleter{reply: "Hi there."})

	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(`{"prompt":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp contractx.AgentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	sid, _ := resp.Metadata["session_id"].(string)
	if sid == "" {
		t.Fatal("expected a generated session id in metadata")
	}
}

func TestHandleInvokeModelFailureStructuredBody(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubCompleter{err: errors.New("model down")})

	body := `{"session_id":"s-err","prompt":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp contractx.AgentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != contractx.StatusError {
		t.Fatalf("status = %q", resp.Status)
	}
	if resp.Message == "" {
		t.Fatal("error responses must carry a user-facing message")
	}
}

func TestHandleInvokeEmptyPromptRejected(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubCompleter{reply: "hi"})

	req := httptest.NewRequest(http.MethodPost, "/invocations", strings.NewReader(`{"session_id":"s-2","prompt":"  "}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, &stubCompleter{reply: "hi"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	srv.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
