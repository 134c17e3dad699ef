package footprint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type searchReq struct {
	Q     string `json:"q" validate:"required"`
	Limit int    `json:"limit"`
}

type searchRes struct {
	Total int      `json:"total"`
	Terms []string `json:"terms"`
}

func searchEndpoint() *Endpoint[searchReq, searchRes] {
	return NewEndpoint(func(ctx context.Context, req searchReq) (searchRes, error) {
		return searchRes{Total: req.Limit, Terms: []string{req.Q}}, nil
	})
}

func TestEndpoint_GET(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?q=hello&limit=5", nil)
	w := httptest.NewRecorder()
	searchEndpoint().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var res searchRes
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Total != 5 || len(res.Terms) != 1 || res.Terms[0] != "hello" {
		t.Errorf("res = %+v", res)
	}
}

func TestEndpoint_ValidationFailure(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?limit=5", nil)
	w := httptest.NewRecorder()
	searchEndpoint().ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	var envelope Error
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if envelope.Code != CodeInvalidArgument {
		t.Errorf("code = %q", envelope.Code)
	}
	if envelope.Fields["Q"] != "required" {
		t.Errorf("fields = %v", envelope.Fields)
	}
}

func TestEndpoint_MethodNotAllowed(t *testing.T) {
	r := httptest.NewRequest("POST", "/search", nil)
	w := httptest.NewRecorder()
	searchEndpoint().ServeHTTP(w, r)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", w.Code)
	}
}

func TestEndpoint_POSTForm(t *testing.T) {
	form := url.Values{"q": {"world"}, "limit": {"3"}}
	r := httptest.NewRequest("POST", "/search", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	searchEndpoint().Method(http.MethodPost).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var res searchRes
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.Total != 3 || res.Terms[0] != "world" {
		t.Errorf("res = %+v", res)
	}
}

func TestEndpoint_ServiceError(t *testing.T) {
	ep := NewEndpoint(func(ctx context.Context, req searchReq) (searchRes, error) {
		return searchRes{}, NewError(CodeNotFound, "no such index")
	})
	r := httptest.NewRequest("GET", "/search?q=x", nil)
	w := httptest.NewRecorder()
	ep.ServeHTTP(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	var envelope Error
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("bad error body: %v", err)
	}
	if envelope.Code != CodeNotFound || envelope.Message != "no such index" {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestEndpoint_UnknownKeysIgnored(t *testing.T) {
	r := httptest.NewRequest("GET", "/search?q=x&junk=1", nil)
	w := httptest.NewRecorder()
	searchEndpoint().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, body = %s", w.Code, w.Body.String())
	}
}
