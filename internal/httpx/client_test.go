package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skillsenselab/meetscribe/internal/httpx"
)

func TestDoAppliesBaseURLAndAuth(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{
		BaseURL: srv.URL,
		Auth:    httpx.BearerAuth("tok123"),
	})

	resp, err := c.Do(context.Background(), httpx.Request{Method: http.MethodGet, Path: "/v2/thing"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsSuccess() {
		t.Fatalf("expected success, got %d", resp.StatusCode)
	}
	if gotPath != "/v2/thing" {
		t.Fatalf("expected path /v2/thing, got %s", gotPath)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestDoQueryParams(t *testing.T) {
	var gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFrom = r.URL.Query().Get("from")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), httpx.Request{
		Method: http.MethodGet,
		Path:   "recordings",
		Query:  map[string]string{"from": "2026-08-23"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFrom != "2026-08-23" {
		t.Fatalf("expected from param, got %q", gotFrom)
	}
}

func TestDoClassifiesErrors(t *testing.T) {
	cases := []struct {
		status int
		check  func(error) bool
		name   string
	}{
		{http.StatusUnauthorized, httpx.IsAuth, "auth"},
		{http.StatusForbidden, httpx.IsAuth, "auth-403"},
		{http.StatusNotFound, httpx.IsNotFound, "not-found"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"message":"nope"}`))
			}))
			defer srv.Close()

			c := httpx.New(httpx.Config{BaseURL: srv.URL})
			resp, err := c.Do(context.Background(), httpx.Request{Method: http.MethodGet, Path: "/"})
			if err == nil {
				t.Fatal("expected error")
			}
			if !tc.check(err) {
				t.Fatalf("wrong classification for %d: %v", tc.status, err)
			}
			if resp == nil || resp.StatusCode != tc.status {
				t.Fatalf("expected response alongside error, got %+v", resp)
			}
		})
	}
}

func TestDoJSONBody(t *testing.T) {
	var gotCT string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), httpx.Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   map[string]any{"multichannel": true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCT != "application/json" {
		t.Fatalf("expected json content type, got %q", gotCT)
	}
	if gotBody["multichannel"] != true {
		t.Fatalf("expected multichannel=true, got %v", gotBody)
	}
}

func TestDoFormBody(t *testing.T) {
	var gotCT, gotGrant string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotGrant = r.PostFormValue("grant_type")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), httpx.Request{
		Method: http.MethodPost,
		Path:   "/token",
		Body:   httpx.FormBody{"grant_type": "account_credentials"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotCT != "application/x-www-form-urlencoded" {
		t.Fatalf("expected form content type, got %q", gotCT)
	}
	if gotGrant != "account_credentials" {
		t.Fatalf("expected grant_type, got %q", gotGrant)
	}
}

func TestDownloadStreamsBody(t *testing.T) {
	payload := strings.Repeat("audio-bytes-", 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(w, strings.NewReader(payload))
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{})
	var buf bytes.Buffer
	if err := c.Download(context.Background(), srv.URL, httpx.BearerAuth("t"), &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != payload {
		t.Fatalf("payload mismatch: got %d bytes", buf.Len())
	}
}

func TestDownloadOutlivesRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("first-chunk-"))
		w.(http.Flusher).Flush()
		time.Sleep(150 * time.Millisecond)
		_, _ = w.Write([]byte("second-chunk"))
	}))
	defer srv.Close()

	// The request timeout applies to API calls only; a slow track transfer
	// must be allowed to finish.
	c := httpx.New(httpx.Config{Timeout: 50 * time.Millisecond})
	var buf bytes.Buffer
	if err := c.Download(context.Background(), srv.URL, nil, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "first-chunk-second-chunk" {
		t.Fatalf("incomplete download: %q", buf.String())
	}
}

func TestDownloadErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := httpx.New(httpx.Config{})
	var buf bytes.Buffer
	err := c.Download(context.Background(), srv.URL, nil, &buf)
	if !httpx.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatal("expected no bytes written on error")
	}
}

func TestTypedGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":"combined","channels":2}`))
	}))
	defer srv.Close()

	type payload struct {
		Name     string `json:"name"`
		Channels int    `json:"channels"`
	}

	c := httpx.New(httpx.Config{BaseURL: srv.URL})
	resp, err := httpx.Get[payload](c, context.Background(), "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Data.Name != "combined" || resp.Data.Channels != 2 {
		t.Fatalf("decode mismatch: %+v", resp.Data)
	}
}
