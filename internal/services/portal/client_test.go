package portal

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/j-veylop/netmeter/internal/models"
)

// MockRoundTripper implements http.RoundTripper for testing
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

func TestAuthenticate_SendsLoginForm(t *testing.T) {
	var gotForm map[string]string
	var gotAgent, gotType string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm failed: %v", err)
		}
		gotForm = make(map[string]string)
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
		gotAgent = r.UserAgent()
		gotType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, `{"user":{"consumedData":{}}}`)
	}))
	defer server.Close()

	client := New(Config{URL: server.URL, UserAgent: "test-agent"})
	resp := client.Authenticate(context.Background(), models.Credentials{Username: "alice", Password: "s3cret&x"})

	if !resp.OK() {
		t.Fatalf("expected OK response, got err=%v", resp.Err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", resp.StatusCode)
	}

	want := map[string]string{
		"action":                "authenticate",
		"switch_package":        "true",
		"login":                 "alice",
		"password":              "s3cret&x",
		"policy_accept":         "true",
		"private_policy_accept": "false",
		"from_ajax":             "true",
		"wispr_mode":            "false",
	}
	for k, v := range want {
		if gotForm[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, gotForm[k], v)
		}
	}
	if gotAgent != "test-agent" {
		t.Errorf("User-Agent = %q, want test-agent", gotAgent)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", gotType)
	}
}

func TestAuthenticate_ErrorStatusKeepsBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"errorMsg":"Invalid credentials"}`)
	}))
	defer server.Close()

	resp := New(Config{URL: server.URL}).Authenticate(context.Background(), models.Credentials{})
	if !resp.OK() {
		t.Fatalf("expected body to be delivered, got err=%v", resp.Err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "Invalid credentials") {
		t.Errorf("Body = %q", resp.Body)
	}
}

func TestAuthenticate_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	resp := New(Config{URL: server.URL}).Authenticate(context.Background(), models.Credentials{})
	if resp.OK() {
		t.Fatal("empty body should not be OK")
	}
	if !errors.Is(resp.Err, ErrEmptyBody) {
		t.Errorf("Err = %v, want ErrEmptyBody", resp.Err)
	}
}

func TestAuthenticate_TransportError(t *testing.T) {
	client := New(Config{URL: "https://portal.invalid/api"})
	client.httpClient.Transport = &MockRoundTripper{
		RoundTripFunc: func(_ *http.Request) (*http.Response, error) {
			return nil, errors.New("no route to host")
		},
	}

	resp := client.Authenticate(context.Background(), models.Credentials{Username: "u"})
	if resp == nil {
		t.Fatal("Authenticate should never return nil")
	}

	var fe *FetchError
	if !errors.As(resp.Err, &fe) {
		t.Fatalf("Err = %v, want *FetchError", resp.Err)
	}
	if fe.URL != "https://portal.invalid/api" {
		t.Errorf("FetchError.URL = %q", fe.URL)
	}
	if resp.OK() {
		t.Error("failed response should not be OK")
	}
}

func TestAuthenticate_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	resp := New(Config{URL: server.URL}).Authenticate(ctx, models.Credentials{})
	if !errors.Is(resp.Err, context.DeadlineExceeded) {
		t.Errorf("Err = %v, want context.DeadlineExceeded", resp.Err)
	}
}

func TestNew_Defaults(t *testing.T) {
	client := New(Config{})

	if client.URL() != DefaultURL {
		t.Errorf("URL() = %q, want %q", client.URL(), DefaultURL)
	}
	if client.config.UserAgent != DefaultUserAgent {
		t.Errorf("UserAgent = %q", client.config.UserAgent)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Errorf("Timeout = %v, want %v", client.httpClient.Timeout, defaultTimeout)
	}
}

func TestNew_InsecureTransport(t *testing.T) {
	tests := []struct {
		name     string
		insecure bool
	}{
		{"Verify", false},
		{"Skip", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(Config{InsecureSkipVerify: tt.insecure})
			transport, ok := client.httpClient.Transport.(*http.Transport)
			if !ok {
				t.Fatal("expected *http.Transport")
			}
			got := transport.TLSClientConfig != nil && transport.TLSClientConfig.InsecureSkipVerify
			if got != tt.insecure {
				t.Errorf("InsecureSkipVerify = %v, want %v", got, tt.insecure)
			}
		})
	}
}

func TestRawResponse_OK(t *testing.T) {
	var nilResp *RawResponse
	if nilResp.OK() {
		t.Error("nil response should not be OK")
	}
	if (&RawResponse{Body: []byte("{}")}).OK() != true {
		t.Error("response with body should be OK")
	}
}
