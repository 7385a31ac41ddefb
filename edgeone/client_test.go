package edgeone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

// pagesHandler answers one Pages API action; returning a non-zero code marks
// the action as failed.
type pagesHandler func(action string, body map[string]any) (code int, message string, response any)

func newPagesServer(t *testing.T, handle pagesHandler) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}

		action, _ := body["Action"].(string)
		code, message, response := handle(action, body)

		envelope := map[string]any{
			"Code":    code,
			"Message": message,
			"Data": map[string]any{
				"Response": response,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(envelope)
	}))
}

func newTestClient(t *testing.T, handle pagesHandler) *Client {
	t.Helper()

	server := newPagesServer(t, handle)
	t.Cleanup(server.Close)

	client := NewClient("test-token")
	client.BaseURL = server.URL

	return client
}

func TestValidateTokenPicksWorkingEndpoint(t *testing.T) {
	rejecting := newPagesServer(t, func(action string, body map[string]any) (int, string, any) {
		return 401, "unauthorized", nil
	})
	defer rejecting.Close()

	accepting := newPagesServer(t, func(action string, body map[string]any) (int, string, any) {
		if action != "DescribePagesProjects" {
			t.Errorf("probe used action %q", action)
		}
		return 0, "", map[string]any{"Projects": []any{}}
	})
	defer accepting.Close()

	client := NewClient("test-token")
	client.ProbeURLs = []string{rejecting.URL, accepting.URL}

	if err := client.ValidateToken(context.Background()); err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if client.BaseURL != accepting.URL {
		t.Errorf("BaseURL = %q, want %q", client.BaseURL, accepting.URL)
	}
}

func TestValidateTokenAllEndpointsReject(t *testing.T) {
	rejecting := newPagesServer(t, func(action string, body map[string]any) (int, string, any) {
		return 401, "unauthorized", nil
	})
	defer rejecting.Close()

	client := NewClient("bad-token")
	client.ProbeURLs = []string{rejecting.URL, rejecting.URL}

	err := client.ValidateToken(context.Background())
	if !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestValidateTokenUnreachableEndpoint(t *testing.T) {
	client := NewClient("test-token")
	client.ProbeURLs = []string{"http://127.0.0.1:1"}

	err := client.ValidateToken(context.Background())
	if !errors.Is(err, models.ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRequestsCarryBearerToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"Code": 0})
	}))
	defer server.Close()

	client := NewClient("test-token")
	client.BaseURL = server.URL

	if _, err := client.DescribeProjects(context.Background(), "", ""); err != nil {
		t.Fatalf("DescribeProjects failed: %v", err)
	}
}

func TestAPIErrorSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(action string, body map[string]any) (int, string, any) {
		return 8001, "quota exceeded", nil
	})

	_, err := client.DescribeProjects(context.Background(), "", "")

	var upstream *models.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}

	if upstream.Message != "quota exceeded" {
		t.Errorf("Message = %q, want upstream message", upstream.Message)
	}
}

func TestNonOKStatusIsUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient("test-token")
	client.BaseURL = server.URL

	_, err := client.DescribeProjects(context.Background(), "", "")

	var upstream *models.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}
}

func TestDescribeProjectsFiltersByName(t *testing.T) {
	client := newTestClient(t, func(action string, body map[string]any) (int, string, any) {
		filters, ok := body["Filters"].([]any)
		if !ok || len(filters) != 1 {
			t.Errorf("Filters = %v, want one name filter", body["Filters"])
		}

		return 0, "", map[string]any{
			"Projects": []map[string]any{
				{"ProjectId": "proj-1", "Name": "my-blog", "PresetDomain": "my-blog.edgeone.app"},
			},
		}
	})

	projects, err := client.DescribeProjects(context.Background(), "", "my-blog")
	if err != nil {
		t.Fatalf("DescribeProjects failed: %v", err)
	}

	if len(projects) != 1 || projects[0].ProjectID != "proj-1" {
		t.Errorf("projects = %+v", projects)
	}
}

func TestCreateProjectReturnsID(t *testing.T) {
	client := newTestClient(t, func(action string, body map[string]any) (int, string, any) {
		if body["Provider"] != "Upload" || body["Channel"] != "Custom" || body["Area"] != "global" {
			t.Errorf("unexpected CreatePagesProject body: %v", body)
		}
		return 0, "", map[string]any{"ProjectId": "proj-new"}
	})

	id, err := client.CreateProject(context.Background(), "dify-upload-abc")
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	if id != "proj-new" {
		t.Errorf("id = %q", id)
	}
}

func TestCreateProjectWithoutIDFails(t *testing.T) {
	client := newTestClient(t, func(action string, body map[string]any) (int, string, any) {
		return 0, "", map[string]any{}
	})

	if _, err := client.CreateProject(context.Background(), "dify-upload-abc"); err == nil {
		t.Fatal("expected error when no project id returned")
	}
}

func TestCosTempTokenScopedToProject(t *testing.T) {
	client := newTestClient(t, func(action string, body map[string]any) (int, string, any) {
		if body["ProjectId"] != "proj-1" {
			t.Errorf("ProjectId = %v, want proj-1", body["ProjectId"])
		}
		if _, ok := body["ProjectName"]; ok {
			t.Error("ProjectName must not be sent together with ProjectId")
		}

		return 0, "", map[string]any{
			"Bucket":     "pages-125000",
			"Region":     "ap-guangzhou",
			"TargetPath": "pages/tmp",
			"Credentials": map[string]any{
				"TmpSecretId":  "id",
				"TmpSecretKey": "key",
				"Token":        "session",
			},
		}
	})

	token, err := client.CosTempToken(context.Background(), "proj-1", "")
	if err != nil {
		t.Fatalf("CosTempToken failed: %v", err)
	}

	if token.Bucket != "pages-125000" || token.Credentials.TmpSecretID != "id" {
		t.Errorf("token = %+v", token)
	}
}
