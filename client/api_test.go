package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SaturwayGo/models"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/telegram" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"token":"jwt-abc","user":{"id":"u1","firstName":"Ada"}}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)
	user, err := client.Login(context.Background(), "query_id=x&hash=y")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user.ID = %q, want u1", user.ID)
	}
	if client.Token() != "jwt-abc" {
		t.Errorf("token = %q, want jwt-abc", client.Token())
	}
}

func TestRequestCarriesToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeData(w, []models.Task{})
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)
	client.SetToken("jwt-abc")
	if _, err := client.GetTasks(context.Background()); err != nil {
		t.Fatalf("GetTasks() error = %v", err)
	}
	if gotAuth != "jwt-abc" {
		t.Errorf("Authorization = %q, want jwt-abc", gotAuth)
	}
}

func TestUnauthorizedInvalidatesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusUnauthorized, "未授权")
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)
	client.SetToken("stale")
	fired := false
	client.OnUnauthorized(func() { fired = true })

	_, err := client.GetTasks(context.Background())
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 APIError", err)
	}
	// 401后本地令牌作废，回调触发
	if client.Token() != "" {
		t.Errorf("token = %q, want cleared", client.Token())
	}
	if !fired {
		t.Error("onUnauthorized callback should fire")
	}
}

func TestErrorEnvelopeDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusBadRequest, "标题不能为空")
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)
	_, err := client.CreateTask(context.Background(), models.CreateTaskRequest{})

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Message != "标题不能为空" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestGetHabitNotFoundIsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "暂无活跃习惯")
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, 5*time.Second)
	habit, err := client.GetHabit(context.Background())
	if err != nil {
		t.Fatalf("GetHabit() error = %v", err)
	}
	if habit != nil {
		t.Errorf("habit = %+v, want nil", habit)
	}
}
