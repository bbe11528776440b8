package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"SaturwayGo/models"
)

func writeData(w http.ResponseWriter, data interface{}) {
	payload, _ := json.Marshal(data)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"success":true,"data":` + string(payload) + `}`))
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `"}`))
}

func newTestStore(serverURL string, tasks []models.Task) *Store {
	store := NewStore(NewAPIClient(serverURL, 5*time.Second))
	store.tasks = cloneTasks(tasks)
	return store
}

// waitFor 轮询等待条件成立
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestCompleteTaskOptimisticBeforeResolve(t *testing.T) {
	release := make(chan struct{})
	completedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/tasks/1/complete" {
			<-release
			writeData(w, models.Task{ID: "1", Title: "写报告", Status: models.StatusCompleted, CompletedAt: &completedAt})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{{ID: "1", Title: "写报告", Status: models.StatusPending}})

	done := make(chan error, 1)
	go func() { done <- store.CompleteTask(context.Background(), "1") }()

	// 远端还没返回时，本地状态就已经是completed
	waitFor(t, func() bool { return store.Tasks()[0].Status == models.StatusCompleted })
	if store.Tasks()[0].CompletedAt != nil {
		t.Error("completedAt should not be set before the server responds")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	// 远端返回后换成服务端的权威版本
	task := store.Tasks()[0]
	if task.CompletedAt == nil || !task.CompletedAt.Equal(completedAt) {
		t.Errorf("completedAt = %v, want %v", task.CompletedAt, completedAt)
	}
}

func TestCompleteTaskEndToEnd(t *testing.T) {
	completedAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/tasks/1/complete" {
			writeData(w, models.Task{ID: "1", Status: models.StatusCompleted, CompletedAt: &completedAt})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{
		{ID: "1", Status: models.StatusPending},
		{ID: "2", Status: models.StatusCompleted},
	})

	if err := store.CompleteTask(context.Background(), "1"); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	tasks := store.Tasks()
	if len(tasks) != 2 {
		t.Fatalf("tasks length = %d, want 2", len(tasks))
	}
	if tasks[0].ID != "1" || tasks[0].Status != models.StatusCompleted || tasks[0].CompletedAt == nil {
		t.Errorf("tasks[0] = %+v", tasks[0])
	}
	if tasks[1].ID != "2" || tasks[1].Status != models.StatusCompleted {
		t.Errorf("tasks[1] = %+v", tasks[1])
	}
}

func TestCompleteTaskUnknownIDIsNoop(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{{ID: "1", Status: models.StatusPending}})

	// 本地没有的任务按无操作处理，不发远端请求也不报错
	if err := store.CompleteTask(context.Background(), "missing"); err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, want 0", requests)
	}
	if store.Tasks()[0].Status != models.StatusPending {
		t.Error("existing task should be untouched")
	}
	if store.TasksError() != "" {
		t.Errorf("tasksError = %q, want empty", store.TasksError())
	}
}

func TestDeleteTaskRollbackRestoresPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "boom")
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{
		{ID: "a", Title: "任务A"},
		{ID: "b", Title: "任务B"},
		{ID: "c", Title: "任务C"},
	})

	err := store.DeleteTask(context.Background(), "b")
	if err == nil {
		t.Fatal("DeleteTask() should propagate the remote error")
	}

	tasks := store.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("tasks length = %d, want 3 after rollback", len(tasks))
	}
	// 回滚后任务回到原来的位置
	if tasks[1].ID != "b" {
		t.Errorf("tasks[1].ID = %q, want b", tasks[1].ID)
	}
	if store.TasksError() == "" {
		t.Error("tasksError should be set after a failed delete")
	}
}

func TestDeleteTaskOptimisticRemoval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			_, _ = w.Write([]byte(`{"success":true}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{{ID: "a"}, {ID: "b"}})

	if err := store.DeleteTask(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	tasks := store.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "b" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestStaleServerResponseDiscarded(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/tasks/1/complete":
			// 慢请求：等到后一次变更完成才返回过期数据
			<-release
			writeData(w, models.Task{ID: "1", Title: "旧标题", Status: models.StatusCompleted})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/tasks/1":
			writeData(w, models.Task{ID: "1", Title: "新标题", Status: models.StatusCompleted})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{{ID: "1", Title: "旧标题", Status: models.StatusPending}})

	done := make(chan error, 1)
	go func() { done <- store.CompleteTask(context.Background(), "1") }()
	waitFor(t, func() bool { return store.Tasks()[0].Status == models.StatusCompleted })

	// 同一任务上更晚的变更
	title := "新标题"
	if err := store.UpdateTask(context.Background(), "1", models.UpdateTaskRequest{Title: &title}); err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}

	// 先发出但后到达的响应是过期的，必须被丢弃
	if got := store.Tasks()[0].Title; got != "新标题" {
		t.Errorf("title = %q, want 新标题", got)
	}
}

func TestFetchTasksFailureKeepsPriorData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "db down")
	}))
	defer server.Close()

	store := newTestStore(server.URL, []models.Task{{ID: "1", Title: "已有任务"}})

	if err := store.FetchTasks(context.Background()); err == nil {
		t.Fatal("FetchTasks() should return the remote error")
	}
	if len(store.Tasks()) != 1 {
		t.Error("prior data should survive a failed fetch")
	}
	if store.TasksError() == "" {
		t.Error("tasksError should be set")
	}
}

func TestInitializeAppPartialFailureIsolation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/tasks":
			writeData(w, []models.Task{{ID: "1", Title: "任务"}})
		case "/api/v1/mood/logs":
			writeData(w, []models.MoodLog{})
		case "/api/v1/ai/insights":
			writeError(w, http.StatusInternalServerError, "llm down")
		case "/api/v1/habit":
			writeError(w, http.StatusNotFound, "暂无活跃习惯")
		case "/api/v1/energy/today":
			writeData(w, []models.EnergyLog{{ID: "e1", Level: 80}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	store := NewStore(NewAPIClient(server.URL, 5*time.Second))
	store.InitializeApp(context.Background())

	// 单个域失败不影响其他域
	if len(store.Tasks()) != 1 {
		t.Errorf("tasks = %+v, want 1 entry", store.Tasks())
	}
	if len(store.TodayEnergy()) != 1 {
		t.Errorf("todayEnergy = %+v, want 1 entry", store.TodayEnergy())
	}
	if store.InsightsError() == "" {
		t.Error("insightsError should be set")
	}
	if store.TasksError() != "" {
		t.Errorf("tasksError = %q, want empty", store.TasksError())
	}
	// 没有活跃习惯不算错误
	if store.HabitError() != "" {
		t.Errorf("habitError = %q, want empty", store.HabitError())
	}
	if store.Habit() != nil {
		t.Error("habit should be nil")
	}
}

func TestCurrentMoodRecomputedByRecordDate(t *testing.T) {
	older := models.MoodLog{ID: "m1", Mood: 4, RecordDate: time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)}
	newer := models.MoodLog{ID: "m2", Mood: 9, RecordDate: time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/mood/logs":
			// 远端不保证排序，最新的一条排在后面
			writeData(w, []models.MoodLog{older, newer})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/mood":
			writeData(w, models.MoodLog{ID: "m3", Mood: 6, RecordDate: time.Date(2025, 5, 3, 8, 0, 0, 0, time.UTC)})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	store := NewStore(NewAPIClient(server.URL, 5*time.Second))

	if err := store.FetchMoodLogs(context.Background(), 7); err != nil {
		t.Fatalf("FetchMoodLogs() error = %v", err)
	}
	if mood := store.CurrentMood(); mood == nil || mood.ID != "m2" {
		t.Errorf("currentMood = %+v, want m2", mood)
	}

	// 打卡和拉取走同一条重算路径
	if err := store.LogMood(context.Background(), models.LogMoodRequest{Mood: 6, Energy: 6, Focus: 6}); err != nil {
		t.Fatalf("LogMood() error = %v", err)
	}
	if mood := store.CurrentMood(); mood == nil || mood.ID != "m3" {
		t.Errorf("currentMood = %+v, want m3", mood)
	}
}
