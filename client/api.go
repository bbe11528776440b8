// Package client 是Saturway小程序前端数据层的Go实现：
// 一个带令牌管理的API客户端，和一个做乐观更新与回滚的内存数据仓库
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"SaturwayGo/models"
)

// APIError 远端接口返回的错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// APIClient 远端API客户端。每个出站请求都受超时约束，
// 超时按请求错误处理，不会无限挂起
type APIClient struct {
	baseURL string
	http    *http.Client

	mu             sync.Mutex
	token          string
	onUnauthorized func()
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &APIClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken 设置Bearer令牌
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token 返回当前令牌
func (c *APIClient) Token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// OnUnauthorized 注册401回调，令牌失效时触发
func (c *APIClient) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// do 发送请求并把响应体解码到out。收到401时作废本地令牌并触发回调
func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.mu.Lock()
		c.token = ""
		fn := c.onUnauthorized
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr models.ErrorResponse
		if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Error == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: string(raw)}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// doData 解码{success, data}包装结构里的data字段
func (c *APIClient) doData(ctx context.Context, method, path string, body, out interface{}) error {
	var envelope models.Envelope
	if err := c.do(ctx, method, path, body, &envelope); err != nil {
		return err
	}
	if out == nil || envelope.Data == nil {
		return nil
	}
	return json.Unmarshal(envelope.Data, out)
}

// Login 用Telegram initData换取令牌并保存
func (c *APIClient) Login(ctx context.Context, initData string) (*models.User, error) {
	var resp models.AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/telegram",
		models.TelegramAuthRequest{InitData: initData}, &resp)
	if err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp.User, nil
}

func (c *APIClient) GetTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := c.doData(ctx, http.MethodGet, "/api/v1/tasks", nil, &tasks)
	return tasks, err
}

func (c *APIClient) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.doData(ctx, http.MethodPost, "/api/v1/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) UpdateTask(ctx context.Context, id string, req models.UpdateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.doData(ctx, http.MethodPut, "/api/v1/tasks/"+id, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) CompleteTask(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := c.doData(ctx, http.MethodPost, "/api/v1/tasks/"+id+"/complete", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *APIClient) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/tasks/"+id, nil, nil)
}

func (c *APIClient) GetMoodLogs(ctx context.Context, days int) ([]models.MoodLog, error) {
	var logs []models.MoodLog
	err := c.doData(ctx, http.MethodGet, fmt.Sprintf("/api/v1/mood/logs?days=%d", days), nil, &logs)
	return logs, err
}

func (c *APIClient) LogMood(ctx context.Context, req models.LogMoodRequest) (*models.MoodLog, error) {
	var log models.MoodLog
	if err := c.doData(ctx, http.MethodPost, "/api/v1/mood", req, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

func (c *APIClient) GetTodayEnergy(ctx context.Context) ([]models.EnergyLog, error) {
	var logs []models.EnergyLog
	err := c.doData(ctx, http.MethodGet, "/api/v1/energy/today", nil, &logs)
	return logs, err
}

func (c *APIClient) LogEnergy(ctx context.Context, req models.LogEnergyRequest) (*models.EnergyLog, error) {
	var log models.EnergyLog
	if err := c.doData(ctx, http.MethodPost, "/api/v1/energy", req, &log); err != nil {
		return nil, err
	}
	return &log, nil
}

// GetHabit 获取当前活跃习惯，没有时返回nil不报错
func (c *APIClient) GetHabit(ctx context.Context) (*models.Habit, error) {
	var habit models.Habit
	err := c.doData(ctx, http.MethodGet, "/api/v1/habit", nil, &habit)
	if apiErr, ok := err.(*APIError); ok && apiErr.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *APIClient) CreateHabit(ctx context.Context, req models.CreateHabitRequest) (*models.Habit, error) {
	var habit models.Habit
	if err := c.doData(ctx, http.MethodPost, "/api/v1/habit", req, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *APIClient) MarkHabitDone(ctx context.Context, date string) (*models.Habit, error) {
	var habit models.Habit
	if err := c.doData(ctx, http.MethodPost, "/api/v1/habit/done",
		models.MarkHabitDoneRequest{Date: date}, &habit); err != nil {
		return nil, err
	}
	return &habit, nil
}

func (c *APIClient) GetInsights(ctx context.Context) ([]models.AIInsight, error) {
	var resp models.InsightsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/ai/insights", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Insights, nil
}

func (c *APIClient) OptimizeSchedule(ctx context.Context, req models.OptimizeScheduleRequest) (*models.OptimizeScheduleResponse, error) {
	var resp models.OptimizeScheduleResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/ai/optimize-schedule", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) GetTaskSuggestions(ctx context.Context) ([]models.TaskSuggestion, error) {
	var resp models.SuggestionsResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/ai/suggestions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

func (c *APIClient) Chat(ctx context.Context, message string, history []models.ChatMessage) (*models.ChatResponse, error) {
	var resp models.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/ai/chat",
		models.ChatRequest{Message: message, History: history}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
