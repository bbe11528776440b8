package services

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"SaturwayGo/config"
	"SaturwayGo/models"
	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Logger = zap.NewNop().Sugar()
	os.Exit(m.Run())
}

// fakeModel 可控的模型桩
type fakeModel struct {
	calls    int
	response string
	err      error
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	m.calls++
	return m.response, m.err
}

// memCache 内存缓存桩
type memCache struct {
	data   map[string]string
	getErr error
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (c *memCache) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return "", ErrCacheMiss
}

func (c *memCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.data[key] = value
	return nil
}

func newTestService(model *fakeModel, cache Cache) *AIService {
	return &AIService{
		client:   &ProviderClient{Primary: model, Fallback: model},
		cache:    cache,
		provider: ProviderPrimary,
		cacheTTL: time.Minute,
		timeout:  5 * time.Second,
	}
}

func TestChatCachesByContentHash(t *testing.T) {
	model := &fakeModel{response: "第一次的回答"}
	svc := newTestService(model, newMemCache())

	messages := []models.ChatMessage{{Role: "user", Content: "今天怎么安排"}}

	first, err := svc.Chat(context.Background(), "user-1", messages, ProviderPrimary)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	// 第二次相同请求必须命中缓存，不触发模型调用
	model.response = "不该出现的回答"
	second, err := svc.Chat(context.Background(), "user-1", messages, ProviderPrimary)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if model.calls != 1 {
		t.Errorf("model calls = %d, want 1", model.calls)
	}
	if second != first {
		t.Errorf("second = %q, want %q", second, first)
	}
}

func TestChatDifferentUserMissesCache(t *testing.T) {
	model := &fakeModel{response: "回答"}
	svc := newTestService(model, newMemCache())

	messages := []models.ChatMessage{{Role: "user", Content: "同样的内容"}}

	if _, err := svc.Chat(context.Background(), "user-1", messages, ProviderPrimary); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if _, err := svc.Chat(context.Background(), "user-2", messages, ProviderPrimary); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if model.calls != 2 {
		t.Errorf("model calls = %d, want 2", model.calls)
	}
}

func TestChatProviderErrorPropagates(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	svc := newTestService(model, newMemCache())

	_, err := svc.Chat(context.Background(), "user-1",
		[]models.ChatMessage{{Role: "user", Content: "hi"}}, ProviderPrimary)
	if err == nil {
		t.Fatal("Chat() should return provider error")
	}
}

func TestChatCacheErrorIsNotAMiss(t *testing.T) {
	model := &fakeModel{response: "回答"}
	cache := newMemCache()
	cache.getErr = errors.New("connection refused")
	svc := newTestService(model, cache)

	_, err := svc.Chat(context.Background(), "user-1",
		[]models.ChatMessage{{Role: "user", Content: "hi"}}, ProviderPrimary)
	if err == nil {
		t.Fatal("Chat() should fail when the cache is broken")
	}
	if model.calls != 0 {
		t.Errorf("model calls = %d, want 0", model.calls)
	}
}

func TestOptimizeScheduleParsesFencedJSON(t *testing.T) {
	model := &fakeModel{response: "好的，排期如下：\n```json\n{\"schedule\":[{\"taskId\":\"task-1\",\"suggestedTime\":\"09:30\",\"duration\":50,\"reasoning\":\"上午精力好\",\"energyMatch\":5}],\"insights\":[\"把难的放上午\"]}\n```\n祝顺利！"}
	svc := newTestService(model, newMemCache())

	result := svc.OptimizeSchedule(context.Background(), "user-1", "2025-06-01",
		[]models.Task{{ID: "task-1", Title: "写报告", Priority: models.PriorityHigh}},
		models.MoodStats{AvgEnergy: 7, AvgFocus: 6, Trend: models.TrendStable, Count: 5}, nil)

	if len(result.Schedule) != 1 {
		t.Fatalf("schedule length = %d, want 1", len(result.Schedule))
	}
	got := result.Schedule[0]
	if got.TaskID != "task-1" || got.SuggestedTime != "09:30" || got.Duration != 50 || got.EnergyMatch != 5 {
		t.Errorf("schedule[0] = %+v", got)
	}
	if len(result.Insights) != 1 || result.Insights[0] != "把难的放上午" {
		t.Errorf("insights = %v", result.Insights)
	}
}

func TestOptimizeScheduleFallbackOnGarbage(t *testing.T) {
	model := &fakeModel{response: "抱歉，我今天状态不好，说不出JSON。"}
	svc := newTestService(model, newMemCache())

	result := svc.OptimizeSchedule(context.Background(), "user-1", "2025-06-01",
		nil, models.MoodStats{}, nil)

	if len(result.Schedule) != 0 {
		t.Errorf("schedule = %v, want empty", result.Schedule)
	}
	if result.Schedule == nil {
		t.Error("schedule should be an empty slice, not nil")
	}
	if len(result.Insights) != 1 || result.Insights[0] != scheduleFallbackMessage {
		t.Errorf("insights = %v, want fallback message", result.Insights)
	}
}

func TestOptimizeScheduleFallbackOnProviderError(t *testing.T) {
	model := &fakeModel{err: errors.New("connection reset")}
	svc := newTestService(model, newMemCache())

	result := svc.OptimizeSchedule(context.Background(), "user-1", "2025-06-01",
		nil, models.MoodStats{}, nil)

	if len(result.Schedule) != 0 || len(result.Insights) != 1 {
		t.Errorf("result = %+v, want fallback", result)
	}
}

func TestOptimizeScheduleParsesBareJSON(t *testing.T) {
	model := &fakeModel{response: `{"schedule":[],"insights":["今天任务不多，早点休息"]}`}
	svc := newTestService(model, newMemCache())

	result := svc.OptimizeSchedule(context.Background(), "user-1", "2025-06-01",
		nil, models.MoodStats{}, nil)

	if len(result.Insights) != 1 || result.Insights[0] != "今天任务不多，早点休息" {
		t.Errorf("insights = %v", result.Insights)
	}
}

func TestGenerateTaskSuggestionsExtractsArray(t *testing.T) {
	model := &fakeModel{response: `Here are some ideas: ["Plan week", "Clean inbox"]`}
	svc := newTestService(model, newMemCache())

	suggestions := svc.GenerateTaskSuggestions(context.Background(), "user-1", nil, nil, models.MoodStats{})

	if len(suggestions) != 2 || suggestions[0] != "Plan week" || suggestions[1] != "Clean inbox" {
		t.Errorf("suggestions = %v, want [Plan week Clean inbox]", suggestions)
	}
}

func TestGenerateTaskSuggestionsFallback(t *testing.T) {
	model := &fakeModel{response: "我想不出什么建议。"}
	svc := newTestService(model, newMemCache())

	suggestions := svc.GenerateTaskSuggestions(context.Background(), "user-1", nil, nil, models.MoodStats{})

	if len(suggestions) != 3 {
		t.Fatalf("suggestions length = %d, want 3 fallback entries", len(suggestions))
	}
	for i, s := range suggestions {
		if s != fallbackSuggestions[i] {
			t.Errorf("suggestions[%d] = %q, want %q", i, s, fallbackSuggestions[i])
		}
	}
}

func TestExtractJSONBlockWithoutFence(t *testing.T) {
	got := extractJSONBlock(`  {"a":1}  `)
	if got != `{"a":1}` {
		t.Errorf("extractJSONBlock = %q", got)
	}
}
