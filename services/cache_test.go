package services

import (
	"strings"
	"testing"

	"SaturwayGo/models"
)

func TestChatCacheKeyDeterministic(t *testing.T) {
	messages := []models.ChatMessage{
		{Role: "system", Content: "你是助手"},
		{Role: "user", Content: "帮我排期"},
	}

	first := ChatCacheKey("user-1", messages)
	second := ChatCacheKey("user-1", messages)
	if first != second {
		t.Errorf("keys differ for identical input: %q vs %q", first, second)
	}
	if !strings.HasPrefix(first, "ai:chat:") {
		t.Errorf("key = %q, want ai:chat: prefix", first)
	}
}

func TestChatCacheKeySensitiveToContent(t *testing.T) {
	base := []models.ChatMessage{{Role: "user", Content: "帮我排期"}}
	changed := []models.ChatMessage{{Role: "user", Content: "帮我排期!"}}

	// 内容差一个字符就必须换键
	if ChatCacheKey("user-1", base) == ChatCacheKey("user-1", changed) {
		t.Error("keys should differ when message content differs")
	}
}

func TestChatCacheKeySensitiveToUser(t *testing.T) {
	messages := []models.ChatMessage{{Role: "user", Content: "帮我排期"}}

	if ChatCacheKey("user-1", messages) == ChatCacheKey("user-2", messages) {
		t.Error("keys should differ across users")
	}
}

func TestChatCacheKeySensitiveToRole(t *testing.T) {
	asUser := []models.ChatMessage{{Role: "user", Content: "同样内容"}}
	asSystem := []models.ChatMessage{{Role: "system", Content: "同样内容"}}

	if ChatCacheKey("user-1", asUser) == ChatCacheKey("user-1", asSystem) {
		t.Error("keys should differ when roles differ")
	}
}
