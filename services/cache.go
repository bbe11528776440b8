package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"SaturwayGo/models"
	"github.com/go-redis/redis/v8"
)

// ErrCacheMiss 缓存未命中；其他缓存错误按请求失败处理，不当作未命中
var ErrCacheMiss = errors.New("缓存未命中")

// Cache AI响应缓存接口
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache 基于Redis的缓存实现
type RedisCache struct {
	Client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{Client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

// ChatCacheKey 对(用户ID, 序列化消息)取哈希生成缓存键。
// 键是输入内容的纯函数：同一用户的相同请求会命中，内容变一个字符就换键
func ChatCacheKey(userID string, messages []models.ChatMessage) string {
	payload, _ := json.Marshal(messages)
	sum := sha256.Sum256([]byte(userID + "\n" + string(payload)))
	return fmt.Sprintf("ai:chat:%s", hex.EncodeToString(sum[:]))
}
