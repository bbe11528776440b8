package services

import (
	"fmt"

	"SaturwayGo/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider LLM提供商选择，来自配置而不是请求数据
type Provider string

const (
	ProviderPrimary  Provider = "primary"
	ProviderFallback Provider = "fallback"
)

// ProviderClient 持有主备两个OpenAI兼容的模型客户端
type ProviderClient struct {
	Primary  llms.Model
	Fallback llms.Model
}

func NewProviderClient(conf config.Config) (*ProviderClient, error) {
	primary, err := openai.New(
		openai.WithToken(conf.PrimaryAPIKey),
		openai.WithBaseURL(conf.PrimaryAPIEndpoint),
		openai.WithModel(conf.PrimaryModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create primary LLM client: %w", err)
	}

	client := &ProviderClient{Primary: primary}

	// 备用提供商未配置时退回主提供商
	if conf.FallbackAPIKey == "" {
		client.Fallback = primary
		return client, nil
	}

	fallback, err := openai.New(
		openai.WithToken(conf.FallbackAPIKey),
		openai.WithBaseURL(conf.FallbackAPIEndpoint),
		openai.WithModel(conf.FallbackModel),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create fallback LLM client: %w", err)
	}
	client.Fallback = fallback

	return client, nil
}

// Model 根据配置值选择模型客户端
func (c *ProviderClient) Model(p Provider) (llms.Model, error) {
	switch p {
	case ProviderPrimary, "":
		return c.Primary, nil
	case ProviderFallback:
		return c.Fallback, nil
	default:
		return nil, fmt.Errorf("未知的LLM提供商: %s", p)
	}
}
