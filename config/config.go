package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`

	// Redis配置
	RedisHost     string `mapstructure:"REDIS_HOST"`
	RedisPort     string `mapstructure:"REDIS_PORT"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// LLM提供商配置（主备两套，均走OpenAI兼容协议）
	AIProvider          string `mapstructure:"AI_PROVIDER"` // primary, fallback
	PrimaryAPIKey       string `mapstructure:"PRIMARY_API_KEY"`
	PrimaryAPIEndpoint  string `mapstructure:"PRIMARY_API_ENDPOINT"`
	PrimaryModel        string `mapstructure:"PRIMARY_MODEL"`
	FallbackAPIKey      string `mapstructure:"FALLBACK_API_KEY"`
	FallbackAPIEndpoint string `mapstructure:"FALLBACK_API_ENDPOINT"`
	FallbackModel       string `mapstructure:"FALLBACK_MODEL"`

	// AI缓存与超时配置（秒）
	AICacheTTLSeconds int `mapstructure:"AI_CACHE_TTL"`
	AITimeoutSeconds  int `mapstructure:"AI_TIMEOUT"`

	// Telegram小程序登录配置
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`

	// JWT配置
	JWTSecret string `mapstructure:"JWT_SECRET"`
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&config)
	return
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// AICacheTTL 返回AI响应缓存的过期时间，未配置时默认10分钟
func (c *Config) AICacheTTL() time.Duration {
	if c.AICacheTTLSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.AICacheTTLSeconds) * time.Second
}

// AITimeout 返回单次LLM调用的超时时间，未配置时默认60秒
func (c *Config) AITimeout() time.Duration {
	if c.AITimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.AITimeoutSeconds) * time.Second
}
