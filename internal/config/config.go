package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// 翻译服务提供方
const (
	ProviderGemini = "gemini"
	ProviderGoogle = "google"
)

// Config 主配置结构
type Config struct {
	// Server HTTP服务器配置
	Server ServerConfig `yaml:"server"`

	// Security 安全配置
	Security SecurityConfig `yaml:"security"`

	// LLM 翻译服务配置
	LLM LLMConfig `yaml:"llm"`

	// Kafka Kafka配置
	Kafka KafkaConfig `yaml:"kafka"`

	// Log 日志配置
	Log LogConfig `yaml:"log"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// APIToken API访问令牌，为空则不校验
	// 客户端需要在请求头中携带 Authorization: Bearer <token>
	APIToken string `yaml:"api_token"`

	// IPWhitelist IP白名单，为空则不限制
	// 支持单个IP和CIDR格式，如 ["192.168.1.0/24", "10.0.0.1"]
	IPWhitelist []string `yaml:"ip_whitelist"`
}

// ServerConfig HTTP服务器配置
type ServerConfig struct {
	// Host 监听地址
	Host string `yaml:"host"`

	// Port 监听端口
	Port int `yaml:"port"`

	// ReadTimeout 读取超时
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout 写入超时
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// LLMConfig 翻译服务配置
type LLMConfig struct {
	// Provider 服务提供方: gemini, google
	Provider string `yaml:"provider"`

	// BaseURL Gemini API基础URL
	BaseURL string `yaml:"base_url"`

	// APIKey API密钥，支持环境变量格式 ${GEMINI_API_KEY}
	APIKey string `yaml:"api_key"`

	// Model 模型名称
	Model string `yaml:"model"`

	// Timeout 请求超时时间
	Timeout time.Duration `yaml:"timeout"`

	// CredentialsFile Google Cloud凭据文件（仅google）
	CredentialsFile string `yaml:"credentials_file"`
}

// KafkaConfig Kafka配置
type KafkaConfig struct {
	// Enabled 是否启用Kafka消费
	Enabled bool `yaml:"enabled"`

	// Brokers Kafka broker地址列表
	Brokers []string `yaml:"brokers"`

	// RequestTopic 翻译请求topic
	RequestTopic string `yaml:"request_topic"`

	// ResponseTopic 翻译结果topic
	ResponseTopic string `yaml:"response_topic"`

	// DLQTopic 死信topic
	DLQTopic string `yaml:"dlq_topic"`

	// ConsumerGroup 消费者组
	ConsumerGroup string `yaml:"consumer_group"`

	// ClientID 客户端ID
	ClientID string `yaml:"client_id"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别: debug, info, warn, error
	Level string `yaml:"level"`

	// Format 日志格式: json, plain
	Format string `yaml:"format"`

	// Output 输出位置: stdout, stderr
	Output string `yaml:"output"`
}

// Manager 配置管理器
type Manager struct {
	configPath string

	config *Config

	mu sync.RWMutex

	// onReload 配置重载回调函数
	onReload []func(*Config)
}

// NewManager 创建配置管理器
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
	}
}

// Load 加载配置
func (m *Manager) Load() error {
	config, err := LoadFile(m.configPath)
	if err != nil {
		return fmt.Errorf("加载主配置失败: %w", err)
	}

	m.mu.Lock()
	m.config = config
	m.mu.Unlock()

	return nil
}

// LoadFile 读取并解析配置文件
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse 解析YAML配置，展开环境变量并设置默认值
func Parse(data []byte) (*Config, error) {
	content := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, err
	}

	setDefaults(&config)

	return &config, nil
}

// Reload 重新加载配置
func (m *Manager) Reload() error {
	if err := m.Load(); err != nil {
		return err
	}

	m.mu.RLock()
	callbacks := m.onReload
	config := m.config
	m.mu.RUnlock()

	for _, cb := range callbacks {
		cb(config)
	}

	return nil
}

// OnReload 注册配置重载回调
func (m *Manager) OnReload(callback func(*Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, callback)
}

// WatchChanges 监听配置文件变化，返回的函数用于停止监听
func (m *Manager) WatchChanges(onError func(error)) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					// 延迟一下，确保文件写入完成
					time.Sleep(100 * time.Millisecond)
					if err := m.Reload(); err != nil && onError != nil {
						onError(err)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				if onError != nil {
					onError(err)
				}
			}
		}
	}()

	if err := watcher.Add(m.configPath); err != nil {
		watcher.Close()
		return nil, err
	}

	return watcher.Close, nil
}

// Get 获取主配置（只读）
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// expandEnvVars 展开环境变量
// 支持 ${VAR} 和 $VAR 格式，未定义的变量保留原样
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		if val, ok := os.LookupEnv(key); ok {
			return val
		}
		return "${" + key + "}"
	})
}

// setDefaults 设置默认值
func setDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30 * time.Second
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 60 * time.Second
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderGemini
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if config.LLM.Model == "" {
		config.LLM.Model = "gemini-1.5-flash"
	}
	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = 30 * time.Second
	}
	if strings.HasPrefix(config.LLM.APIKey, "${") {
		// 环境变量未定义
		config.LLM.APIKey = ""
	}
	if strings.HasPrefix(config.Security.APIToken, "${") {
		config.Security.APIToken = ""
	}

	if config.Kafka.ConsumerGroup == "" {
		config.Kafka.ConsumerGroup = "translation-service"
	}
	if config.Kafka.ClientID == "" {
		config.Kafka.ClientID = "title-translator"
	}
	if config.Kafka.RequestTopic == "" {
		config.Kafka.RequestTopic = "translation-request"
	}
	if config.Kafka.ResponseTopic == "" {
		config.Kafka.ResponseTopic = "translation-response"
	}
	if config.Kafka.DLQTopic == "" {
		config.Kafka.DLQTopic = "dlq"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "plain"
	}
	if config.Log.Output == "" {
		config.Log.Output = "stdout"
	}
}

// Warnings 返回不影响启动的配置问题
// 未配置API密钥时服务仍可启动，翻译请求会以配置错误失败
func (c *Config) Warnings() []string {
	var warns []string
	if c.LLM.Provider == ProviderGemini && strings.TrimSpace(c.LLM.APIKey) == "" {
		warns = append(warns, "llm.api_key 未设置或环境变量未定义，翻译请求将失败")
	}
	if c.Security.APIToken == "" {
		warns = append(warns, "security.api_token 未配置（不安全）")
	}
	return warns
}

// Validate 验证配置
func (c *Config) Validate() error {
	var errs []string

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.BaseURL == "" {
			errs = append(errs, "llm.base_url 不能为空")
		}
		if c.LLM.Model == "" {
			errs = append(errs, "llm.model 不能为空")
		}
	case ProviderGoogle:
	default:
		errs = append(errs, fmt.Sprintf("llm.provider 不支持: %s", c.LLM.Provider))
	}

	if c.Kafka.Enabled && (len(c.Kafka.Brokers) == 0 || c.Kafka.Brokers[0] == "") {
		errs = append(errs, "kafka.brokers 不能为空")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level 不支持: %s", c.Log.Level))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证失败:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
