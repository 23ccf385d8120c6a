package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"BidRadar/pkg/model"
)

// Config 应用配置
type Config struct {
	App struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
	} `yaml:"app"`

	Amazon struct {
		Scope        string        `yaml:"scope"` // NA/EU/FE
		ClientID     string        `yaml:"client_id"`
		ClientSecret string        `yaml:"client_secret"`
		RefreshToken string        `yaml:"refresh_token"`
		Timeout      time.Duration `yaml:"timeout"`
	} `yaml:"amazon"`

	Report struct {
		PollInterval time.Duration `yaml:"poll_interval"`
		PollTimeout  time.Duration `yaml:"poll_timeout"`
	} `yaml:"report"`

	Database struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		DBName   string `yaml:"dbname"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	NATS struct {
		Enabled bool   `yaml:"enabled"`
		URL     string `yaml:"url"`
	} `yaml:"nats"`

	API struct {
		Port         string        `yaml:"port"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"api"`

	Audit struct {
		Dir string `yaml:"dir"`
	} `yaml:"audit"`

	Rules model.RulesConfig `yaml:"rules"`

	// 商品目录，自动建活动阶段比对在投商品广告用
	Catalog []model.Product `yaml:"catalog"`
}

// LoadConfig 从文件加载配置
func LoadConfig(path string) (*Config, error) {
	// 读取配置文件
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := defaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	overrideFromEnv(config)

	// 规则只在这里校验一次，之后保持只读
	if err := config.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("校验优化规则失败: %w", err)
	}

	return config, nil
}

// defaultConfig 内置默认配置
func defaultConfig() *Config {
	cfg := &Config{}
	cfg.App.Name = "BidRadar"
	cfg.App.Env = "dev"
	cfg.Amazon.Scope = "NA"
	cfg.Amazon.Timeout = 30 * time.Second
	cfg.Report.PollInterval = 5 * time.Second
	cfg.Report.PollTimeout = 180 * time.Second
	cfg.API.Port = "8080"
	cfg.API.ReadTimeout = 10 * time.Second
	cfg.API.WriteTimeout = 10 * time.Second
	cfg.Audit.Dir = "."
	cfg.Rules = model.DefaultRules()
	return cfg
}

// overrideFromEnv 使用环境变量覆盖配置
func overrideFromEnv(config *Config) {
	// 应用名称
	if env := os.Getenv("APP_NAME"); env != "" {
		config.App.Name = env
	}

	// 环境
	if env := os.Getenv("APP_ENV"); env != "" {
		config.App.Env = env
	}

	// Amazon凭证
	if env := os.Getenv("AMAZON_API_SCOPE"); env != "" {
		config.Amazon.Scope = env
	}
	if env := os.Getenv("AMAZON_CLIENT_ID"); env != "" {
		config.Amazon.ClientID = env
	}
	if env := os.Getenv("AMAZON_CLIENT_SECRET"); env != "" {
		config.Amazon.ClientSecret = env
	}
	if env := os.Getenv("AMAZON_REFRESH_TOKEN"); env != "" {
		config.Amazon.RefreshToken = env
	}

	// 数据库配置
	if env := os.Getenv("DB_HOST"); env != "" {
		config.Database.Host = env
		config.Database.Enabled = true
	}
	if env := os.Getenv("DB_PORT"); env != "" {
		var port int
		fmt.Sscanf(env, "%d", &port)
		if port > 0 {
			config.Database.Port = port
		}
	}
	if env := os.Getenv("DB_USER"); env != "" {
		config.Database.User = env
	}
	if env := os.Getenv("DB_PASSWORD"); env != "" {
		config.Database.Password = env
	}
	if env := os.Getenv("DB_NAME"); env != "" {
		config.Database.DBName = env
	}

	// NATS配置
	if env := os.Getenv("NATS_URL"); env != "" {
		config.NATS.URL = env
		config.NATS.Enabled = true
	}

	// API配置
	if env := os.Getenv("API_PORT"); env != "" {
		config.API.Port = env
	}

	// 审计目录
	if env := os.Getenv("AUDIT_DIR"); env != "" {
		config.Audit.Dir = env
	}
}

// GetDefaultConfigPath 获取默认配置文件路径
func GetDefaultConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev" // 默认开发环境
	}

	return fmt.Sprintf("configs/%s/app.yaml", env)
}
