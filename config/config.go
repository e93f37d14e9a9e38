package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr         string `yaml:"addr"`
	ClientOrigin string `yaml:"clientOrigin"` // origin фронтенда; пусто — разрешаем всех (dev)
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Chat struct {
	DefaultRoom        string `yaml:"defaultRoom"`
	HistoryLimit       int    `yaml:"historyLimit"`       // сообщений на комнату
	MaxMessageBytes    int64  `yaml:"maxMessageBytes"`    // лимит кадра WS
	MaxAttachmentBytes int64  `yaml:"maxAttachmentBytes"` // лимит вложения
}

type Config struct {
	HTTP    HTTP    `yaml:"http"`
	Logging Logging `yaml:"logging"`
	Chat    Chat    `yaml:"chat"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	// установка дефолтов, если значения не указаны
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Chat.DefaultRoom == "" {
		c.Chat.DefaultRoom = "general"
	}
	if c.Chat.HistoryLimit <= 0 {
		c.Chat.HistoryLimit = 200
	}
	if c.Chat.MaxMessageBytes <= 0 {
		c.Chat.MaxMessageBytes = 2 << 20
	}
	if c.Chat.MaxAttachmentBytes <= 0 {
		c.Chat.MaxAttachmentBytes = 1 << 20
	}
	return nil
}
