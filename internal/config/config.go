package config

import (
	"os"
	"strings"
)

// AppConfig 汇总运行工具所需的基础配置。
type AppConfig struct {
	DatabasePath string
	ContentID    string
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() AppConfig {
	databasePath := strings.TrimSpace(os.Getenv("DATABASE_PATH"))
	if databasePath == "" {
		databasePath = "revisionlog.db"
	}

	contentID := strings.TrimSpace(os.Getenv("CONTENT_ID"))
	if contentID == "" {
		contentID = "default"
	}

	return AppConfig{
		DatabasePath: databasePath,
		ContentID:    contentID,
	}
}
