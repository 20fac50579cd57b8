package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Ingest IngestConfig `toml:"ingest"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	DBFile  string `toml:"db_file"`
}

// IngestConfig 导入配置
type IngestConfig struct {
	ThisYear            int    `toml:"this_year"`
	PerformancePolicy   string `toml:"performance_policy"` // replace | merge
	MaxUploadMB         int    `toml:"max_upload_mb"`
	CSVFallbackEncoding string `toml:"csv_fallback_encoding"` // cp949 | utf-8
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	PortSpecified bool
}

// 环境变量
const (
	EnvDataDir           = "STRATCAT_DATA_DIR"
	EnvPerformancePolicy = "STRATCAT_PERFORMANCE_POLICY"
)

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBFile:  "strategiccategory.db",
		},
		Ingest: IngestConfig{
			ThisYear:            2026,
			PerformancePolicy:   "replace",
			MaxUploadMB:         32,
			CSVFallbackEncoding: "cp949",
		},
	}
}

// Validate 校验配置取值（策略与编码统一为小写）
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Ingest.ThisYear < 2000 || c.Ingest.ThisYear > 2999 {
		return fmt.Errorf("invalid ingest.this_year %d", c.Ingest.ThisYear)
	}
	c.Ingest.PerformancePolicy = strings.ToLower(c.Ingest.PerformancePolicy)
	switch c.Ingest.PerformancePolicy {
	case "replace", "merge":
	default:
		return fmt.Errorf("invalid ingest.performance_policy %q (replace|merge)", c.Ingest.PerformancePolicy)
	}
	c.Ingest.CSVFallbackEncoding = strings.ToLower(c.Ingest.CSVFallbackEncoding)
	switch c.Ingest.CSVFallbackEncoding {
	case "cp949", "utf-8":
	default:
		return fmt.Errorf("invalid ingest.csv_fallback_encoding %q", c.Ingest.CSVFallbackEncoding)
	}
	if c.Ingest.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid ingest.max_upload_mb %d", c.Ingest.MaxUploadMB)
	}
	if c.Data.DBFile == "" {
		return errors.New("data.db_file must not be empty")
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func configPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadFrom(configPath())
}

// LoadFrom 从指定路径加载配置；文件不存在时使用默认配置
func LoadFrom(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	// 环境变量覆盖
	if v := os.Getenv(EnvDataDir); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv(EnvPerformancePolicy); v != "" {
		config.Ingest.PerformancePolicy = v
	}

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// ResolveDataDir 返回数据目录绝对路径；相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"uploads", "exports", "backups"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), config.Data.DBFile)
}
