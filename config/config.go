package config

import (
	"bytes"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "FARMLINK_"

// Config 全局配置
type Config struct {
	// 开发模式
	IsDevelopment bool

	// HTTP 监听地址
	ListenAddress string

	// 关闭服务的最长等待时间
	StopTimeout time.Duration

	// 允许设置 X-Forwarded-For 的代理地址或网段，为空时只使用连接地址
	TrustedProxies []string

	// 日志级别
	LogLevel string

	Database  Database
	Auth      Auth
	Storage   Storage
	RateLimit RateLimit
}

// Database 数据库配置
type Database struct {
	// mysql 或 memory
	Driver       string
	Host         string
	Port         uint16
	User         string
	Password     string
	Name         string
	PingTimeout  time.Duration
	MaxOpenConns int
}

// Auth 令牌配置
type Auth struct {
	Secret   string
	TokenTTL time.Duration
}

// Storage 土壤检测文件存储配置
type Storage struct {
	Dir           string
	PublicBaseURL string
	MaxUploadSize int64
}

// RateLimit 限流配置
type RateLimit struct {
	// memory 或 redis
	Backend       string
	Requests      int
	Window        time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// DSN 返回 MySQL 连接串
func (d Database) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

func setDefaults() {
	viper.SetDefault("IsDevelopment", "false")
	viper.SetDefault("ListenAddress", ":8080")
	viper.SetDefault("StopTimeout", "15s")
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("TrustedProxies", "")

	viper.SetDefault("Database.Driver", "mysql")
	viper.SetDefault("Database.Host", "127.0.0.1")
	viper.SetDefault("Database.Port", "3306")
	viper.SetDefault("Database.User", "root")
	viper.SetDefault("Database.Password", "root")
	viper.SetDefault("Database.Name", "farmlink")
	viper.SetDefault("Database.PingTimeout", "15s")
	viper.SetDefault("Database.MaxOpenConns", "20")

	viper.SetDefault("Auth.Secret", "farmlink_secret_key")
	viper.SetDefault("Auth.TokenTTL", "168h")

	viper.SetDefault("Storage.Dir", "data/buckets")
	viper.SetDefault("Storage.PublicBaseURL", "http://localhost:8080/files")
	viper.SetDefault("Storage.MaxUploadSize", "10485760")

	viper.SetDefault("RateLimit.Backend", "memory")
	viper.SetDefault("RateLimit.Requests", "20")
	viper.SetDefault("RateLimit.Window", "1m")
	viper.SetDefault("RateLimit.RedisAddr", "127.0.0.1:6379")
	viper.SetDefault("RateLimit.RedisPassword", "")
	viper.SetDefault("RateLimit.RedisDB", "0")
}

// BindEnv 为每个字段注册 FARMLINK_ 开头的环境变量
func BindEnv(path []string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		key := strings.Join(path, ".")
		env := EnvPrefix + strcase.ToScreamingSnake(strings.Join(path, "_"))
		if err := viper.BindEnv(key, env); err != nil {
			panic(err)
		}
		return
	}
	for i := 0; i < val.NumField(); i++ {
		newPath := make([]string, len(path), len(path)+1)
		copy(newPath, path)
		newPath = append(newPath, val.Type().Field(i).Name)
		BindEnv(newPath, val.Field(i))
	}
}

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load 从文件和环境变量加载配置
func Load(filename string) (*Config, error) {
	viper.Reset()
	viper.SetConfigType("json")

	setDefaults()
	BindEnv([]string{}, reflect.ValueOf(Config{}))

	if filename != "" {
		/* #nosec */
		content, err := os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
		if err = viper.ReadConfig(bytes.NewBuffer(content)); err != nil {
			return nil, err
		}
	}

	conf := new(Config)
	if err := viper.Unmarshal(conf, decodeHook()); err != nil {
		return nil, err
	}
	return conf, nil
}
