package logger

import (
	"os"

	"github.com/sirupsen/logrus"

	"go-farmlink/config"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
}

// Init 按配置设置日志级别与格式
func Init(conf *config.Config) error {
	level, err := logrus.ParseLevel(conf.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return nil
}

// NewSublogger 返回带模块标签的日志条目
func NewSublogger(tag string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{"module": "farmlink." + tag})
}
