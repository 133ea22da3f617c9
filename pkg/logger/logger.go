package logger

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log 是一个全局的、配置好的 logrus 实例
// 未调用InitLogger时也可以直接使用（测试里就是这样），默认输出到stderr
var Log = logrus.New()

// Options 对应config.Log，单独定义是为了不让pkg依赖internal
type Options struct {
	Level      string
	File       string
	MaxSize    int // MB
	MaxBackups int
	MaxAge     int // 天
}

// InitLogger 初始化全局的Logger实例
func InitLogger(opts Options) {
	Log = logrus.New()

	// 1. 终端里用文本格式方便看，其余情况（容器、重定向到文件）用JSON，便于ELK、Loki分析
	if isatty.IsTerminal(os.Stdout.Fd()) {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		Log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	// 2. 同时输出到控制台和文件，文件交给lumberjack按大小切割
	var out io.Writer = os.Stdout
	if opts.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   true,
		})
	}
	Log.SetOutput(out)

	// 3. 日志级别，解析失败就退回Info
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
