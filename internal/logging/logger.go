package logging

import (
	"io"
	"os"
	"strings"

	"github.com/2beens/fitprogress/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB     = 50
	defaultLogMaxAgeDays = 60
)

type LoggerSetupParams struct {
	// Component is attached to every entry, e.g. "service" or "progressctl".
	Component     string
	LogFileName   string
	LogToStdout   bool
	LogLevel      string
	LogFormatJSON bool
	LogMaxAgeDays int
	// Console replaces os.Stdout, the stdio MCP server logs to os.Stderr.
	Console io.Writer

	Environment      string
	SentryEnabled    bool
	SentryDSN        string
	SentryServerName string
}

func Setup(params LoggerSetupParams) {
	if params.LogFormatJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	if params.Component != "" {
		logrus.AddHook(&componentHook{component: params.Component})
	}
	if params.SentryEnabled {
		setupSentry(params)
	}

	logrus.SetLevel(GetLevel(params.LogLevel))

	output, description := newOutput(params)
	logrus.SetOutput(output)
	logrus.Debugf("writing logs to %s", description)
}

func setupSentry(params LoggerSetupParams) {
	err := sentry.Init(sentry.ClientOptions{
		Environment:      params.Environment,
		Dsn:              params.SentryDSN,
		TracesSampleRate: 1.0,
		ServerName:       params.SentryServerName,
	})
	if err != nil {
		logrus.Errorf("sentry.Init: %s", err)
		return
	}

	logrus.AddHook(NewSentryHook([]logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}))
	logrus.Infoln("sentry set up")
}

func newOutput(params LoggerSetupParams) (io.Writer, string) {
	console := params.Console
	if console == nil {
		console = os.Stdout
	}
	if params.LogFileName == "" {
		return console, "console only"
	}

	fileName := params.LogFileName
	if !strings.HasSuffix(fileName, ".log") {
		fileName += ".log"
	}
	maxAge := params.LogMaxAgeDays
	if maxAge <= 0 {
		maxAge = defaultLogMaxAgeDays
	}
	fileLogger := &lumberjack.Logger{
		Filename:  fileName,
		MaxSize:   logFileMaxSizeMB,
		MaxAge:    maxAge,
		LocalTime: false, // UTC
		Compress:  true,
	}

	if params.LogToStdout {
		return pkg.NewCombinedWriter(console, fileLogger), fileName + " and console"
	}
	return fileLogger, fileName
}

type componentHook struct {
	component string
}

func (h *componentHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *componentHook) Fire(entry *logrus.Entry) error {
	if _, ok := entry.Data["component"]; !ok {
		entry.Data["component"] = h.component
	}
	return nil
}

func GetLevel(level string) logrus.Level {
	if parsed, err := logrus.ParseLevel(strings.TrimSpace(level)); err == nil {
		return parsed
	}
	return logrus.TraceLevel
}
