package middleware

import (
	"fmt"
	"strings"
	"time"

	"badgr/internal/logger"

	"github.com/gin-gonic/gin"
)

// logWriter forwards gin's formatted access log lines to the app logger.
type logWriter struct {
	logger *logger.Logger
}

func (w logWriter) Write(p []byte) (int, error) {
	w.logger.Info("%s", strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func Logger(logger *logger.Logger) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output:    logWriter{logger: logger},
		SkipPaths: []string{"/health"},
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("[%s] %s %s %d %s %s\n",
				param.TimeStamp.Format(time.RFC3339),
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency,
				param.ClientIP,
			)
		},
	})
}
