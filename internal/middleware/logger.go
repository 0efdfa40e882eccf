package middleware

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessLogger is gin's request logger with the "token" query parameter
// redacted, so websocket credentials never reach the access log.
func AccessLogger(out io.Writer) gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Output: out,
		Formatter: func(param gin.LogFormatterParams) string {
			return fmt.Sprintf("[GIN] %v | %3d | %13v | %15s | %-7s %#v\n%s",
				param.TimeStamp.Format("2006/01/02 - 15:04:05"),
				param.StatusCode,
				param.Latency,
				param.ClientIP,
				param.Method,
				redactQuery(param.Path),
				param.ErrorMessage,
			)
		},
	})
}

func redactQuery(path string) string {
	base, raw, ok := strings.Cut(path, "?")
	if !ok {
		return path
	}
	query, err := url.ParseQuery(raw)
	if err != nil {
		return base
	}
	if _, ok := query["token"]; !ok {
		return path
	}
	query.Set("token", "REDACTED")
	return base + "?" + query.Encode()
}
