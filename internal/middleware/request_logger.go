package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxLoggerKey    = "logger"
)

// RequestLogger はリクエストIDを付けて、1リクエスト1行のアクセスログを出す。
func RequestLogger(base *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			reqID := req.Header.Get(HeaderRequestID)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Response().Header().Set(HeaderRequestID, reqID)

			l := base.With(zap.String("request_id", reqID))
			c.Set(ctxLoggerKey, l)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
			}
			if uid, ok := c.Get(CtxUserIDKey).(int64); ok {
				fields = append(fields, zap.Int64("user_id", uid))
			}
			if c.Response().Status >= 500 {
				l.Error("request", fields...)
			} else {
				l.Info("request", fields...)
			}
			return nil
		}
	}
}

// LoggerFrom はリクエスト用のloggerを返す（無ければNop）
func LoggerFrom(c echo.Context) *zap.Logger {
	if l, ok := c.Get(ctxLoggerKey).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}
