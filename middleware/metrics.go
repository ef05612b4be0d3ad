package middleware

import (
	"context"
	"time"

	"freight-portal/awsx"

	"github.com/gin-gonic/gin"
)

// Metrics records per-request CloudWatch metrics. No-op when the client is
// disabled.
func Metrics(metricsClient *awsx.MetricsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsClient == nil || !metricsClient.IsEnabled() {
			c.Next()
			return
		}

		start := time.Now()
		path := c.FullPath()
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		dimensions := map[string]string{
			"Method": method,
			"Path":   path,
			"Status": statusCodeToRange(statusCode),
		}

		// Record asynchronously so slow CloudWatch calls never block requests.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = metricsClient.RecordCount(ctx, awsx.MetricHTTPRequests, dimensions)
			_ = metricsClient.RecordLatency(ctx, awsx.MetricHTTPLatency, duration, dimensions)

			if statusCode >= 400 {
				_ = metricsClient.RecordCount(ctx, awsx.MetricHTTPErrors, dimensions)
				if statusCode < 500 {
					_ = metricsClient.RecordCount(ctx, awsx.MetricHTTP4xx, dimensions)
				} else {
					_ = metricsClient.RecordCount(ctx, awsx.MetricHTTP5xx, dimensions)
				}
			}
		}()
	}
}

func statusCodeToRange(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
