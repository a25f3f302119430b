package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger logs one line per request. Route parameters (reservation id, member
// id, window id) are promoted to fields so booking traffic can be traced per
// member without parsing paths.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"route":     c.FullPath(),
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  time.Since(start),
			"client_ip": c.ClientIP(),
		}
		for _, p := range c.Params {
			fields[p.Key] = p.Value
		}
		if memberID := c.Query("member_id"); memberID != "" {
			fields["member_id"] = memberID
		}

		entry := logrus.WithFields(fields)
		if c.Writer.Status() >= 400 {
			entry.Error("Request failed")
		} else {
			entry.Info("Request processed")
		}
	}
}
