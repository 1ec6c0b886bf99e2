package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorCyan   = "\033[36m"
	colorWhite  = "\033[37m"
	colorGray   = "\033[90m"
)

var skipPaths = map[string]bool{
	"/health": true,
}

// Logger logs one line per request: method, path, status, latency and the
// acting user when authenticated.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if skipPaths[path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		method := c.Request.Method
		actor := c.GetString("userEmail")
		if actor == "" {
			actor = c.ClientIP()
		}

		log.Printf("%s%s%s %s%s%s %s%d%s %v %s%s%s",
			methodColor(method), method, colorReset,
			colorBlue, path, colorReset,
			statusColor(status), status, colorReset,
			latency,
			colorGray, actor, colorReset)
	}
}

func methodColor(method string) string {
	switch method {
	case "GET":
		return colorGreen
	case "POST":
		return colorBlue
	case "PATCH":
		return colorPurple
	case "DELETE":
		return colorRed
	default:
		return colorWhite
	}
}

func statusColor(status int) string {
	switch {
	case status >= 200 && status < 300:
		return colorGreen
	case status >= 300 && status < 400:
		return colorCyan
	case status >= 400 && status < 500:
		return colorYellow
	default:
		return colorRed
	}
}
