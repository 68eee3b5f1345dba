package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a middleware that allows the configured origins.
// Entries starting with "*." match any subdomain over https.
func CORS(origins []string) gin.HandlerFunc {
	exact := make(map[string]bool, len(origins))
	var suffixes []string
	for _, o := range origins {
		if strings.HasPrefix(o, "*.") {
			suffixes = append(suffixes, o[1:])
			continue
		}
		exact[o] = true
	}

	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			if exact[origin] {
				return true
			}
			for _, s := range suffixes {
				if strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, s) {
					return true
				}
			}
			return false
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "Cache-Control", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
