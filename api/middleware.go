package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/banachtech/phoenix/metrics"
	"github.com/banachtech/phoenix/store"
)

const (
	authorizationHeaderKey  = "authorization"
	authorizationTypeBearer = "bearer"
	prefixKey               = "prefix"
)

// authentication guards the /v1 routes. Keys look like prefix.secret; the
// prefix is the stored lookup handle and only the bcrypt hash of the full
// key is kept, so a leaked database cannot mint valid keys.
func (server *Server) authentication(c *gin.Context) {
	authorizationHeader := c.GetHeader(authorizationHeaderKey)

	if len(authorizationHeader) == 0 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("authorization header is not provided")))
		return
	}

	fields := strings.Fields(authorizationHeader)
	if len(fields) < 2 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("invalid authorization header format")))
		return
	}

	authorizationType := strings.ToLower(fields[0])
	if authorizationType != authorizationTypeBearer {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(fmt.Errorf("unsupported authorization type: %s", authorizationType)))
		return
	}

	apiKey := fields[1]

	prefix := strings.Split(apiKey, ".")[0]
	if len(prefix) != prefixLength {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API key")))
		return
	}

	user, err := server.store.GetUser(c, prefix)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse(err))
			return
		}

		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	if time.Now().After(user.ExpiredAt) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("api key is expired")))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Token), []byte(apiKey)); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("please input a valid API key")))
		return
	}

	c.Set(prefixKey, user.Prefix)
	c.Next()
}

// rateLimit throttles evaluation endpoints per API key.
func (server *Server) rateLimit(c *gin.Context) {
	key := c.GetString(prefixKey)
	if key == "" {
		key = c.ClientIP()
	}
	if !server.evalLimiters.get(key).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errors.New("too many requests")))
		return
	}
	c.Next()
}

// requestMetrics records the Prometheus request counter and latency
// histogram. The route pattern keeps label cardinality bounded.
func (server *Server) requestMetrics(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())
	metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	metrics.HTTPRequestSeconds.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
}
