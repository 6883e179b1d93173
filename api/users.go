package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/banachtech/phoenix/store"
)

const (
	bcryptCost        = 14
	keyValidityMonths = 6
	adminEmailHeader  = "X-Admin-Email"
)

type createUserRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// createUser issues an API key. The plaintext key is returned exactly once;
// only its bcrypt hash is stored. When server.admin_email is configured,
// registration requires the matching X-Admin-Email header.
func (server *Server) createUser(c *gin.Context) {
	if !server.registerLimiters.get(c.ClientIP()).Allow() {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse(errors.New("too many requests")))
		return
	}

	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}

	if admin := server.config.Server.AdminEmail; admin != "" && !strings.EqualFold(c.GetHeader(adminEmailHeader), admin) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse(errors.New("registration requires the admin email header")))
		return
	}

	prefix, apiKey, err := newAPIKey()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcryptCost)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	now := time.Now().UTC()
	user := store.User{
		Email:       req.Email,
		Prefix:      prefix,
		Token:       string(hashed),
		GeneratedAt: now,
		ExpiredAt:   now.AddDate(0, keyValidityMonths, 0),
	}
	if err := server.store.InsertUser(c, user); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"email":      user.Email,
		"api_key":    apiKey,
		"expired_at": user.ExpiredAt,
	})
}
