package utils

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sdgmon/portal-go/internal/api/middleware"
	"github.com/sdgmon/portal-go/internal/domain/user"
)

var GetActorFromContext = func(c *gin.Context) (user.Actor, error) {
	claimsVal, exists := c.Get("claims")
	if !exists {
		return user.Actor{}, errors.New("user claims not found in context")
	}

	claims, ok := claimsVal.(*middleware.Claims)
	if !ok {
		return user.Actor{}, errors.New("invalid user claims type")
	}

	return user.Actor{Email: claims.Email, Role: claims.Role}, nil
}
