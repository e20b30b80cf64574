package monitor

import "github.com/gin-gonic/gin"

type IHandler interface {
	GetCircuitBreakers(c *gin.Context)
	ResetCircuitBreakers(c *gin.Context)
	GetErrors(c *gin.Context)
	PostErrors(c *gin.Context)
	GetRateLimitConfig(c *gin.Context)
	PutRateLimitConfig(c *gin.Context)
}
