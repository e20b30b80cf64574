package market

import "github.com/gin-gonic/gin"

type IHandler interface {
	GetQuotes(c *gin.Context)
	GetKline(c *gin.Context)
	GetIndices(c *gin.Context)
}
