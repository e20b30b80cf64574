package watchlist

import "github.com/gin-gonic/gin"

type IHandler interface {
	List(c *gin.Context)
	Add(c *gin.Context)
	Remove(c *gin.Context)
}
