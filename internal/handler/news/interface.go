package news

import "github.com/gin-gonic/gin"

type IHandler interface {
	GetNews(c *gin.Context)
}
