package route

import (
	"github.com/formadoc/FormaSign/internal/controller"
	"github.com/formadoc/FormaSign/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Signatures(r *gin.RouterGroup, sc *controller.SignatureController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/trainings/:trainingId/signatures")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", sc.Resolve)
		v1.POST("", sc.Persist)
		v1.POST("/share", sc.Share)
	}
}
