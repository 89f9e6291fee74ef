package route

import (
	"github.com/formadoc/FormaSign/internal/controller"
	"github.com/formadoc/FormaSign/internal/middleware"
	"github.com/gin-gonic/gin"
)

func V1_Agreements(r *gin.RouterGroup, ac *controller.AgreementController, middleware *middleware.Middleware) {
	v1 := r.Group("/v1/trainings/:trainingId/participants/:participantId/agreement")
	v1.Use(middleware.AuthMiddleware)
	{
		v1.GET("", ac.Slots)
		v1.GET("/bootstrap", ac.Bootstrap)
	}
}
