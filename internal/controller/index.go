package controller

import (
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/gin-gonic/gin"
)

type IndexController struct {
	*baseController
}

func (ic IndexController) Index(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"app": "FormaSign",
		"env": ic.app.Config.ENV,
	})
}
