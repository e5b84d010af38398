package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xxxsen/imgvault/internal/middleware"
)

type RouterDeps struct {
	Uploads  *UploadHandler
	Health   *HealthHandler
	Identity middleware.IdentityResolver
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/healthz", deps.Health.Live)
	api.GET("/readyz", deps.Health.Ready)
	api.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authGroup := api.Group("")
	authGroup.Use(middleware.Identity(deps.Identity))
	authGroup.POST("/upload-image", deps.Uploads.UploadImage)
	authGroup.GET("/my-images", deps.Uploads.MyImages)
}
