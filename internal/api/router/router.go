package router

import (
	"github.com/wb-go/wbf/ginext"

	"github.com/dkochetov/imgset/internal/api/handlers/batch"
	"github.com/dkochetov/imgset/internal/middleware"
)

func Setup(h *batch.Handler) *ginext.Engine {
	r := ginext.New()

	r.Use(middleware.CORSMiddleware())
	r.Use(ginext.Logger())
	r.Use(ginext.Recovery())

	api := r.Group("/api")

	api.POST("/batches", h.Create)       // submitting a source image + variant spec
	api.GET("/batches/:id", h.Get)       // getting batch status and results
	api.DELETE("/batches/:id", h.Delete) // deleting a batch and its source

	return r
}
