// Package router assembles the gin engine of the lease API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where every resource is mounted
const APIPrefix = "/api/v1"

// Route is one endpoint of a resource, relative to the resource path.
type Route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
}

// Resource is a path prefix with its routes and optional middleware.
type Resource struct {
	Path       string
	Middleware []gin.HandlerFunc
	Routes     []Route
}

func get(path string, h gin.HandlerFunc) Route    { return Route{http.MethodGet, path, h} }
func post(path string, h gin.HandlerFunc) Route   { return Route{http.MethodPost, path, h} }
func put(path string, h gin.HandlerFunc) Route    { return Route{http.MethodPut, path, h} }
func patch(path string, h gin.HandlerFunc) Route  { return Route{http.MethodPatch, path, h} }
func remove(path string, h gin.HandlerFunc) Route { return Route{http.MethodDelete, path, h} }

// Mount registers resources below base.
func Mount(base *gin.RouterGroup, resources ...Resource) {
	for _, res := range resources {
		group := base.Group(res.Path, res.Middleware...)
		for _, r := range res.Routes {
			group.Handle(r.Method, r.Path, r.Handler)
		}
	}
}
