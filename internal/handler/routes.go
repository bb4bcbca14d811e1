package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the pin and episode API. auth guards the mutating
// routes and may be nil.
func RegisterRoutes(r gin.IRouter, pins *PinHandler, episodes *EpisodeHandler, auth gin.HandlerFunc) {
	api := r.Group("/api")

	guarded := []gin.HandlerFunc{}
	if auth != nil {
		guarded = append(guarded, auth)
	}

	api.GET("/pins", pins.HandleList)
	api.GET("/pins/:subjectId", pins.HandleGetBySubject)
	api.POST("/pins", append(guarded, pins.HandleCreate)...)
	api.POST("/pins/uplink", append(guarded, pins.HandleUplink)...)
	api.DELETE("/pins", append(guarded, pins.HandleDeleteAll)...)
	api.DELETE("/pins/:id", append(guarded, pins.HandleDelete)...)

	api.GET("/episodes/:subjectId", episodes.HandleGet)
}
