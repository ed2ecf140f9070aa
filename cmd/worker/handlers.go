package main

import (
	"github.com/hibiken/asynq"

	postJob "blog-backend/internal/domains/post/job"
	"blog-backend/internal/shared"
	"blog-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	deleteCover  *postJob.DeleteCoverHandler
	sweepOrphans *postJob.SweepOrphansHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		deleteCover: postJob.NewDeleteCoverHandler(c.BlobStore),
		// Sweep đọc thẳng Mongo, không qua cache
		sweepOrphans: postJob.NewSweepOrphansHandler(c.PostStore, c.BlobStore),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeDeleteCoverPhoto, h.deleteCover.ProcessTask)
	mux.HandleFunc(shared.TypeSweepOrphanCovers, h.sweepOrphans.ProcessTask)
}
