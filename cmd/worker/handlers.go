package main

import (
	"github.com/hibiken/asynq"

	billingJob "plik-backend/internal/domains/billing/job"
	blogJob "plik-backend/internal/domains/blog/job"
	emailJob "plik-backend/internal/infrastructure/email/job"
	"plik-backend/internal/shared"
	"plik-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	sendEmail          *emailJob.SendEmailHandler
	pruneWebhookEvents *billingJob.PruneWebhookEventsHandler
	deleteBlogImage    *blogJob.DeleteImageHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		sendEmail:          emailJob.NewSendEmailHandler(c.EmailSender),
		pruneWebhookEvents: billingJob.NewPruneWebhookEventsHandler(c.BillingService),
		deleteBlogImage:    blogJob.NewDeleteImageHandler(c.Storage),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	// Email
	mux.HandleFunc(shared.TypeSendEmail, h.sendEmail.ProcessTask)

	// Maintenance
	mux.HandleFunc(shared.TypePruneWebhookEvents, h.pruneWebhookEvents.ProcessTask)
	mux.HandleFunc(shared.TypeDeleteBlogImage, h.deleteBlogImage.ProcessTask)
}
