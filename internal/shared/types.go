package shared

// Task types
const (
	TypeSendEmail          = "email:send"
	TypePruneWebhookEvents = "billing:prune_webhook_events"
	TypeDeleteBlogImage    = "blog:delete_image"
)

// Queues and their worker weights
const (
	QueueCritical    = "critical"
	QueueDefault     = "default"
	QueueMaintenance = "low"
)

// PruneWebhookEventsPayload is the scheduled retention job input.
type PruneWebhookEventsPayload struct {
	OlderThanDays int `json:"older_than_days"`
}

// DeleteBlogImagePayload removes a blob that a deleted post pointed at.
type DeleteBlogImagePayload struct {
	PostID    int64  `json:"post_id"`
	ObjectKey string `json:"object_key"`
}
