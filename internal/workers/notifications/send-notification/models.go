// internal/workers/notifications/send-notification/models.go
package sendnotification

import "placement-workers/internal/common/validation"

type Input struct {
	ToRole string `json:"toRole"`
	Title  string `json:"title"`
	Body   string `json:"body,omitempty"`
	Link   string `json:"link,omitempty"`
}

type Output struct {
	NotificationID string            `json:"notificationId"`
	ToRole         string            `json:"toRole"`
	Deliveries     map[string]string `json:"deliveries"`
}

var inputSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["toRole", "title"],
	"properties": {
		"toRole": {"type": "string", "minLength": 1},
		"title": {"type": "string", "minLength": 1, "maxLength": 200},
		"body": {"type": "string"},
		"link": {"type": "string"}
	}
}`)
