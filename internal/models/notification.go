// internal/models/notification.go
package models

import (
	"strings"
	"time"
)

// Role is a routing label for notifications and dashboards.
type Role string

const (
	RoleCompany  Role = "JASA_USER"
	RoleAdmin    Role = "VIT_ADMIN"
	RoleResearch Role = "SPORIC"
)

// ParseRole accepts any casing; unknown values return false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleCompany, RoleAdmin, RoleResearch:
		return r, true
	default:
		return "", false
	}
}

type Notification struct {
	ID        string    `json:"id"`
	ToRole    Role      `json:"toRole"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Delivery channel outcomes reported by the dispatcher.
const (
	DeliverySent     = "sent"
	DeliveryFailed   = "failed"
	DeliveryDisabled = "disabled"
)
