package v1

import (
	"fmt"

	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type NotificationLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/notifications/8090f2a5-7fd9-4b08-b1ab-d5b3e85a64d4"` // The notification itself
}

type Notification struct {
	models.Notification
	Links NotificationLinks `json:"links"` // Links to related resources
}

func newNotification(c *gin.Context, model models.Notification) Notification {
	url := c.GetString(string(models.DBContextURL))

	return Notification{
		Notification: model,
		Links: NotificationLinks{
			Self: fmt.Sprintf("%s/v1/notifications/%s", url, model.ID),
		},
	}
}

type NotificationListResponse struct {
	Data  []Notification `json:"data"`                                                          // List of Notifications
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type NotificationResponse struct {
	Data  *Notification `json:"data"`                                                          // Data for the Notification
	Error *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type NotificationQueryFilter struct {
	UnreadOnly bool `form:"unreadOnly"` // Only return unread notifications?
}
