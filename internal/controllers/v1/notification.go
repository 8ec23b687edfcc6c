package v1

import (
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/store"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the routes for notifications with
// the RouterGroup that is passed.
func RegisterNotificationRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsNotificationList)
		r.GET("", GetNotifications)
	}

	// Notification with ID
	{
		r.OPTIONS("/:id", OptionsNotificationDetail)
		r.PATCH("/:id", DismissNotification)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Router			/v1/notifications [options]
func OptionsNotificationList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Notifications
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/notifications/{id} [options]
func OptionsNotificationDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Notification{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPatch(c)
}

// @Summary		Get notifications
// @Description	Returns the acting user's notifications, newest first
// @Tags			Notifications
// @Produce		json
// @Success		200			{object}	NotificationListResponse
// @Failure		400			{object}	NotificationListResponse
// @Failure		500			{object}	NotificationListResponse
// @Param			X-Actor-ID	header		string	true	"ID of the acting user"
// @Param			unreadOnly	query		bool	false	"Only return unread notifications?"
// @Router			/v1/notifications [get]
func GetNotifications(c *gin.Context) {
	actor, err := currentActor(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{
			Error: &s,
		})
		return
	}

	var filter NotificationQueryFilter
	_ = c.Bind(&filter)

	notifications, err := store.New(models.DB).Notifications(c.Request.Context(), actor.ID, filter.UnreadOnly)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationListResponse{
			Error: &s,
		})
		return
	}

	data := make([]Notification, 0, len(notifications))
	for _, notification := range notifications {
		data = append(data, newNotification(c, notification))
	}

	c.JSON(http.StatusOK, NotificationListResponse{Data: data})
}

// @Summary		Dismiss notification
// @Description	Marks a notification as read
// @Tags			Notifications
// @Produce		json
// @Success		200	{object}	NotificationResponse
// @Failure		400	{object}	NotificationResponse
// @Failure		404	{object}	NotificationResponse
// @Failure		500	{object}	NotificationResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/notifications/{id} [patch]
func DismissNotification(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{
			Error: &s,
		})
		return
	}

	notification, err := store.New(models.DB).DismissNotification(c.Request.Context(), id)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), NotificationResponse{
			Error: &s,
		})
		return
	}

	data := newNotification(c, notification)
	c.JSON(http.StatusOK, NotificationResponse{Data: &data})
}
