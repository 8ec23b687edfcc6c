package v1

import (
	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorHeader carries the authenticated user's ID. Authentication itself
// happens in the session layer in front of this API.
const actorHeader = "X-Actor-ID"

// currentActor resolves the acting user for approval routing decisions.
func currentActor(c *gin.Context) (models.User, error) {
	id, err := httputil.UUIDFromString(c.GetHeader(actorHeader))
	if err != nil {
		return models.User{}, err
	}

	if id == uuid.Nil {
		return models.User{}, httputil.ErrActorRequired
	}

	var user models.User
	err = models.DB.First(&user, id).Error

	return user, err
}
