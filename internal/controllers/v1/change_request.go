package v1

import (
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/store"
	"github.com/gin-gonic/gin"
)

// RegisterChangeRequestRoutes registers the routes for change requests
// with the RouterGroup that is passed.
func RegisterChangeRequestRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsChangeRequestList)
		r.GET("", GetChangeRequests)
	}

	// Change request with ID
	{
		r.OPTIONS("/:id", OptionsChangeRequestDetail)
		r.GET("/:id", GetChangeRequest)
		r.OPTIONS("/:id/review", OptionsChangeRequestReview)
		r.POST("/:id/review", ReviewChangeRequest)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ChangeRequests
// @Success		204
// @Router			/v1/change-requests [options]
func OptionsChangeRequestList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ChangeRequests
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/change-requests/{id} [options]
func OptionsChangeRequestDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ChangeRequest{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ChangeRequests
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/change-requests/{id}/review [options]
func OptionsChangeRequestReview(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ChangeRequest{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsPost(c)
}

// @Summary		Get change requests
// @Description	Returns a list of change requests, oldest first
// @Tags			ChangeRequests
// @Produce		json
// @Success		200	{object}	ChangeRequestListResponse
// @Failure		400	{object}	ChangeRequestListResponse
// @Failure		500	{object}	ChangeRequestListResponse
// @Router			/v1/change-requests [get]
// @Param			status	query	string	false	"Filter by review status, one of PENDING, APPROVED, REJECTED"
func GetChangeRequests(c *gin.Context) {
	var filter ChangeRequestQueryFilter
	_ = c.Bind(&filter)

	var statusFilter *models.ChangeRequestStatus
	if filter.Status != "" {
		s := models.ChangeRequestStatus(filter.Status)
		statusFilter = &s
	}

	requests, err := store.New(models.DB).ChangeRequests(c.Request.Context(), statusFilter)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestListResponse{
			Error: &s,
		})
		return
	}

	data := make([]ChangeRequest, 0, len(requests))
	for _, request := range requests {
		data = append(data, newChangeRequest(c, request))
	}

	c.JSON(http.StatusOK, ChangeRequestListResponse{Data: data})
}

// @Summary		Get Change Request
// @Description	Returns a specific Change Request
// @Tags			ChangeRequests
// @Produce		json
// @Success		200	{object}	ChangeRequestResponse
// @Failure		400	{object}	ChangeRequestResponse
// @Failure		404	{object}	ChangeRequestResponse
// @Failure		500	{object}	ChangeRequestResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/change-requests/{id} [get]
func GetChangeRequest(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	request, err := store.New(models.DB).ChangeRequest(c.Request.Context(), id)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	data := newChangeRequest(c, request)
	c.JSON(http.StatusOK, ChangeRequestResponse{Data: &data})
}

// @Summary		Review change request
// @Description	Approves or rejects a pending change request. Approving keeps the requested values, rejecting reverts them. Both restore the budget line's previous status and notify the requestor.
// @Tags			ChangeRequests
// @Accept			json
// @Produce		json
// @Success		200			{object}	ChangeRequestResponse
// @Failure		400			{object}	ChangeRequestResponse
// @Failure		404			{object}	ChangeRequestResponse
// @Failure		500			{object}	ChangeRequestResponse
// @Param			X-Actor-ID	header		string				true	"ID of the reviewing user"
// @Param			id			path		string				true	"ID formatted as string"
// @Param			review		body		v1.ReviewEditable	true	"Review"
// @Router			/v1/change-requests/{id}/review [post]
func ReviewChangeRequest(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	reviewer, err := currentActor(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	var review ReviewEditable
	err = httputil.BindData(c, &review)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	request, err := store.New(models.DB).ReviewChangeRequest(c.Request.Context(), id, review.Action, review.Notes, reviewer)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ChangeRequestResponse{
			Error: &s,
		})
		return
	}

	data := newChangeRequest(c, request)
	c.JSON(http.StatusOK, ChangeRequestResponse{Data: &data})
}
