package v1

import (
	"fmt"
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterServicesComponentRoutes registers the routes for services
// components with the RouterGroup that is passed.
func RegisterServicesComponentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsServicesComponentList)
		r.GET("", GetServicesComponents)
		r.POST("", CreateServicesComponents)
	}

	// Services component with ID
	{
		r.OPTIONS("/:id", OptionsServicesComponentDetail)
		r.GET("/:id", GetServicesComponent)
		r.PATCH("/:id", UpdateServicesComponent)
		r.DELETE("/:id", DeleteServicesComponent)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ServicesComponents
// @Success		204
// @Router			/v1/services-components [options]
func OptionsServicesComponentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ServicesComponents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/services-components/{id} [options]
func OptionsServicesComponentDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.ServicesComponent{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create services components
// @Description	Creates new services components
// @Tags			ServicesComponents
// @Produce		json
// @Success		201					{object}	ServicesComponentCreateResponse
// @Failure		400					{object}	ServicesComponentCreateResponse
// @Failure		404					{object}	ServicesComponentCreateResponse
// @Failure		500					{object}	ServicesComponentCreateResponse
// @Param			servicesComponent	body		[]v1.ServicesComponentEditable	true	"Services Components"
// @Router			/v1/services-components [post]
func CreateServicesComponents(c *gin.Context) {
	var editables []ServicesComponentEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ServicesComponentCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ServicesComponentCreateResponse{}

	for _, editable := range editables {
		component := editable.model()
		err = models.DB.Create(&component).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newServicesComponent(c, component)
		r.Data = append(r.Data, ServicesComponentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get services components
// @Description	Returns a list of services components
// @Tags			ServicesComponents
// @Produce		json
// @Success		200	{object}	ServicesComponentListResponse
// @Failure		400	{object}	ServicesComponentListResponse
// @Failure		500	{object}	ServicesComponentListResponse
// @Router			/v1/services-components [get]
// @Param			agreement	query	string	false	"Filter by agreement ID"
// @Param			number		query	int		false	"Filter by component number"
// @Param			description	query	string	false	"Filter by description"
// @Param			optional	query	bool	false	"Is the component optional?"
// @Param			offset		query	uint	false	"The offset of the first Services Component returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of Services Components to return. Defaults to 50."
func GetServicesComponents(c *gin.Context) {
	var filter ServicesComponentQueryFilter

	// The filters contain only strings, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("number ASC, sub_component ASC").
		Where(&model, queryFields...)

	if filter.Description != "" {
		q = q.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	} else if slices.Contains(setFields, "Description") {
		q = q.Where("description = ''")
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Services Components and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var components []models.ServicesComponent
	err = q.Find(&components).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), ServicesComponentListResponse{
			Error: &e,
		})
		return
	}

	data := make([]ServicesComponent, 0, len(components))
	for _, component := range components {
		data = append(data, newServicesComponent(c, component))
	}

	c.JSON(http.StatusOK, ServicesComponentListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get Services Component
// @Description	Returns a specific Services Component
// @Tags			ServicesComponents
// @Produce		json
// @Success		200	{object}	ServicesComponentResponse
// @Failure		400	{object}	ServicesComponentResponse
// @Failure		404	{object}	ServicesComponentResponse
// @Failure		500	{object}	ServicesComponentResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/services-components/{id} [get]
func GetServicesComponent(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	var component models.ServicesComponent
	err = models.DB.First(&component, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	data := newServicesComponent(c, component)
	c.JSON(http.StatusOK, ServicesComponentResponse{Data: &data})
}

// @Summary		Update services component
// @Description	Updates an existing services component. Only values to be updated need to be specified.
// @Tags			ServicesComponents
// @Accept			json
// @Produce		json
// @Success		200					{object}	ServicesComponentResponse
// @Failure		400					{object}	ServicesComponentResponse
// @Failure		404					{object}	ServicesComponentResponse
// @Failure		500					{object}	ServicesComponentResponse
// @Param			id					path		string							true	"ID formatted as string"
// @Param			servicesComponent	body		v1.ServicesComponentEditable	true	"Services Component"
// @Router			/v1/services-components/{id} [patch]
func UpdateServicesComponent(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	var component models.ServicesComponent
	err = models.DB.First(&component, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, ServicesComponentEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	var data ServicesComponentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&component).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), ServicesComponentResponse{
			Error: &s,
		})
		return
	}

	apiResource := newServicesComponent(c, component)
	c.JSON(http.StatusOK, ServicesComponentResponse{Data: &apiResource})
}

// @Summary		Delete services component
// @Description	Deletes a services component. Components still referenced by budget lines cannot be deleted.
// @Tags			ServicesComponents
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/services-components/{id} [delete]
func DeleteServicesComponent(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var component models.ServicesComponent
	err = models.DB.First(&component, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&component).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
