package v1

import (
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/workingset"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterAgreementRoutes registers the routes for agreements with
// the RouterGroup that is passed.
func RegisterAgreementRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsAgreementList)
		r.GET("", GetAgreements)
		r.POST("", CreateAgreements)
	}

	// Agreement with ID
	{
		r.OPTIONS("/:id", OptionsAgreementDetail)
		r.GET("/:id", GetAgreement)
		r.PATCH("/:id", UpdateAgreement)
		r.DELETE("/:id", DeleteAgreement)
	}

	// Editing session endpoints
	{
		r.OPTIONS("/:id/budget-lines", OptionsAgreementBudgetLines)
		r.GET("/:id/budget-lines", GetAgreementBudgetLines)
		r.OPTIONS("/:id/commit", OptionsAgreementCommit)
		r.POST("/:id/commit", CommitAgreement)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Agreements
// @Success		204
// @Router			/v1/agreements [options]
func OptionsAgreementList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/agreements/{id} [options]
func OptionsAgreementDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Agreement{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create agreements
// @Description	Creates new agreements
// @Tags			Agreements
// @Produce		json
// @Success		201			{object}	AgreementCreateResponse
// @Failure		400			{object}	AgreementCreateResponse
// @Failure		404			{object}	AgreementCreateResponse
// @Failure		500			{object}	AgreementCreateResponse
// @Param			agreement	body		[]v1.AgreementEditable	true	"Agreements"
// @Router			/v1/agreements [post]
func CreateAgreements(c *gin.Context) {
	var agreements []AgreementEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &agreements)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AgreementCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AgreementCreateResponse{}

	for _, editable := range agreements {
		agreement := editable.model()
		err = models.DB.Create(&agreement).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newAgreement(c, agreement)
		r.Data = append(r.Data, AgreementResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get agreements
// @Description	Returns a list of agreements
// @Tags			Agreements
// @Produce		json
// @Success		200	{object}	AgreementListResponse
// @Failure		400	{object}	AgreementListResponse
// @Failure		500	{object}	AgreementListResponse
// @Router			/v1/agreements [get]
// @Param			name			query	string	false	"Filter by name"
// @Param			description		query	string	false	"Filter by description"
// @Param			procurementShop	query	string	false	"Filter by procurement shop ID"
// @Param			search			query	string	false	"Search for this text in name and description"
// @Param			offset			query	uint	false	"The offset of the first Agreement returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of Agreements to return. Defaults to 50."
func GetAgreements(c *gin.Context) {
	var filter AgreementQueryFilter

	// The filters contain only strings, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("name ASC").
		Where(&model, queryFields...)

	q = stringFilters(models.DB, q, setFields, filter.Name, filter.Description, filter.Search)

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Agreements and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var agreements []models.Agreement
	err = q.Find(&agreements).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), AgreementListResponse{
			Error: &e,
		})
		return
	}

	data := make([]Agreement, 0, len(agreements))
	for _, agreement := range agreements {
		data = append(data, newAgreement(c, agreement))
	}

	c.JSON(http.StatusOK, AgreementListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get Agreement
// @Description	Returns a specific Agreement
// @Tags			Agreements
// @Produce		json
// @Success		200	{object}	AgreementResponse
// @Failure		400	{object}	AgreementResponse
// @Failure		404	{object}	AgreementResponse
// @Failure		500	{object}	AgreementResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/agreements/{id} [get]
func GetAgreement(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	var agreement models.Agreement
	err = models.DB.First(&agreement, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	data := newAgreement(c, agreement)
	c.JSON(http.StatusOK, AgreementResponse{Data: &data})
}

// @Summary		Update agreement
// @Description	Updates an existing agreement. Only values to be updated need to be specified.
// @Tags			Agreements
// @Accept			json
// @Produce		json
// @Success		200			{object}	AgreementResponse
// @Failure		400			{object}	AgreementResponse
// @Failure		404			{object}	AgreementResponse
// @Failure		500			{object}	AgreementResponse
// @Param			id			path		string				true	"ID formatted as string"
// @Param			agreement	body		v1.AgreementEditable	true	"Agreement"
// @Router			/v1/agreements/{id} [patch]
func UpdateAgreement(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	var agreement models.Agreement
	err = models.DB.First(&agreement, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, AgreementEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	var data AgreementEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Model(&agreement).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementResponse{
			Error: &s,
		})
		return
	}

	apiResource := newAgreement(c, agreement)
	c.JSON(http.StatusOK, AgreementResponse{Data: &apiResource})
}

// @Summary		Delete agreement
// @Description	Deletes an agreement
// @Tags			Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/agreements/{id} [delete]
func DeleteAgreement(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var agreement models.Agreement
	err = models.DB.First(&agreement, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.Delete(&agreement).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Agreements
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/agreements/{id}/budget-lines [options]
func OptionsAgreementBudgetLines(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.Agreement{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

type agreementBudgetLinesFilter struct {
	IncludeDrafts bool   `form:"includeDrafts"` // Include DRAFT lines in the totals? Defaults to false.
	FeeRate       string `form:"feeRate"`       // Recompute fees at this hypothetical rate in percent
}

// @Summary		Get budget lines of an agreement
// @Description	Returns the agreement's budget lines grouped by services component, with totals
// @Tags			Agreements
// @Produce		json
// @Success		200	{object}	AgreementBudgetLinesResponse
// @Failure		400	{object}	AgreementBudgetLinesResponse
// @Failure		404	{object}	AgreementBudgetLinesResponse
// @Failure		500	{object}	AgreementBudgetLinesResponse
// @Param			id				path	string	true	"ID formatted as string"
// @Param			includeDrafts	query	bool	false	"Include DRAFT lines in the totals? Defaults to false."
// @Param			feeRate			query	string	false	"Recompute fees at this hypothetical rate in percent, e.g. to preview a different procurement shop"
// @Router			/v1/agreements/{id}/budget-lines [get]
func GetAgreementBudgetLines(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementBudgetLinesResponse{
			Error: &s,
		})
		return
	}

	var filter agreementBudgetLinesFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AgreementBudgetLinesResponse{
			Error: &s,
		})
		return
	}

	var feeRate *decimal.Decimal
	if filter.FeeRate != "" {
		rate, err := decimal.NewFromString(filter.FeeRate)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, AgreementBudgetLinesResponse{
				Error: &s,
			})
			return
		}
		feeRate = &rate
	}

	var agreement models.Agreement
	err = models.DB.Preload("ProcurementShop").First(&agreement, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementBudgetLinesResponse{
			Error: &s,
		})
		return
	}

	var lines []models.BudgetLine
	err = models.DB.Where("agreement_id = ?", id).Find(&lines).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementBudgetLinesResponse{
			Error: &s,
		})
		return
	}

	var components []models.ServicesComponent
	err = models.DB.Where("agreement_id = ?", id).Order("number ASC, sub_component ASC").Find(&components).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AgreementBudgetLinesResponse{
			Error: &s,
		})
		return
	}

	// A fresh session over the persisted state has exactly the grouped
	// view we need
	session := workingset.New(agreement, lines, components, models.User{})
	groups := workingset.GroupByServicesComponent(session.Lines(), session.Components())

	data := AgreementBudgetLines{
		Groups: make([]BudgetLineGroup, 0, len(groups)),
		Totals: session.Totals(feeRate, filter.IncludeDrafts),
	}

	for _, group := range groups {
		lines := make([]BudgetLine, 0, len(group.Lines))
		for _, line := range group.Lines {
			lines = append(lines, newBudgetLine(c, line.BudgetLine))
		}

		data.Groups = append(data.Groups, BudgetLineGroup{
			Label:        group.Label,
			Number:       group.Number,
			SubComponent: group.SubComponent,
			Lines:        lines,
		})
	}

	c.JSON(http.StatusOK, AgreementBudgetLinesResponse{Data: &data})
}
