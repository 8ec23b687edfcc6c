package v1

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/budget-line/backend/internal/approval"
	"github.com/budget-line/backend/internal/diff"
	"github.com/budget-line/backend/internal/funding"
	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterBudgetLineRoutes registers the routes for budget lines with
// the RouterGroup that is passed.
func RegisterBudgetLineRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsBudgetLineList)
		r.GET("", GetBudgetLines)
		r.POST("", CreateBudgetLines)
	}

	// Budget line with ID
	{
		r.OPTIONS("/:id", OptionsBudgetLineDetail)
		r.GET("/:id", GetBudgetLine)
		r.PATCH("/:id", UpdateBudgetLine)
		r.DELETE("/:id", DeleteBudgetLine)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetLines
// @Success		204
// @Router			/v1/budget-lines [options]
func OptionsBudgetLineList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BudgetLines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budget-lines/{id} [options]
func OptionsBudgetLineDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.BudgetLine{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create budget lines
// @Description	Creates new budget lines in DRAFT status. Fees are priced at the agreement's procurement shop rate.
// @Tags			BudgetLines
// @Produce		json
// @Success		201			{object}	BudgetLineCreateResponse
// @Failure		400			{object}	BudgetLineCreateResponse
// @Failure		404			{object}	BudgetLineCreateResponse
// @Failure		500			{object}	BudgetLineCreateResponse
// @Param			budgetLine	body		[]v1.BudgetLineEditable	true	"Budget Lines"
// @Router			/v1/budget-lines [post]
func CreateBudgetLines(c *gin.Context) {
	var editables []BudgetLineEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetLineCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := BudgetLineCreateResponse{}

	for _, editable := range editables {
		line := editable.model()

		// New lines always start as drafts
		line.Status = models.StatusDraft

		// Price the fees with the current procurement shop rate
		var agreement models.Agreement
		err = models.DB.Preload("ProcurementShop").First(&agreement, line.AgreementID).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		line.ProcShopFeeRate = agreement.ProcurementShop.FeePercentage
		line.Fees = funding.Fee(line.Amount, line.ProcShopFeeRate)

		err = models.DB.Create(&line).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newBudgetLine(c, line)
		r.Data = append(r.Data, BudgetLineResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get budget lines
// @Description	Returns a list of budget lines
// @Tags			BudgetLines
// @Produce		json
// @Success		200	{object}	BudgetLineListResponse
// @Failure		400	{object}	BudgetLineListResponse
// @Failure		500	{object}	BudgetLineListResponse
// @Router			/v1/budget-lines [get]
// @Param			agreement			query	string	false	"Filter by agreement ID"
// @Param			servicesComponent	query	string	false	"Filter by services component ID"
// @Param			can					query	string	false	"Filter by CAN ID"
// @Param			portfolio			query	string	false	"Filter by the portfolio of the funding CAN"
// @Param			status				query	string	false	"Filter by lifecycle status"
// @Param			isObe				query	bool	false	"Is the line overcome by events?"
// @Param			comments			query	string	false	"Comments contain this string"
// @Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
// @Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
// @Param			dateNeededFrom		query	string	false	"Lines needed at and after this date, formatted YYYY-MM-DD"
// @Param			dateNeededUntil		query	string	false	"Lines needed before and at this date, formatted YYYY-MM-DD"
// @Param			offset				query	uint	false	"The offset of the first Budget Line returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of Budget Lines to return. Defaults to 50."
func GetBudgetLines(c *gin.Context) {
	var filter BudgetLineQueryFilter

	// The filters contain only strings, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	if filter.Status != "" && !models.BudgetLineStatus(filter.Status).Valid() {
		s := models.ErrBudgetLineStatusInvalid.Error()
		c.JSON(http.StatusBadRequest, BudgetLineListResponse{
			Error: &s,
		})
		return
	}

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("budget_lines.created_at ASC").
		Where(&model, queryFields...)

	if filter.PortfolioID != "" {
		portfolioID, err := httputil.UUIDFromString(filter.PortfolioID)
		if err != nil {
			s := fmt.Sprintf("Error parsing portfolio ID for filtering: %s", err.Error())
			c.JSON(status(err), BudgetLineListResponse{
				Error: &s,
			})
			return
		}

		q = q.
			Joins("JOIN cans ON cans.id = budget_lines.can_id").
			Where("cans.portfolio_id = ?", portfolioID)
	}

	if filter.Comments != "" {
		q = q.Where("budget_lines.comments LIKE ?", fmt.Sprintf("%%%s%%", filter.Comments))
	} else if slices.Contains(setFields, "Comments") {
		q = q.Where("budget_lines.comments = ''")
	}

	if filter.AmountLessOrEqual != "" {
		amount, err := decimal.NewFromString(filter.AmountLessOrEqual)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, BudgetLineListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("budget_lines.amount <= ?", amount)
	}

	if filter.AmountMoreOrEqual != "" {
		amount, err := decimal.NewFromString(filter.AmountMoreOrEqual)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, BudgetLineListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("budget_lines.amount >= ?", amount)
	}

	if filter.DateNeededFrom != "" {
		date, err := types.ParseDate(filter.DateNeededFrom)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, BudgetLineListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("budget_lines.date_needed >= date(?)", date)
	}

	if filter.DateNeededUntil != "" {
		date, err := types.ParseDate(filter.DateNeededUntil)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, BudgetLineListResponse{
				Error: &s,
			})
			return
		}
		q = q.Where("budget_lines.date_needed <= date(?)", date)
	}

	// Set the offset. Does not need checking since the default is 0
	q = q.Offset(int(filter.Offset))

	// Default to 50 Budget Lines and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	q = q.Limit(limit)

	var lines []models.BudgetLine
	err = q.Find(&lines).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		e := err.Error()
		c.JSON(status(err), BudgetLineListResponse{
			Error: &e,
		})
		return
	}

	data := make([]BudgetLine, 0, len(lines))
	for _, line := range lines {
		data = append(data, newBudgetLine(c, line))
	}

	c.JSON(http.StatusOK, BudgetLineListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get Budget Line
// @Description	Returns a specific Budget Line
// @Tags			BudgetLines
// @Produce		json
// @Success		200	{object}	BudgetLineResponse
// @Failure		400	{object}	BudgetLineResponse
// @Failure		404	{object}	BudgetLineResponse
// @Failure		500	{object}	BudgetLineResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budget-lines/{id} [get]
func GetBudgetLine(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineResponse{
			Error: &s,
		})
		return
	}

	var line models.BudgetLine
	err = models.DB.First(&line, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineResponse{
			Error: &s,
		})
		return
	}

	data := newBudgetLine(c, line)
	c.JSON(http.StatusOK, BudgetLineResponse{Data: &data})
}

// @Summary		Update budget line
// @Description	Updates an existing budget line. Only values to be updated need to be specified. Financial changes to PLANNED or EXECUTING lines are routed to division director review unless the acting user is privileged.
// @Tags			BudgetLines
// @Accept			json
// @Produce		json
// @Success		200			{object}	BudgetLineUpdateResponse
// @Failure		400			{object}	BudgetLineUpdateResponse
// @Failure		404			{object}	BudgetLineUpdateResponse
// @Failure		500			{object}	BudgetLineUpdateResponse
// @Param			X-Actor-ID	header		string					true	"ID of the acting user"
// @Param			id			path		string					true	"ID formatted as string"
// @Param			budgetLine	body		v1.BudgetLineEditable	true	"Budget Line"
// @Router			/v1/budget-lines/{id} [patch]
func UpdateBudgetLine(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	var line models.BudgetLine
	err = models.DB.First(&line, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	actor, err := currentActor(c)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	updateFields, err := httputil.GetBodyFields(c, BudgetLineEditable{})
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	var data BudgetLineEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	// Build the requested state to detect financial changes
	requested := requestedState(line, data, updateFields)
	changes := diff.Detect(diff.Snapshot{
		Amount:     requested.Amount,
		DateNeeded: requested.DateNeeded,
		CANID:      requested.CANID,
	}, diff.Snapshot{
		Amount:     line.Amount,
		DateNeeded: line.DateNeeded,
		CANID:      line.CANID,
	})

	outcome := approval.Evaluate(line.Status, line.OBE, !changes.Empty(), actor.Privileged)
	if outcome == approval.OutcomeRejected {
		s := approval.Err(line.Status).Error()
		c.JSON(http.StatusBadRequest, BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	// Amount changes reprice the fees at the line's rate snapshot
	update := data.model()
	if changes.Amount != nil {
		update.Fees = funding.Fee(requested.Amount, line.ProcShopFeeRate)
		updateFields = append(updateFields, "Fees")
	}

	if outcome == approval.OutcomeQueued {
		// Persist the requested values and park the line in review
		update.Status = models.StatusInReview
		updateFields = append(updateFields, "Status")

		serialized, err := changes.Serialize()
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetLineUpdateResponse{
				Error: &s,
			})
			return
		}

		previousStatus := line.Status
		err = models.DB.Model(&line).Select("", updateFields...).Updates(update).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetLineUpdateResponse{
				Error: &s,
			})
			return
		}

		request := models.ChangeRequest{
			BudgetLineID:     line.ID,
			RequestorID:      actor.ID,
			Status:           models.ChangeRequestPending,
			RequestedChanges: serialized,
			Summary:          strings.Join(changes.Summary(), "\n"),
			PreviousStatus:   previousStatus,
		}
		err = models.DB.Create(&request).Error
		if err != nil {
			s := err.Error()
			c.JSON(status(err), BudgetLineUpdateResponse{
				Error: &s,
			})
			return
		}

		apiResource := newBudgetLine(c, line)
		c.JSON(http.StatusOK, BudgetLineUpdateResponse{
			Data:           &apiResource,
			SentToApproval: true,
		})
		return
	}

	err = models.DB.Model(&line).Select("", updateFields...).Updates(update).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), BudgetLineUpdateResponse{
			Error: &s,
		})
		return
	}

	apiResource := newBudgetLine(c, line)
	c.JSON(http.StatusOK, BudgetLineUpdateResponse{Data: &apiResource})
}

// requestedState merges the fields present in the request body over the
// persisted line.
func requestedState(line models.BudgetLine, data BudgetLineEditable, updateFields []any) models.BudgetLine {
	for _, field := range updateFields {
		switch field {
		case "Amount":
			line.Amount = data.Amount
		case "DateNeeded":
			line.DateNeeded = data.DateNeeded
		case "CANID":
			line.CANID = data.CANID
		}
	}

	return line
}

// @Summary		Delete budget line
// @Description	Deletes a budget line. Lines in review cannot be deleted until their change request is resolved.
// @Tags			BudgetLines
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/budget-lines/{id} [delete]
func DeleteBudgetLine(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	var line models.BudgetLine
	err = models.DB.First(&line, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	if line.Status == models.StatusInReview {
		c.JSON(http.StatusBadRequest, httpError{
			Error: models.ErrBudgetLineInReview.Error(),
		})
		return
	}

	err = models.DB.Delete(&line).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
