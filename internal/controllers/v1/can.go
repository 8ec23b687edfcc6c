package v1

import (
	"fmt"
	"net/http"

	"github.com/budget-line/backend/internal/funding"
	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// RegisterCANRoutes registers the routes for CANs with
// the RouterGroup that is passed.
func RegisterCANRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", OptionsCANList)
		r.GET("", GetCANs)
		r.POST("", CreateCANs)
	}

	// CAN with ID
	{
		r.OPTIONS("/:id", OptionsCANDetail)
		r.GET("/:id", GetCAN)
		r.OPTIONS("/:id/funding", OptionsCANFunding)
		r.GET("/:id/funding", GetCANFunding)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CANs
// @Success		204
// @Router			/v1/cans [options]
func OptionsCANList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CANs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/cans/{id} [options]
func OptionsCANDetail(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.CAN{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Create CANs
// @Description	Creates new CANs
// @Tags			CANs
// @Produce		json
// @Success		201	{object}	CANCreateResponse
// @Failure		400	{object}	CANCreateResponse
// @Failure		404	{object}	CANCreateResponse
// @Failure		500	{object}	CANCreateResponse
// @Param			can	body		[]v1.CANEditable	true	"CANs"
// @Router			/v1/cans [post]
func CreateCANs(c *gin.Context) {
	var editables []CANEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), CANCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := CANCreateResponse{}

	for _, editable := range editables {
		can := editable.model()
		err = models.DB.Create(&can).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		data := newCAN(c, can)
		r.Data = append(r.Data, CANResponse{Data: &data})
	}

	c.JSON(status, r)
}

// @Summary		Get CANs
// @Description	Returns a list of CANs
// @Tags			CANs
// @Produce		json
// @Success		200	{object}	CANListResponse
// @Failure		400	{object}	CANListResponse
// @Failure		500	{object}	CANListResponse
// @Router			/v1/cans [get]
// @Param			number		query	string	false	"Filter by number. Glob patterns like G99* are supported"
// @Param			description	query	string	false	"Filter by description"
// @Param			portfolio	query	string	false	"Filter by portfolio ID"
// @Param			offset		query	uint	false	"The offset of the first CAN returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of CANs to return. Defaults to 50."
func GetCANs(c *gin.Context) {
	var filter CANQueryFilter

	// The filters contain only strings, so this will always succeed
	_ = c.Bind(&filter)

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	// Convert the QueryFilter to a Create struct
	model, err := filter.model()
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANListResponse{
			Error: &s,
		})
		return
	}

	q := models.DB.
		Order("number ASC").
		Where(&model, queryFields...)

	if filter.Description != "" {
		q = q.Where("description LIKE ?", fmt.Sprintf("%%%s%%", filter.Description))
	}

	var cans []models.CAN
	err = q.Find(&cans).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANListResponse{
			Error: &s,
		})
		return
	}

	// Glob matching cannot happen in SQL, so the number filter and the
	// pagination are applied in memory
	if filter.Number != "" {
		matched := make([]models.CAN, 0, len(cans))
		for _, can := range cans {
			if glob.Glob(filter.Number, can.Number) {
				matched = append(matched, can)
			}
		}
		cans = matched
	}

	count := int64(len(cans))

	if int(filter.Offset) < len(cans) {
		cans = cans[filter.Offset:]
	} else {
		cans = nil
	}

	// Default to 50 CANs and set the limit
	limit := 50
	if slices.Contains(setFields, "Limit") {
		limit = filter.Limit
	}
	if limit >= 0 && limit < len(cans) {
		cans = cans[:limit]
	}

	data := make([]CAN, 0, len(cans))
	for _, can := range cans {
		data = append(data, newCAN(c, can))
	}

	c.JSON(http.StatusOK, CANListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get CAN
// @Description	Returns a specific CAN
// @Tags			CANs
// @Produce		json
// @Success		200	{object}	CANResponse
// @Failure		400	{object}	CANResponse
// @Failure		404	{object}	CANResponse
// @Failure		500	{object}	CANResponse
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/cans/{id} [get]
func GetCAN(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANResponse{
			Error: &s,
		})
		return
	}

	var can models.CAN
	err = models.DB.First(&can, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANResponse{
			Error: &s,
		})
		return
	}

	data := newCAN(c, can)
	c.JSON(http.StatusOK, CANResponse{Data: &data})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			CANs
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		string	true	"ID formatted as string"
// @Router			/v1/cans/{id}/funding [options]
func OptionsCANFunding(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	err = models.DB.First(&models.CAN{}, id).Error
	if err != nil {
		c.JSON(status(err), httpError{
			Error: err.Error(),
		})
		return
	}

	httputil.OptionsGet(c)
}

type canFundingFilter struct {
	PendingAmount string `form:"pendingAmount"` // Amount of a pending financial change to project
	AfterApproval bool   `form:"afterApproval"` // Project the spending as if the pending change were approved?
}

// @Summary		Get CAN funding
// @Description	Returns the funding summary of a CAN, optionally projecting the spending with a pending financial change applied
// @Tags			CANs
// @Produce		json
// @Success		200	{object}	CANFundingResponse
// @Failure		400	{object}	CANFundingResponse
// @Failure		404	{object}	CANFundingResponse
// @Failure		500	{object}	CANFundingResponse
// @Param			id				path	string	true	"ID formatted as string"
// @Param			pendingAmount	query	string	false	"Amount of a pending financial change to project"
// @Param			afterApproval	query	bool	false	"Project the spending as if the pending change were approved?"
// @Router			/v1/cans/{id}/funding [get]
func GetCANFunding(c *gin.Context) {
	id, err := httputil.UUIDFromString(c.Param("id"))
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANFundingResponse{
			Error: &s,
		})
		return
	}

	var filter canFundingFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, CANFundingResponse{
			Error: &s,
		})
		return
	}

	pendingAmount := decimal.Zero
	if filter.PendingAmount != "" {
		pendingAmount, err = decimal.NewFromString(filter.PendingAmount)
		if err != nil {
			s := err.Error()
			c.JSON(http.StatusBadRequest, CANFundingResponse{
				Error: &s,
			})
			return
		}
	}

	err = models.DB.First(&models.CAN{}, id).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANFundingResponse{
			Error: &s,
		})
		return
	}

	var summary models.CANFundingSummary
	err = models.DB.Where("can_id = ?", id).First(&summary).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), CANFundingResponse{
			Error: &s,
		})
		return
	}

	data := CANFunding{
		FundingSummary:    summary.FundingSummary,
		ProjectedSpending: funding.ProjectedSpending(summary.FundingSummary, pendingAmount, filter.AfterApproval),
	}

	c.JSON(http.StatusOK, CANFundingResponse{Data: &data})
}
