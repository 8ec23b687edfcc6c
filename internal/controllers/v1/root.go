package v1

import (
	"net/http"

	"github.com/budget-line/backend/internal/httputil"
	"github.com/budget-line/backend/internal/models"
	"github.com/gin-gonic/gin"
)

func RegisterRootRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Agreements         string `json:"agreements" example:"https://example.com/api/v1/agreements"`                 // URL of Agreement collection endpoint
	BudgetLines        string `json:"budgetLines" example:"https://example.com/api/v1/budget-lines"`              // URL of Budget Line collection endpoint
	ServicesComponents string `json:"servicesComponents" example:"https://example.com/api/v1/services-components"` // URL of Services Component collection endpoint
	CANs               string `json:"cans" example:"https://example.com/api/v1/cans"`                             // URL of CAN collection endpoint
	Portfolios         string `json:"portfolios" example:"https://example.com/api/v1/portfolios"`                 // URL of Portfolio collection endpoint
	ChangeRequests     string `json:"changeRequests" example:"https://example.com/api/v1/change-requests"`        // URL of Change Request collection endpoint
	Notifications      string `json:"notifications" example:"https://example.com/api/v1/notifications"`           // URL of Notification collection endpoint
}

// Get returns the link list for v1
//
//	@Summary		v1 API
//	@Description	Returns general information about the v1 API
//	@Tags			v1
//	@Success		200	{object}	Response
//	@Router			/v1 [get]
func Get(c *gin.Context) {
	url := c.GetString(string(models.DBContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Agreements:         url + "/v1/agreements",
			BudgetLines:        url + "/v1/budget-lines",
			ServicesComponents: url + "/v1/services-components",
			CANs:               url + "/v1/cans",
			Portfolios:         url + "/v1/portfolios",
			ChangeRequests:     url + "/v1/change-requests",
			Notifications:      url + "/v1/notifications",
		},
	})
}

// Options returns the allowed HTTP methods
//
//	@Summary		Allowed HTTP verbs
//	@Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
//	@Tags			v1
//	@Success		204
//	@Router			/v1 [options]
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
