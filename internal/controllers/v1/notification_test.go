package v1_test

import (
	"net/http"

	v1 "github.com/budget-line/backend/internal/controllers/v1"
	"github.com/budget-line/backend/internal/models"
	"github.com/budget-line/backend/test"
)

func (suite *TestSuiteStandard) TestNotificationsRequireActor() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestNotificationsOnReview() {
	requestor := suite.createTestUser(models.User{Name: "Requestor"})
	reviewer := suite.createTestUser(models.User{Name: "Division Director"})
	request := suite.queuedChangeRequest(suite.T(), requestor)

	r := test.Request(suite.T(), http.MethodPost, request.Links.Review, v1.ReviewEditable{Action: models.ReviewApprove}, actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	// The requestor is notified about the review outcome
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "", actorHeader(requestor))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)
	suite.Assert().Equal("Budget line change APPROVED", response.Data[0].Title)
	suite.Assert().False(response.Data[0].IsRead)

	// The reviewer got no notification
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications", "", actorHeader(reviewer))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 0)
}

func (suite *TestSuiteStandard) TestNotificationsDismiss() {
	recipient := suite.createTestUser(models.User{Name: "Recipient"})

	notification := models.Notification{
		RecipientID: recipient.ID,
		Title:       "Changes sent to approval",
		Message:     "Amount: 1000.00 -> 3000.00",
	}
	suite.Require().NoError(models.DB.Create(&notification).Error)

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications?unreadOnly=true", "", actorHeader(recipient))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.NotificationListResponse
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Require().Len(response.Data, 1)

	r = test.Request(suite.T(), http.MethodPatch, response.Data[0].Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var dismissed v1.NotificationResponse
	test.DecodeResponse(suite.T(), &r, &dismissed)
	suite.Assert().True(dismissed.Data.IsRead)

	// Dismissed notifications drop out of the unread filter
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/notifications?unreadOnly=true", "", actorHeader(recipient))
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)
	suite.Assert().Len(response.Data, 0)
}
