package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")
)

var (
	ErrAgreementNameNotUnique         = errors.New("the agreement name must be unique")
	ErrServicesComponentNotUnique     = errors.New("the services component number and sub-component must be unique for the agreement")
	ErrBudgetLineAmountNegative       = errors.New("budget line amounts must not be negative")
	ErrBudgetLineStatusInvalid        = errors.New("the budget line status is invalid")
	ErrChangeRequestAlreadyReviewed   = errors.New("this change request has already been reviewed")
	ErrChangeRequestActionInvalid     = errors.New("the review action must be APPROVE or REJECT")
	ErrCANNumberNotUnique             = errors.New("the CAN number must be unique")
	ErrPortfolioNameNotUnique         = errors.New("the portfolio name must be unique")
	ErrProcurementShopFeeNegative     = errors.New("the procurement shop fee percentage must not be negative")
	ErrBudgetLineInReview             = errors.New("this budget line has a pending change request and cannot be edited until it is reviewed")
	ErrFinancialChangeNotAllowed      = errors.New("financial changes are not allowed for budget lines in this status")
	ErrServicesComponentStillReferred = errors.New("this services component still has budget lines assigned to it")
)
