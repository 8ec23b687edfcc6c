package models_test

import (
	"github.com/budget-line/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) TestAgreementTrimWhitespace() {
	agreement := suite.createTestAgreement(models.Agreement{
		Name:        "  Research Support\t",
		Description: " Multi year support contract ",
	})

	suite.Assert().Equal("Research Support", agreement.Name)
	suite.Assert().Equal("Multi year support contract", agreement.Description)
}

func (suite *TestSuiteStandard) TestAgreementDuplicateName() {
	agreement := suite.createTestAgreement(models.Agreement{Name: "Unique Agreement"})

	duplicate := models.Agreement{
		Name:              "Unique Agreement",
		ProcurementShopID: agreement.ProcurementShopID,
	}

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrAgreementNameNotUnique)
}

func (suite *TestSuiteStandard) TestAgreementNonExistingProcurementShop() {
	agreement := models.Agreement{
		Name:              "No shop",
		ProcurementShopID: uuid.New(),
	}

	err := models.DB.Create(&agreement).Error
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestProcurementShopFeeNegative() {
	shop := models.ProcurementShop{
		Name:          "Negative Fees Inc.",
		FeePercentage: decimal.NewFromFloat(-1),
	}

	err := models.DB.Create(&shop).Error
	suite.Assert().ErrorIs(err, models.ErrProcurementShopFeeNegative)
}

func (suite *TestSuiteStandard) TestCANDuplicateNumber() {
	can := suite.createTestCAN(models.CAN{Number: "G994426"})

	duplicate := models.CAN{
		Number:      "G994426",
		PortfolioID: can.PortfolioID,
	}

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrCANNumberNotUnique)
}

func (suite *TestSuiteStandard) TestPortfolioDuplicateName() {
	portfolio := suite.createTestPortfolio(models.Portfolio{Name: "Child Welfare Research"})

	duplicate := models.Portfolio{
		Name:       "Child Welfare Research",
		DivisionID: portfolio.DivisionID,
	}

	err := models.DB.Create(&duplicate).Error
	suite.Assert().ErrorIs(err, models.ErrPortfolioNameNotUnique)
}
