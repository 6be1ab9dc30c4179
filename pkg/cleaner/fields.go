package cleaner

import (
	"time"

	"github.com/OrtizLara/Camacho-Ortiz-Palmaricciotti-Medrano-Sosa/pkg/model"
)

func textField(r *model.CleanRow, f model.Field) **string {
	switch f {
	case model.FieldName:
		return &r.Name
	case model.FieldDescription:
		return &r.Description
	case model.FieldContext:
		return &r.Context
	case model.FieldDistrict:
		return &r.District
	case model.FieldNeighborhood:
		return &r.Neighborhood
	case model.FieldWorkType:
		return &r.WorkType
	case model.FieldArea:
		return &r.Area
	case model.FieldCompany:
		return &r.Company
	case model.FieldStage:
		return &r.Stage
	case model.FieldContractingType:
		return &r.ContractingType
	case model.FieldFundingSource:
		return &r.FundingSource
	case model.FieldAddress:
		return &r.Address
	case model.FieldContractingNumber:
		return &r.ContractingNumber
	case model.FieldFileNumber:
		return &r.FileNumber
	case model.FieldContractorTaxID:
		return &r.ContractorTaxID
	case model.FieldFeatured:
		return &r.Featured
	case model.FieldBAElige:
		return &r.BAElige
	case model.FieldBeneficiaries:
		return &r.Beneficiaries
	case model.FieldCommitment:
		return &r.Commitment
	case model.FieldImage1:
		return &r.Image1
	case model.FieldImage2:
		return &r.Image2
	case model.FieldImage3:
		return &r.Image3
	case model.FieldImage4:
		return &r.Image4
	case model.FieldInternalLink:
		return &r.InternalLink
	case model.FieldSpecsURL:
		return &r.SpecsURL
	case model.FieldEnvironmentalURL:
		return &r.EnvironmentalURL
	}
	return nil
}

func floatField(r *model.CleanRow, f model.Field) **float64 {
	switch f {
	case model.FieldAmount:
		return &r.Amount
	case model.FieldLat:
		return &r.Lat
	case model.FieldLng:
		return &r.Lng
	case model.FieldProgress:
		return &r.Progress
	}
	return nil
}

func intField(r *model.CleanRow, f model.Field) **int64 {
	switch f {
	case model.FieldTermMonths:
		return &r.Term
	case model.FieldWorkforce:
		return &r.Workforce
	case model.FieldBidYear:
		return &r.BidYear
	}
	return nil
}

func dateField(r *model.CleanRow, f model.Field) **time.Time {
	switch f {
	case model.FieldStartDate:
		return &r.StartDate
	case model.FieldEndDate:
		return &r.EndDate
	}
	return nil
}
