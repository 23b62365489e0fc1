package program

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/lutechstack-bit/theforgeapp-sub003/core"
)

var (
	cohortTypeTag  = "cohorttype"
	cohortTypeText = "invalid cohort type"

	forgeModeTag  = "forgemode"
	forgeModeText = "invalid forge mode"

	datesTag  = "editiondates"
	datesText = "forge_end_date cannot precede forge_start_date"
)

// RegisterValidators registers the program tags on the app validator.
func RegisterValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(cohortTypeTag, cohortTypeValidation)
	core.RegisterCustomTranslation(validate, translator, cohortTypeTag, cohortTypeText)

	_ = validate.RegisterValidation(forgeModeTag, forgeModeValidation)
	core.RegisterCustomTranslation(validate, translator, forgeModeTag, forgeModeText)

	validate.RegisterStructValidation(editionStructValidation, NewEdition{})
	core.RegisterCustomTranslation(validate, translator, datesTag, datesText)
}

// cohortTypeValidation checks the value is one of the known cohort tracks.
func cohortTypeValidation(fl validator.FieldLevel) bool {
	return CohortType(fl.Field().String()).Valid()
}

// forgeModeValidation checks the value is one of pre|during|post.
func forgeModeValidation(fl validator.FieldLevel) bool {
	return ForgeMode(fl.Field().String()).Valid()
}

// editionStructValidation checks the end date does not precede the start date.
func editionStructValidation(sl validator.StructLevel) {
	ne, ok := sl.Current().Interface().(NewEdition)
	if !ok {
		return
	}
	if !ne.ForgeStartDate.IsZero() && !ne.ForgeEndDate.IsZero() && ne.ForgeEndDate.Before(ne.ForgeStartDate) {
		sl.ReportError(ne.ForgeEndDate, "forge_end_date", "ForgeEndDate", datesTag, "")
	}
}
