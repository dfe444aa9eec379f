package session

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/calendar"
)

var (
	eventColorTag  = "eventcolor"
	eventColorText = "invalid color"

	endAfterStartTag  = "endafterstart"
	endAfterStartText = "end time must be after start time"
)

func init() {
	_ = core.Validate.RegisterValidation(eventColorTag, eventColorValidation)
	core.RegisterCustomTranslation(eventColorTag, eventColorText)

	core.Validate.RegisterStructValidation(sessionStructValidation, NewSession{})
	core.Validate.RegisterStructValidation(sessionStructValidation, UpdateSession{})
	core.RegisterCustomTranslation(endAfterStartTag, endAfterStartText)
}

func eventColorValidation(fl validator.FieldLevel) bool {
	return calendar.Color(fl.Field().String()).Valid()
}

// sessionStructValidation checks that EndTime falls after StartTime.
// "HH:MM" compares correctly as a string.
func sessionStructValidation(sl validator.StructLevel) {
	var start, end string
	switch s := sl.Current().Interface().(type) {
	case NewSession:
		start, end = s.StartTime, s.EndTime
	case UpdateSession:
		start, end = s.StartTime, s.EndTime
	}
	if start != "" && end != "" && end <= start {
		sl.ReportError(end, "end_time", "EndTime", endAfterStartTag, "")
	}
}
