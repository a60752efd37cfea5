package services

import "github.com/terraincognita07/healthlog/internal/apperrors"

var (
	ErrDateMissing         = apperrors.NewValidationError("date", "date_missing", "date is required")
	ErrDateMalformed       = apperrors.NewValidationError("date", "date_malformed", "date must be dd/mm/yyyy")
	ErrDateYearOutOfRange  = apperrors.NewValidationError("date", "date_year_out_of_range", "year must be between 2500 and 2600")
	ErrDateMonthOutOfRange = apperrors.NewValidationError("date", "date_month_out_of_range", "month must be between 1 and 12")
	ErrDateDayOutOfRange   = apperrors.NewValidationError("date", "date_day_out_of_range", "day must be at least 1")
	ErrDateDayExceedsMonth = apperrors.NewValidationError("date", "date_day_exceeds_month", "day exceeds the length of the month")
	ErrTimeMalformed       = apperrors.NewValidationError("time", "time_malformed", "time must be HH:MM")
	ErrSystolicOutOfRange  = apperrors.NewValidationError("systolic", "systolic_out_of_range", "systolic must be between 1 and 300")
	ErrDiastolicOutOfRange = apperrors.NewValidationError("diastolic", "diastolic_out_of_range", "diastolic must be between 1 and 150")
	ErrPulseOutOfRange     = apperrors.NewValidationError("pulse", "pulse_out_of_range", "pulse must be between 1 and 300")
	ErrSugarValueInvalid   = apperrors.NewValidationError("value", "sugar_value_invalid", "value must be high, low or an integer between 1 and 999")
	ErrTimeOfDayInvalid    = apperrors.NewValidationError("time_of_day", "time_of_day_invalid", "unknown time of day")
	ErrUnitInvalid         = apperrors.NewValidationError("unit", "unit_invalid", "unit must be mg/dL or mmol/L")
	ErrNotesTooLong        = apperrors.NewValidationError("notes", "notes_too_long", "notes are too long")
	ErrDuplicateReading    = apperrors.NewValidationError("time_of_day", "duplicate_reading", "a reading for this date and time of day already exists")
	ErrRecordNotFound      = apperrors.New(apperrors.ErrorTypeNotFound, "record_not_found", "record not found")
)
