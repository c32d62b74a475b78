package logging

// Standardized field names for structured logging.
// These constants keep log output consistent across pipeline stages.
const (
	FieldFile        = "file_path"
	FieldStage       = "stage"
	FieldRunID       = "run_id"
	FieldStrategy    = "strategy"
	FieldPartner     = "partner"
	FieldCountryCode = "country_code"
	FieldRegion      = "region"
	FieldCurrency    = "currency"
	FieldMonth       = "month"
	FieldRate        = "rate"
	FieldReason      = "reason"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldDropped     = "dropped"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
)
