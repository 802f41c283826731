package loggers

const (
	FieldApp       = "app"
	FieldComponent = "component"
	FieldRunID     = "run_id"

	FieldDuration   = "duration"
	FieldErrorCode  = "error_code"
	FieldErrorStack = "error_stack"

	FieldPrimaryDomain = "primary_domain"
	FieldInputFile     = "input_file"
	FieldStorageKey    = "storage_key"
)
