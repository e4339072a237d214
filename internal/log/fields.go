package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldContractID  = "contract_id"
	FieldReceiptID   = "receipt_id"
	FieldReceiptNum  = "receipt_number"
	FieldClientName  = "client_name"
	FieldAmountCents = "amount_cents"
	FieldIssueDate   = "issue_date"
	FieldSheetsRef   = "sheets_ref"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentContract   = "contract"
	ComponentReceipt    = "receipt"
	ComponentRecurrence = "recurrence"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentExport     = "export"
	ComponentCache      = "cache"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpList     = "list"
	OpIssue    = "issue"
	OpExport   = "export"
	OpValidate = "validate"
	OpParse    = "parse"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
