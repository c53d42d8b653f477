package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldLogin        = "login"
	FieldCounterparty = "counterparty"
	FieldAmount       = "amount"
	FieldCategory     = "category"
	FieldCategories   = "categories"
	FieldBalance      = "balance"
	FieldCount        = "count"
	FieldPath         = "path"
	FieldFile         = "file"
	FieldLine         = "line"
	FieldBackend      = "backend"
	FieldSuccess      = "success"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldEventID      = "event_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentAccount = "account"
	ComponentStorage = "storage"
	ComponentFinance = "finance"
	ComponentCSV     = "csv"
	ComponentEvents  = "events"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpRegister = "register"
	OpLogin    = "login"
	OpLogout   = "logout"
	OpLoad     = "load"
	OpSave     = "save"
	OpTransfer = "transfer"
	OpImport   = "import"
	OpExport   = "export"
	OpValidate = "validate"
	OpPublish  = "publish"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithLogin adds the acting user
func (f LogFields) WithLogin(login string) LogFields {
	f[FieldLogin] = login
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransfer adds transfer-related fields
func (f LogFields) WithTransfer(from, to, amount, category string) LogFields {
	f[FieldLogin] = from
	f[FieldCounterparty] = to
	f[FieldAmount] = amount
	f[FieldCategory] = category
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

// With adds an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}
