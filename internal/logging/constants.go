package logging

// Standardized field names for structured logging. Using constants keeps
// log output consistent and easy to filter.
const (
	FieldFile        = "file_path"
	FieldSide        = "side"
	FieldGroupID     = "group_id"
	FieldMethod      = "method"
	FieldSimilarity  = "similarity"
	FieldDayOffset   = "day_offset"
	FieldBankCount   = "bank_count"
	FieldLedgerCount = "ledger_count"
	FieldMatched     = "matched"
	FieldUnmatched   = "unmatched"
	FieldCount       = "count"
	FieldProfile     = "profile"
	FieldAction      = "action"
)
