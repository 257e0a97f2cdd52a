package constants

const (
	SummarySheet   = "Summary"
	SummaryTitle   = "Invoice Processing Summary"
	SheetNameLimit = 31 // xlsx sheet-name limit

	ColumnPlaceholder = "Column"
	NoTableMarker     = "No table data available"

	DefaultWorkbookName = "invoices.xlsx"
)
