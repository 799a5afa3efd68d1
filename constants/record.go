package constants

// Sentinels used by extraction strategies for values that were not found.
const (
	NotFound   = "Not found"
	ZeroAmount = "0.00"
)

// Raw field keys shared by every strategy.
const (
	KeyFilename      = "Filename"
	KeySupplier      = "Supplier"
	KeyInvoiceDate   = "Invoice Date"
	KeyTaxFree       = "Tax Free"
	KeyCreditNote    = "Credit Note"
	KeyVAT0          = "VAT 0%"
	KeyVAT9          = "VAT 9%"
	KeyVAT135        = "VAT 13.5%"
	KeyVAT23         = "VAT 23%"
	KeyInvoiceNumber = "Invoice Number"
	KeyTotal         = "Total"
)

// VATRate describes one of the four fixed buckets.
type VATRate struct {
	Key     string // raw field key, e.g. "VAT 13.5%"
	Label   string // human label, e.g. "13.5%"
	JSONKey string // vat_breakdown key, e.g. "vat_13_5"
	Percent string // decimal percentage, e.g. "13.5"
}

// VATRates lists the buckets in ascending rate order.
var VATRates = [4]VATRate{
	{Key: KeyVAT0, Label: "0%", JSONKey: "vat_0", Percent: "0"},
	{Key: KeyVAT9, Label: "9%", JSONKey: "vat_9", Percent: "9"},
	{Key: KeyVAT135, Label: "13.5%", JSONKey: "vat_13_5", Percent: "13.5"},
	{Key: KeyVAT23, Label: "23%", JSONKey: "vat_23", Percent: "23"},
}

// ForeignTotalKeys maps supplier-provided total overrides to their currency.
var ForeignTotalKeys = map[string]string{
	"GBP_Total": "GBP",
	"USD_Total": "USD",
}

// DefaultCurrency is displayed when no foreign total override is present.
const DefaultCurrency = "EUR"
