package constants

import (
	"strings"
)

// Supplier identifies the issuer of an invoice. The value is what gets
// reported as the detected supplier.
type Supplier string

const (
	SupplierUdea          Supplier = "Udea"
	SupplierAmazon        Supplier = "Amazon"
	SupplierDynamis       Supplier = "Dynamis"
	SupplierThree         Supplier = "Three"
	SupplierDigitalOcean  Supplier = "DigitalOcean"
	SupplierImbibe        Supplier = "Imbibe"
	SupplierOpenAI        Supplier = "OpenAI"
	SupplierLinode        Supplier = "Linode"
	SupplierJetBrains     Supplier = "JetBrains"
	SupplierIndependent   Supplier = "Independent"
	SupplierSlieveBloom   Supplier = "Slieve Bloom"
	SupplierGarryhinch    Supplier = "Garryhinch"
	SupplierOxigen        Supplier = "Oxigen"
	SupplierKellys        Supplier = "Kellys"
	SupplierBreadelicious Supplier = "Breadelicious"
	SupplierKleePaper     Supplier = "Klee Paper"
	SupplierArdu          Supplier = "Ardu"
	SupplierVico          Supplier = "Vico"
	SupplierCoolnagrower  Supplier = "Coolnagrower"
	SupplierMerryMill     Supplier = "Merry Mill"
	SupplierFlogas        Supplier = "Flogas"
	SupplierMossfield     Supplier = "Mossfield"
	SupplierOldyard       Supplier = "Oldyard Organics"
	SupplierLoughboora    Supplier = "Loughboora"
	SupplierUnknown       Supplier = "Unknown"
)

var allSuppliers = []Supplier{
	SupplierUdea,
	SupplierAmazon,
	SupplierDynamis,
	SupplierThree,
	SupplierDigitalOcean,
	SupplierImbibe,
	SupplierOpenAI,
	SupplierLinode,
	SupplierJetBrains,
	SupplierIndependent,
	SupplierSlieveBloom,
	SupplierGarryhinch,
	SupplierOxigen,
	SupplierKellys,
	SupplierBreadelicious,
	SupplierKleePaper,
	SupplierArdu,
	SupplierVico,
	SupplierCoolnagrower,
	SupplierMerryMill,
	SupplierFlogas,
	SupplierMossfield,
	SupplierOldyard,
	SupplierLoughboora,
	SupplierUnknown,
}

// Suppliers returns the full catalog, Unknown last.
func Suppliers() []Supplier {
	out := make([]Supplier, len(allSuppliers))
	copy(out, allSuppliers)
	return out
}

func (s Supplier) String() string { return string(s) }

// ParseSupplier matches a supplier name case-insensitively.
func ParseSupplier(input string) (Supplier, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return SupplierUnknown, false
	}
	for _, s := range allSuppliers {
		if strings.ToLower(string(s)) == normalized {
			return s, true
		}
	}
	return SupplierUnknown, false
}
