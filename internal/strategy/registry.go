package strategy

import (
	"log/slog"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Registry maps each supplier identity to its strategy. Unmapped identities
// resolve to the default strategy.
type Registry struct {
	byID        map[constants.Supplier]Strategy
	fallback    Strategy
	spreadsheet Strategy
}

// NewRegistry builds the full supplier table. pages backs the strategies that
// need to re-read a document page by page; it may be nil in tests that never
// dispatch to them.
func NewRegistry(pages PageReader, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		byID:     make(map[constants.Supplier]Strategy),
		fallback: Default(),
	}

	for _, s := range []Strategy{
		textStrategy{constants.SupplierUdea, extractUdea},
		textStrategy{constants.SupplierAmazon, extractAmazon},
		textStrategy{constants.SupplierDynamis, extractDynamis},
		textStrategy{constants.SupplierThree, extractThree},
		textStrategy{constants.SupplierDigitalOcean, extractDigitalOcean},
		textStrategy{constants.SupplierImbibe, extractImbibe},
		textStrategy{constants.SupplierOpenAI, extractOpenAI},
		textStrategy{constants.SupplierLinode, extractLinode},
		textStrategy{constants.SupplierJetBrains, extractJetBrains},
		textStrategy{constants.SupplierIndependent, extractIndependent},
		textStrategy{constants.SupplierSlieveBloom, extractSlieveBloom},
		textStrategy{constants.SupplierGarryhinch, extractGarryhinch},
		textStrategy{constants.SupplierOxigen, extractOxigen},
		textStrategy{constants.SupplierKellys, extractKellys},
		textStrategy{constants.SupplierBreadelicious, extractBreadelicious},
		textStrategy{constants.SupplierKleePaper, extractKleePaper},
		textStrategy{constants.SupplierArdu, extractArdu},
		textStrategy{constants.SupplierVico, extractVico},
		NewCoolnagrower(pages, logger),
		textStrategy{constants.SupplierMerryMill, extractMerryMill},
		textStrategy{constants.SupplierFlogas, extractFlogas},
		textStrategy{constants.SupplierMossfield, extractMossfield},
		textStrategy{constants.SupplierOldyard, extractOldyard},
	} {
		r.Register(s)
	}

	r.spreadsheet = Loughboora()
	r.Register(r.spreadsheet)
	return r
}

// Register adds or replaces the strategy for s.Supplier().
func (r *Registry) Register(s Strategy) {
	r.byID[s.Supplier()] = s
}

// Lookup returns the strategy for id, or the default strategy.
func (r *Registry) Lookup(id constants.Supplier) Strategy {
	if s, ok := r.byID[id]; ok {
		return s
	}
	return r.fallback
}

// Dispatch is Lookup plus the spreadsheet override: spreadsheets only ever
// come from one supplier, so they always go to its strategy.
func (r *Registry) Dispatch(id constants.Supplier, format constants.Format) Strategy {
	if format.IsSpreadsheet() && id != constants.SupplierLoughboora {
		return r.spreadsheet
	}
	return r.Lookup(id)
}

// Len reports how many identities are mapped.
func (r *Registry) Len() int { return len(r.byID) }
