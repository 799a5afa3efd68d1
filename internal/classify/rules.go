package classify

import (
	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// tokenSet holds the uppercase tokens found in a document.
type tokenSet map[string]struct{}

func (s tokenSet) has(token string) bool {
	_, ok := s[token]
	return ok
}

// Predicate is a boolean combination of substring tokens. Tokens must be
// uppercase; the document text is uppercased before matching.
type Predicate struct {
	tokens []string
	eval   func(tokenSet) bool
}

// Has matches when token occurs anywhere in the text.
func Has(token string) Predicate {
	return Predicate{
		tokens: []string{token},
		eval:   func(s tokenSet) bool { return s.has(token) },
	}
}

// AnyOf matches when at least one of tokens occurs.
func AnyOf(tokens ...string) Predicate {
	return Predicate{
		tokens: tokens,
		eval: func(s tokenSet) bool {
			for _, t := range tokens {
				if s.has(t) {
					return true
				}
			}
			return false
		},
	}
}

// AllOf matches when every predicate matches.
func AllOf(ps ...Predicate) Predicate {
	return Predicate{
		tokens: collect(ps),
		eval: func(s tokenSet) bool {
			for _, p := range ps {
				if !p.eval(s) {
					return false
				}
			}
			return true
		},
	}
}

// Or matches when any predicate matches.
func Or(ps ...Predicate) Predicate {
	return Predicate{
		tokens: collect(ps),
		eval: func(s tokenSet) bool {
			for _, p := range ps {
				if p.eval(s) {
					return true
				}
			}
			return false
		},
	}
}

func Not(p Predicate) Predicate {
	return Predicate{
		tokens: p.tokens,
		eval:   func(s tokenSet) bool { return !p.eval(s) },
	}
}

func collect(ps []Predicate) []string {
	var out []string
	for _, p := range ps {
		out = append(out, p.tokens...)
	}
	return out
}

// Rule assigns Supplier to a document whose tokens satisfy When.
type Rule struct {
	Supplier constants.Supplier
	When     Predicate
}

// DefaultRules is the ordered rule list; the first matching rule wins.
// The bare "BREAD" rule must stay after every brand rule.
func DefaultRules() []Rule {
	return []Rule{
		{constants.SupplierUdea, AnyOf("UDEA B.V.", "WWW.UDEA.NL")},
		{constants.SupplierAmazon, AnyOf("AMAZON EU", "VAT DECLARED BY AMAZON")},
		{constants.SupplierDynamis, Has("DYNAMIS")},
		{constants.SupplierThree, Has("THREE IRELAND")},
		{constants.SupplierDigitalOcean, Has("DIGITALOCEAN")},
		{constants.SupplierImbibe, Has("IMBIBE COFFEE ROASTERS")},
		{constants.SupplierOpenAI, Has("OPENAI")},
		{constants.SupplierLinode, AnyOf("AKAMAI", "LINODE")},
		{constants.SupplierJetBrains, Has("JETBRAINS")},
		{constants.SupplierIndependent, Has("INDEPENDENT IRISH HEALTH FOODS")},
		{constants.SupplierSlieveBloom, Has("SLIEVE BLOOM ORGANICS")},
		{constants.SupplierGarryhinch, Has("GARRYHINCH WOOD EXOTICS")},
		{constants.SupplierOxigen, Has("OXIGEN COMMERCIAL")},
		{constants.SupplierKellys, Has("KELLYS CENTRAL EDUCATIONAL")},
		{constants.SupplierBreadelicious, Has("BREADELICIOUS")},
		{constants.SupplierKleePaper, AnyOf("KLEE PAPER", "ECOLAND")},
		{constants.SupplierArdu, AnyOf("ARDÚ ARTISAN BAKERY", "ARDU ARTISAN BAKERY")},
		{constants.SupplierVico, AnyOf("VICODEODORANTLIMITED", "VICODEODORANT")},
		{constants.SupplierCoolnagrower, Has("COOLNAGROWER")},
		{constants.SupplierMerryMill, AnyOf("THE MERRY MILL", "MERRYMOUNT ORGANIC")},
		{constants.SupplierFlogas, AnyOf("FLOGAS", "WWW.FLOGAS.IE")},
		{constants.SupplierMossfield, Or(
			Has("MOSSFIELD ORGANIC FARM"),
			AllOf(Has("MOSSFIELD"), Has("ORGANIC FARM"), Not(Has("ORGANIC STORE"))),
		)},
		{constants.SupplierOldyard, Has("OLDYARD ORGANICS")},
		{constants.SupplierBreadelicious, Has("BREAD")},
	}
}
