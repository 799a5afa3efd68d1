package classify

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-extractor/constants"
	"github.com/joseph-ayodele/invoice-extractor/internal/strategy"
)

func TestIdentify(t *testing.T) {
	c := New(nil, nil)

	tests := []struct {
		name string
		text string
		want constants.Supplier
	}{
		{"udea", "Udea B.V. Ekkersrijt", constants.SupplierUdea},
		{"amazon", "VAT declared by Amazon Services Europe", constants.SupplierAmazon},
		{"linode via akamai", "Akamai Technologies", constants.SupplierLinode},
		{"ardu accented", "Ardú Artisan Bakery Ltd", constants.SupplierArdu},
		{"ardu plain", "ARDU ARTISAN BAKERY", constants.SupplierArdu},
		{"vico squashed", "VicoDeodorantLimited", constants.SupplierVico},
		{"breadelicious brand", "BreaDelicious Ltd", constants.SupplierBreadelicious},
		{"bread catch-all", "Fresh bread daily", constants.SupplierBreadelicious},
		{"mossfield full name", "Mossfield Organic Farm\nSourdough bread", constants.SupplierMossfield},
		{"mossfield split name", "MOSSFIELD\nOrganic Farm, Birr", constants.SupplierMossfield},
		{"mossfield store is not the farm", "Mossfield\nOrganic Farm\nOrganic Store", constants.SupplierUnknown},
		{"earlier rule wins", "Amazon EU S.a.r.l.\nFlogas gift card", constants.SupplierAmazon},
		{"unknown", "Random Widgets Ltd", constants.SupplierUnknown},
		{"empty", "", constants.SupplierUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Identify(tt.text))
		})
	}
}

func TestDefaultRules_Order(t *testing.T) {
	rules := DefaultRules()
	require.NotEmpty(t, rules)

	last := rules[len(rules)-1]
	assert.Equal(t, constants.SupplierBreadelicious, last.Supplier)
	assert.Equal(t, []string{"BREAD"}, last.When.tokens, "the loose catch-all must be evaluated last")

	covered := make(map[constants.Supplier]bool)
	for _, r := range rules {
		covered[r.Supplier] = true
		for _, tok := range r.When.tokens {
			assert.Equal(t, tok, strings.ToUpper(tok), "tokens are matched against uppercased text")
		}
	}
	for _, s := range constants.Suppliers() {
		switch s {
		case constants.SupplierUnknown, constants.SupplierLoughboora:
			assert.False(t, covered[s], s)
		default:
			assert.True(t, covered[s], "no rule for %s", s)
		}
	}
}

func TestPredicates(t *testing.T) {
	found := tokenSet{"A": {}, "B": {}}
	assert.True(t, Has("A").eval(found))
	assert.False(t, Has("C").eval(found))
	assert.True(t, AnyOf("C", "B").eval(found))
	assert.True(t, AllOf(Has("A"), Has("B")).eval(found))
	assert.False(t, AllOf(Has("A"), Not(Has("B"))).eval(found))
	assert.True(t, Or(Has("C"), Not(Has("D"))).eval(found))
	assert.ElementsMatch(t, []string{"A", "B", "C"}, Or(Has("A"), AllOf(Has("B"), Not(Has("C")))).tokens)
}

func TestWithRules(t *testing.T) {
	c := New(nil, nil, WithRules([]Rule{{constants.SupplierOxigen, Has("WIDGET")}}))
	assert.Equal(t, constants.SupplierOxigen, c.Identify("widget co"))
	assert.Equal(t, constants.SupplierUnknown, c.Identify("Oxigen Commercial"))

	empty := New(nil, nil, WithRules(nil))
	assert.Equal(t, constants.SupplierUnknown, empty.Identify("anything"))
}

func TestClassify_ResolvesStrategy(t *testing.T) {
	c := New(strategy.NewRegistry(nil, nil), nil)

	id, s := c.Classify("Invoice from JetBrains s.r.o.")
	assert.Equal(t, constants.SupplierJetBrains, id)
	assert.Equal(t, constants.SupplierJetBrains, s.Supplier())

	id, s = c.Classify("nobody we know")
	assert.Equal(t, constants.SupplierUnknown, id)
	assert.Equal(t, constants.SupplierUnknown, s.Supplier())
}

func TestIdentify_Concurrent(t *testing.T) {
	c := New(nil, nil)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, constants.SupplierOpenAI, c.Identify("OpenAI, LLC receipt"))
				assert.Equal(t, constants.SupplierThree, c.Identify("Three Ireland Hutchison"))
			}
		}()
	}
	wg.Wait()
}
