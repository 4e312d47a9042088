package currencypkg

import "testing"

func TestIsSupportedCurrency(t *testing.T) {
	t.Parallel()

	for _, c := range SupportedCurrencies {
		if !IsSupportedCurrency(c) {
			t.Errorf("IsSupportedCurrency(%q) = false, want true", c)
		}
	}

	for _, c := range []string{"", "usd", "RMB", "BTC"} {
		if IsSupportedCurrency(c) {
			t.Errorf("IsSupportedCurrency(%q) = true, want false", c)
		}
	}
}
