package domain

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// paymentFrequencySteps maps free-text payment frequency tokens (Arabic and
// English) to the number of months between installments. Spreadsheets and
// older records use many spellings for the same schedule.
var paymentFrequencySteps = map[string]int{
	"شهري": 1, "MONTHLY": 1, "كل شهر": 1,
	"ربع سنوي": 3, "QUARTERLY": 3, "كل 3 أشهر": 3, "3 أشهر": 3, "3 شهور": 3, "أربع دفعات": 3, "اربع دفعات": 3,
	"3 دفعات": 4, "كل 4 أشهر": 4,
	"نصف سنوي": 6, "HALF_YEARLY": 6, "HALF-YEARLY": 6, "كل 6 أشهر": 6, "6 أشهر": 6, "6 شهور": 6, "دفعتين": 6,
	"سنوي": 12, "YEARLY": 12, "كل سنة": 12, "دفعة واحدة": 12,
}

var frequencyDigits = regexp.MustCompile(`(\d+)`)

// PaymentFrequencyStep resolves a free-text payment frequency into a month
// step. Longer keys win so "ربع سنوي" is not shadowed by "سنوي". When no
// keyword matches, an embedded number in 1..12 is used (e.g. "كل 4 أشهر").
// Returns 0 when the frequency cannot be resolved.
func PaymentFrequencyStep(frequency string) int {
	key := strings.ToUpper(strings.TrimSpace(frequency))
	if key == "" {
		return 0
	}

	keys := make([]string, 0, len(paymentFrequencySteps))
	for k := range paymentFrequencySteps {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, k := range keys {
		upper := strings.ToUpper(k)
		if key == upper || strings.Contains(key, upper) {
			return paymentFrequencySteps[k]
		}
	}

	if m := frequencyDigits.FindString(key); m != "" {
		if n, err := strconv.Atoi(m); err == nil && n > 0 && n <= 12 {
			return n
		}
	}
	return 0
}
