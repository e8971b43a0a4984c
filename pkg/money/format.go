package money

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const rupeeSign = "₹"

// indian groups the last three digits, then every two: 12,34,567.
var indian = message.NewPrinter(language.Make("en-IN"))

// FormatINR renders paise as "₹1,23,456.78" using Indian digit grouping.
func FormatINR(p Paise) string {
	neg := p < 0
	if neg {
		p = -p
	}
	whole := int64(p) / 100
	frac := int64(p) % 100

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(rupeeSign)
	b.WriteString(groupIndian(whole))
	b.WriteByte('.')
	if frac < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(frac, 10))
	return b.String()
}

// FormatINRRounded renders the amount rounded to whole rupees, without paise.
func FormatINRRounded(p Paise) string {
	whole := (int64(p) + 50) / 100
	if p < 0 {
		whole = (int64(p) - 50) / 100
	}
	if whole < 0 {
		return "-" + rupeeSign + groupIndian(-whole)
	}
	return rupeeSign + groupIndian(whole)
}

func groupIndian(n int64) string {
	return indian.Sprintf("%d", n)
}
