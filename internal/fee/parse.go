// Package fee turns scraped tuition text into numeric amounts and fee bands.
package fee

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/user/tcas-fee-crawler/pkg/utils"
)

var (
	amountPattern    = regexp.MustCompile(`^\d+(\.\d+)?$`)
	thousandsPattern = regexp.MustCompile(`(\d),(\d{3})\b`)
)

// noise is stripped before matching. Longer phrases come first so that
// "ต่อภาคการศึกษา" is removed before "ภาคการศึกษา" could be.
var noise = []string{
	"ค่าธรรมเนียมการศึกษา",
	"ค่าเล่าเรียน",
	"ค่าใช้จ่าย",
	"ต่อภาคการศึกษา",
	"/ภาคการศึกษา",
	"ภาคการศึกษาละ",
	"ต่อเทอม",
	"/เทอม",
	"เทอมละ",
	"per semester",
	"per term",
	"/semester",
	"/term",
	"baht",
	"thb",
	"บาท",
	"฿",
	":",
}

// Parse returns the numeric amount in raw when, after removing thousands
// separators, currency words and per-term qualifiers, a single integer or
// decimal number remains. Separate numbers are never joined into one.
func Parse(raw string) (float64, bool) {
	s := strings.ToLower(raw)
	for {
		next := thousandsPattern.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	for _, n := range noise {
		s = strings.ReplaceAll(s, n, " ")
	}
	fields := strings.Fields(s)
	if len(fields) != 1 || !amountPattern.MatchString(fields[0]) {
		return 0, false
	}
	s = fields[0]
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsLink reports whether raw is an absolute http(s) URL that can be rendered
// as a clickable reference.
func IsLink(raw string) bool {
	return utils.IsAbsoluteHTTPURL(raw)
}

var printer = message.NewPrinter(language.English)

// Format renders an amount with thousands separators, e.g. "15,000 บาท".
func Format(v float64) string {
	return printer.Sprintf("%.0f บาท", v)
}
