package formatter

import "strconv"

// FormatNumber renders n with commas as thousands separators, for
// human-facing notification text. Example: 1234567 -> "1,234,567".
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	neg := ""
	if n < 0 {
		neg = "-"
		s = s[1:]
	}

	if len(s) <= 3 {
		return neg + s
	}

	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	return neg + string(out)
}
