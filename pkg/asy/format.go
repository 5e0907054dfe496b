package asy

import (
	"fmt"
	"strconv"
)

// FormatNumber renders x for the emitted script. With a positive
// accuracy it is fixed point with that many decimals and a sign slot, so
// " 1.50" and "-1.50" line up. Otherwise it uses the general format with
// six significant digits and no trailing zeros.
func FormatNumber(x float64, accuracy int) string {
	if accuracy > 0 {
		return fmt.Sprintf("% .*f", accuracy, x)
	}
	return strconv.FormatFloat(x, 'g', 6, 64)
}

// FormatPair renders "(x, y)" using FormatNumber for both components.
func FormatPair(x, y float64, accuracy int) string {
	return "(" + FormatNumber(x, accuracy) + ", " + FormatNumber(y, accuracy) + ")"
}
