package table

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/userfetcher/internal/client/models"
)

// text renders a raw JSON value for display. Missing and null are N/A.
func text(v any) string {
	switch x := v.(type) {
	case nil:
		return models.NotAvailable
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "True"
		}
		return "False"
	default:
		return fmt.Sprint(x)
	}
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func object(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case map[string]any:
		return x, true
	case models.User:
		return x, true
	default:
		return nil, false
	}
}

func list(v any) []any {
	l, _ := v.([]any)
	return l
}

// nonEmptyString reports v as a string when it is one and not blank.
func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

// formatLevel rounds to two decimals and always shows a fractional part,
// so 4 renders as "4.0" and 4.256 as "4.26".
func formatLevel(v float64) (string, float64) {
	r := math.Round(v*100) / 100
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s, r
}
