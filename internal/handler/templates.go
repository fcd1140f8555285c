package handler

import (
	"html/template"
	"strconv"
)

// TemplateFuncs returns the functions available to every page.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// coord formats a latitude or longitude with the lookup API's precision.
		"coord": func(f float64) string {
			return strconv.FormatFloat(f, 'f', 6, 64)
		},
		"plural": plural,
	}
}

// plural renders "1 address" or "3 addresses".
func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + pluralForm
}
