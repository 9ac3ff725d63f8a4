package module

import (
	"fmt"
	"strings"

	errors "github.com/zgalor/weberr"
)

// ArgStyle selects how a parameter value is rendered into command-line
// tokens by command-wrapping modules.
type ArgStyle int

const (
	// StyleBoolean emits the templates verbatim when the value is truthy
	// and nothing otherwise.
	StyleBoolean ArgStyle = iota
	// StylePrintf substitutes the value into templates carrying a fmt verb;
	// templates without one pass through verbatim.
	StylePrintf
	// StyleFormat substitutes the value for the "{0}" placeholder;
	// templates without one pass through verbatim.
	StyleFormat
)

// ArgFormat renders one named parameter into zero or more command-line
// arguments. Either Templates with a Style, or a custom Func, drive the
// rendering.
type ArgFormat struct {
	Name      string
	Style     ArgStyle
	Templates []string
	Func      func(value interface{}) []string
}

func NewArgFormat(name string, style ArgStyle, templates ...string) (*ArgFormat, error) {
	if len(templates) == 0 {
		return nil, errors.BadRequest.UserErrorf("argument format '%s' needs at least one template", name)
	}
	return &ArgFormat{Name: name, Style: style, Templates: templates}, nil
}

func NewArgFormatFunc(name string, f func(value interface{}) []string) (*ArgFormat, error) {
	if f == nil {
		return nil, errors.BadRequest.UserErrorf("argument format '%s' needs a render function", name)
	}
	return &ArgFormat{Name: name, Func: f}, nil
}

// Render produces the argument tokens for value. A nil value always
// renders to nothing, regardless of style.
func (a *ArgFormat) Render(value interface{}) []string {
	if value == nil {
		return []string{}
	}
	if a.Func != nil {
		return a.Func(value)
	}

	switch a.Style {
	case StyleBoolean:
		if truthy(value) {
			return append([]string{}, a.Templates...)
		}
		return []string{}
	case StylePrintf:
		out := make([]string, 0, len(a.Templates))
		for _, template := range a.Templates {
			if strings.Contains(template, "%") {
				out = append(out, fmt.Sprintf(template, value))
			} else {
				out = append(out, template)
			}
		}
		return out
	case StyleFormat:
		out := make([]string, 0, len(a.Templates))
		for _, template := range a.Templates {
			out = append(out, strings.ReplaceAll(template, "{0}", fmt.Sprintf("%v", value)))
		}
		return out
	}
	return []string{}
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case float64:
		return v != 0
	}
	return true
}
