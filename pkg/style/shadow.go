package style

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// BoxShadow is one parsed box-shadow layer. Lengths are in px.
type BoxShadow struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
	Blur       float64 `json:"blur"`
	Spread     float64 `json:"spread"`
	Color      string  `json:"color"`
	Inset      bool    `json:"inset,omitempty"`
}

// CSS renders the shadow back to a declaration value.
func (b BoxShadow) CSS() string {
	parts := []string{
		FormatNumber(b.Horizontal) + "px",
		FormatNumber(b.Vertical) + "px",
		FormatNumber(b.Blur) + "px",
		FormatNumber(b.Spread) + "px",
		b.Color,
	}
	if b.Inset {
		parts = append([]string{"inset"}, parts...)
	}
	return strings.Join(parts, " ")
}

var (
	shadowLength = regexp.MustCompile(`^-?\d*\.?\d+(?:px)?$`)
	// A number with any other unit (em, rem, %) cannot be stored in px.
	shadowOtherUnit = regexp.MustCompile(`^-?\d*\.?\d+[a-z%]+$`)
)

// ParseBoxShadow parses the first layer of a box-shadow value. Both the
// authored order ("0 4px 6px -1px rgba(0,0,0,.1)") and the computed-style
// order with the color first are accepted. A missing color means
// currentcolor. "none", non-px lengths and garbage yield ok=false.
func ParseBoxShadow(value any) (BoxShadow, bool) {
	switch v := value.(type) {
	case string:
		return parseShadowString(v)
	case map[string]any:
		return parseShadowObject(v)
	}
	return BoxShadow{}, false
}

func parseShadowString(s string) (BoxShadow, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return BoxShadow{}, false
	}
	layer := strings.Join(strings.Fields(splitTopLevel(s, ',')[0]), " ")

	var (
		b      BoxShadow
		nums   []float64
		color  string
		closed bool // a color followed the lengths
	)
	for _, tok := range splitTopLevel(layer, ' ') {
		switch {
		case tok == "":
			continue
		case tok == "inset":
			b.Inset = true
		case shadowLength.MatchString(tok):
			// Lengths are one contiguous run.
			if closed {
				return BoxShadow{}, false
			}
			f, err := strconv.ParseFloat(strings.TrimSuffix(tok, "px"), 64)
			if err != nil {
				return BoxShadow{}, false
			}
			nums = append(nums, f)
		case shadowOtherUnit.MatchString(tok):
			return BoxShadow{}, false
		default:
			if color != "" {
				return BoxShadow{}, false
			}
			color = tok
			closed = len(nums) > 0
		}
	}
	if len(nums) < 2 || len(nums) > 4 {
		return BoxShadow{}, false
	}

	var vals [4]float64
	copy(vals[:], nums)
	b.Horizontal, b.Vertical, b.Blur, b.Spread = vals[0], vals[1], vals[2], vals[3]
	switch c, ok := NormalizeColor(color); {
	case color == "":
		b.Color = "currentcolor"
	case ok:
		b.Color = c
	default:
		b.Color = color
	}
	return b, true
}

func parseShadowObject(obj map[string]any) (BoxShadow, bool) {
	var b BoxShadow
	found := false
	for key, dst := range map[string]*float64{"horizontal": &b.Horizontal, "vertical": &b.Vertical, "blur": &b.Blur, "spread": &b.Spread} {
		if raw, ok := obj[key]; ok {
			n, ok := toFloat(raw)
			if !ok {
				return BoxShadow{}, false
			}
			*dst = n
			found = true
		}
	}
	if !found {
		return BoxShadow{}, false
	}
	if c, ok := obj["color"].(string); ok {
		b.Color = MustColor(c)
	}
	if inset, ok := obj["inset"].(bool); ok {
		b.Inset = inset
	}
	return b, true
}

// ExtractBoxShadow parses the component's box-shadow, if any.
func ExtractBoxShadow(c *component.ComponentInfo) *BoxShadow {
	if c == nil {
		return nil
	}
	raw, ok := c.Styles.Raw("boxShadow")
	if !ok {
		return nil
	}
	if b, ok := ParseBoxShadow(raw); ok {
		return &b
	}
	return nil
}
