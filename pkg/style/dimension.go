package style

import (
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Dimension is a four-sided box value (padding, margin, border width,
// border radius).
type Dimension struct {
	Top      float64 `json:"top"`
	Right    float64 `json:"right"`
	Bottom   float64 `json:"bottom"`
	Left     float64 `json:"left"`
	Unit     string  `json:"unit"`
	IsLinked bool    `json:"isLinked"`
}

// IsZero reports whether all four sides are zero.
func (d Dimension) IsZero() bool {
	return d.Top == 0 && d.Right == 0 && d.Bottom == 0 && d.Left == 0
}

// Uniform reports whether all four sides are equal.
func (d Dimension) Uniform() bool {
	return d.Top == d.Right && d.Right == d.Bottom && d.Bottom == d.Left
}

// Sides returns the values in top, right, bottom, left order.
func (d Dimension) Sides() [4]float64 {
	return [4]float64{d.Top, d.Right, d.Bottom, d.Left}
}

// CSS renders the dimension as a shorthand.
func (d Dimension) CSS() string {
	if d.Uniform() {
		return FormatNumber(d.Top) + d.Unit
	}
	parts := make([]string, 0, 4)
	for _, v := range d.Sides() {
		parts = append(parts, FormatNumber(v)+d.Unit)
	}
	return strings.Join(parts, " ")
}

// ParseDimension parses a CSS box shorthand or an explicit
// {top,right,bottom,left} object.
//
//   - one token ("10px") sets all sides and links them
//   - two or three tokens follow CSS shorthand expansion, unlinked
//   - four tokens set top/right/bottom/left independently, unlinked
//   - an object passes through unchanged
//
// The unit defaults to px. Any unparseable token rejects the whole value.
func ParseDimension(value any) (Dimension, bool) {
	switch v := value.(type) {
	case nil:
		return Dimension{}, false
	case string:
		return parseDimensionString(v)
	case map[string]any:
		return parseDimensionObject(v)
	case Dimension:
		return v, true
	default:
		if n, ok := toFloat(v); ok {
			return Dimension{Top: n, Right: n, Bottom: n, Left: n, Unit: DefaultUnit, IsLinked: true}, true
		}
	}
	return Dimension{}, false
}

func parseDimensionString(s string) (Dimension, bool) {
	tokens := strings.Fields(strings.TrimSpace(s))
	if len(tokens) == 0 || len(tokens) > 4 {
		return Dimension{}, false
	}
	sizes := make([]Size, len(tokens))
	for i, tok := range tokens {
		sz, ok := ParseSize(tok)
		if !ok {
			return Dimension{}, false
		}
		sizes[i] = sz
	}

	unit, ok := sharedUnit(sizes)
	if !ok {
		return Dimension{}, false
	}
	d := Dimension{Unit: unit}
	switch len(sizes) {
	case 1:
		v := sizes[0].Value
		d.Top, d.Right, d.Bottom, d.Left = v, v, v, v
		d.IsLinked = true
	case 2:
		d.Top, d.Bottom = sizes[0].Value, sizes[0].Value
		d.Right, d.Left = sizes[1].Value, sizes[1].Value
	case 3:
		d.Top = sizes[0].Value
		d.Right, d.Left = sizes[1].Value, sizes[1].Value
		d.Bottom = sizes[2].Value
	case 4:
		d.Top, d.Right, d.Bottom, d.Left = sizes[0].Value, sizes[1].Value, sizes[2].Value, sizes[3].Value
	}
	return d, true
}

// sharedUnit returns the one unit every non-zero side uses. Zero fits any
// unit, so "0 1em" is 1em horizontally. Mixed units cannot be stored in a
// single-unit Dimension and are rejected.
func sharedUnit(sizes []Size) (string, bool) {
	unit := ""
	for _, sz := range sizes {
		if sz.Value == 0 {
			continue
		}
		if unit == "" {
			unit = sz.Unit
		} else if sz.Unit != unit {
			return "", false
		}
	}
	if unit == "" {
		unit = sizes[0].Unit
	}
	return unit, true
}

func parseDimensionObject(obj map[string]any) (Dimension, bool) {
	d := Dimension{Unit: DefaultUnit}
	found := false
	for key, dst := range map[string]*float64{"top": &d.Top, "right": &d.Right, "bottom": &d.Bottom, "left": &d.Left} {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		n, ok := toFloat(raw)
		if !ok {
			return Dimension{}, false
		}
		*dst = n
		found = true
	}
	if !found {
		return Dimension{}, false
	}
	if u, ok := obj["unit"].(string); ok && u != "" {
		d.Unit = u
	}
	if linked, ok := obj["isLinked"].(bool); ok {
		d.IsLinked = linked
	}
	return d, true
}

// BoxModel holds the parsed spacing and border geometry of an element.
type BoxModel struct {
	Padding      *Dimension `json:"padding,omitempty"`
	Margin       *Dimension `json:"margin,omitempty"`
	BorderWidth  *Dimension `json:"borderWidth,omitempty"`
	BorderRadius *Dimension `json:"borderRadius,omitempty"`
}

// IsZero reports whether nothing was extracted.
func (b BoxModel) IsZero() bool {
	return b.Padding == nil && b.Margin == nil && b.BorderWidth == nil && b.BorderRadius == nil
}

// ExtractBoxModel parses padding, margin, border-width and border-radius of
// a component. Shorthands win; otherwise per-side longhands are combined.
func ExtractBoxModel(c *component.ComponentInfo) BoxModel {
	if c == nil {
		return BoxModel{}
	}
	return BoxModelFromStyles(c.Styles)
}

// BoxModelFromStyles is ExtractBoxModel over a bare style map.
func BoxModelFromStyles(s component.Styles) BoxModel {
	return BoxModel{
		Padding:      sideValue(s, "padding", "padding%s"),
		Margin:       sideValue(s, "margin", "margin%s"),
		BorderWidth:  sideValue(s, "borderWidth", "border%sWidth"),
		BorderRadius: radiusValue(s),
	}
}

func sideValue(s component.Styles, shorthand, longhand string) *Dimension {
	if raw, ok := s.Raw(shorthand); ok {
		if d, ok := ParseDimension(raw); ok {
			return &d
		}
	}
	return fromLonghands(s, longhand, [4]string{"Top", "Right", "Bottom", "Left"})
}

func radiusValue(s component.Styles) *Dimension {
	if raw, ok := s.Raw("borderRadius"); ok {
		if d, ok := ParseDimension(raw); ok {
			return &d
		}
	}
	return fromLonghands(s, "border%sRadius", [4]string{"TopLeft", "TopRight", "BottomRight", "BottomLeft"})
}

func fromLonghands(s component.Styles, pattern string, sides [4]string) *Dimension {
	var vals [4]float64
	unit := ""
	found := false
	for i, side := range sides {
		raw := s.Get(strings.Replace(pattern, "%s", side, 1))
		if raw == "" {
			continue
		}
		sz, ok := ParseSize(raw)
		if !ok {
			return nil
		}
		vals[i] = sz.Value
		if unit == "" {
			unit = sz.Unit
		}
		found = true
	}
	if !found {
		return nil
	}
	d := Dimension{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3], Unit: unit}
	d.IsLinked = d.Uniform()
	return &d
}
