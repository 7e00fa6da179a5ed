package style

import (
	"github.com/gnana997/wpexport/pkg/component"
)

// DeviceOverride is the partial style set a breakpoint changes relative to
// desktop.
type DeviceOverride struct {
	Styles map[string]string `json:"styles,omitempty"`
	Hidden bool              `json:"hidden,omitempty"`
}

// AsStyles wraps the override so the regular parsers can read it.
func (d *DeviceOverride) AsStyles() component.Styles {
	if d == nil {
		return nil
	}
	out := make(component.Styles, len(d.Styles))
	for k, v := range d.Styles {
		out[k] = v
	}
	return out
}

// ResponsiveSettings holds tablet and mobile overrides and visibility.
type ResponsiveSettings struct {
	HideDesktop bool            `json:"hideDesktop,omitempty"`
	Tablet      *DeviceOverride `json:"tablet,omitempty"`
	Mobile      *DeviceOverride `json:"mobile,omitempty"`
}

// Device returns the override for a breakpoint, or nil.
func (r *ResponsiveSettings) Device(bp component.Breakpoint) *DeviceOverride {
	if r == nil {
		return nil
	}
	switch bp {
	case component.BreakpointTablet:
		return r.Tablet
	case component.BreakpointMobile:
		return r.Mobile
	}
	return nil
}

// Hidden reports whether the element is hidden at a breakpoint.
func (r *ResponsiveSettings) Hidden(bp component.Breakpoint) bool {
	if r == nil {
		return false
	}
	if bp == component.BreakpointDesktop {
		return r.HideDesktop
	}
	d := r.Device(bp)
	return d != nil && d.Hidden
}

// DesktopStyles returns the component's desktop styles: the base styles
// overlaid with an explicit desktop bucket when one exists.
func DesktopStyles(c *component.ComponentInfo) component.Styles {
	if c == nil {
		return nil
	}
	bucket := c.Responsive[component.BreakpointDesktop]
	if len(bucket) == 0 {
		return c.Styles
	}
	merged := make(component.Styles, len(c.Styles)+len(bucket))
	for k, v := range c.Styles {
		merged[component.CamelCase(k)] = v
	}
	for k, v := range bucket {
		merged[component.CamelCase(k)] = v
	}
	return merged
}

// ExtractResponsiveSettings diffs the tablet and mobile buckets against
// desktop. Only differing fields are kept; display:none becomes the Hidden
// flag. Returns nil when no breakpoint changes anything.
func ExtractResponsiveSettings(c *component.ComponentInfo) *ResponsiveSettings {
	if c == nil {
		return nil
	}
	desktop := DesktopStyles(c)
	r := &ResponsiveSettings{
		HideDesktop: desktop.Get("display") == "none",
		Tablet:      deviceOverride(desktop, c.Responsive[component.BreakpointTablet]),
		Mobile:      deviceOverride(desktop, c.Responsive[component.BreakpointMobile]),
	}
	if !r.HideDesktop && r.Tablet == nil && r.Mobile == nil {
		return nil
	}
	return r
}

func deviceOverride(desktop, bucket component.Styles) *DeviceOverride {
	if len(bucket) == 0 {
		return nil
	}
	diff := desktop.Diff(bucket)
	o := &DeviceOverride{Hidden: bucket.Get("display") == "none"}
	delete(diff, "display")
	if len(diff) > 0 {
		o.Styles = diff
	}
	if !o.Hidden && o.Styles == nil {
		return nil
	}
	return o
}
