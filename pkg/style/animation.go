package style

import (
	"sort"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Canonical entrance animation names. Exporters translate these into their
// own vocabularies.
var canonicalAnimations = []string{
	"fadeIn", "fadeInUp", "fadeInDown", "fadeInLeft", "fadeInRight",
	"slideInUp", "slideInDown", "slideInLeft", "slideInRight",
	"zoomIn", "zoomInUp", "zoomInDown", "zoomInLeft", "zoomInRight",
	"bounceIn", "bounceInUp", "bounceInDown", "bounceInLeft", "bounceInRight",
	"rotateIn", "flipInX", "flipInY", "lightSpeedIn", "rollIn",
}

var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(canonicalAnimations))
	for _, name := range canonicalAnimations {
		m[animationKey(name)] = name
	}
	return m
}()

// keys ordered longest first so "fadeinup" wins over "fadein".
var canonicalKeys = func() []string {
	keys := make([]string, 0, len(canonicalByKey))
	for k := range canonicalByKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// AnimationNames returns the canonical entrance animation names.
func AnimationNames() []string {
	return append([]string(nil), canonicalAnimations...)
}

// CanonicalAnimation maps an observed animation name ("fade-in-up",
// "animate__fadeInUp", "heroFadeIn") to a canonical name.
func CanonicalAnimation(name string) (string, bool) {
	key := animationKey(name)
	if key == "" {
		return "", false
	}
	if c, ok := canonicalByKey[key]; ok {
		return c, true
	}
	for _, k := range canonicalKeys {
		if strings.Contains(key, k) {
			return canonicalByKey[k], true
		}
	}
	return "", false
}

func animationKey(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "animate__")
	n = strings.TrimPrefix(n, "animate-")
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(n)
}

// EntranceAnimation is an element's first entrance animation. Type is the
// canonical name, or "" when the observed name is unknown; exporters then
// use their default.
type EntranceAnimation struct {
	Name       string `json:"name"`
	Type       string `json:"type,omitempty"`
	DurationMs int    `json:"durationMs,omitempty"`
	DelayMs    int    `json:"delayMs,omitempty"`
	Easing     string `json:"easing,omitempty"`
}

// ExtractEntranceAnimation picks the first recognized animation of the
// behavior descriptor, or the first one at all. An element flagged as
// animated with no named animation still yields a descriptor with an empty
// Type.
func ExtractEntranceAnimation(c *component.ComponentInfo) *EntranceAnimation {
	if c == nil || c.Behavior == nil {
		return nil
	}
	b := c.Behavior
	if len(b.Animations) == 0 {
		if b.HasAnimations {
			return &EntranceAnimation{}
		}
		return nil
	}
	chosen := b.Animations[0]
	for _, a := range b.Animations {
		if _, ok := CanonicalAnimation(a.Name); ok {
			chosen = a
			break
		}
	}
	ea := &EntranceAnimation{Name: chosen.Name}
	ea.Type, _ = CanonicalAnimation(chosen.Name)
	if ms, ok := ParseDurationMs(chosen.Duration); ok {
		ea.DurationMs = ms
	}
	if ms, ok := ParseDurationMs(chosen.Delay); ok {
		ea.DelayMs = ms
	}
	if m := easingPattern.FindStringSubmatch(strings.ToLower(chosen.TimingFunction)); m != nil {
		ea.Easing = m[1]
	}
	return ea
}
