package builder

import (
	"regexp"
	"strings"

	"github.com/gnana997/wpexport/pkg/component"
)

// Kind is the builder-neutral role of a node, resolved from its component
// type, tag and classes.
type Kind string

const (
	KindSection   Kind = "section"
	KindContainer Kind = "container"
	KindRow       Kind = "row"
	KindColumn    Kind = "column"
	KindHeading   Kind = "heading"
	KindText      Kind = "text"
	KindButton    Kind = "button"
	KindLink      Kind = "link"
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindAudio     Kind = "audio"
	KindMap       Kind = "map"
	KindEmbed     Kind = "embed"
	KindIcon      Kind = "icon"
	KindList      Kind = "list"
	KindNav       Kind = "navigation"
	KindForm      Kind = "form"
	KindQuote     Kind = "quote"
	KindCode      Kind = "code"
	KindTable     Kind = "table"
	KindDivider   Kind = "divider"
	KindSpacer    Kind = "spacer"
	KindHTML      Kind = "html"
)

// Structural reports kinds that hold other nodes (sections, rows, columns,
// containers) rather than being placed as a single widget.
func (k Kind) Structural() bool {
	switch k {
	case KindSection, KindContainer, KindRow, KindColumn:
		return true
	}
	return false
}

// Rule is one {pattern, result} entry of an ordered heuristic table.
type Rule struct {
	Name   string
	Match  func(*component.ComponentInfo) bool
	Result Kind
}

// Tags matches any of the tags.
func Tags(tags ...string) func(*component.ComponentInfo) bool {
	return component.IsTag(tags...)
}

// ClassPattern matches the class attribute against a regexp.
func ClassPattern(expr string) func(*component.ComponentInfo) bool {
	re := regexp.MustCompile(expr)
	return func(c *component.ComponentInfo) bool {
		return c.ClassName != "" && re.MatchString(strings.ToLower(c.ClassName))
	}
}

// All combines predicates with AND.
func All(preds ...func(*component.ComponentInfo) bool) func(*component.ComponentInfo) bool {
	return func(c *component.ComponentInfo) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}

var (
	videoHost = regexp.MustCompile(`youtube\.com|youtu\.be|vimeo\.com|dailymotion\.com`)
	mapHost   = regexp.MustCompile(`google\.[a-z.]+/maps|maps\.google|openstreetmap\.org`)
)

func iframeMatching(re *regexp.Regexp) func(*component.ComponentInfo) bool {
	return func(c *component.ComponentInfo) bool {
		return c.Tag() == "iframe" && re.MatchString(strings.ToLower(c.Attr("src")))
	}
}

func leafWithText(c *component.ComponentInfo) bool {
	return c.IsLeaf() && strings.TrimSpace(c.TextContent) != ""
}

func emptyBox(c *component.ComponentInfo) bool {
	return c.IsLeaf() && strings.TrimSpace(c.TextContent) == "" && c.InnerHTML == "" &&
		(c.Styles.Has("height") || c.Styles.Has("minHeight"))
}

// TypeKinds maps componentType values to kinds. It is consulted before the
// heuristic rules.
var TypeKinds = map[string]Kind{
	"section":    KindSection,
	"hero":       KindSection,
	"header":     KindSection,
	"footer":     KindSection,
	"container":  KindContainer,
	"card":       KindContainer,
	"wrapper":    KindContainer,
	"group":      KindContainer,
	"row":        KindRow,
	"columns":    KindRow,
	"grid":       KindRow,
	"column":     KindColumn,
	"heading":    KindHeading,
	"title":      KindHeading,
	"text":       KindText,
	"paragraph":  KindText,
	"button":     KindButton,
	"cta":        KindButton,
	"link":       KindLink,
	"image":      KindImage,
	"video":      KindVideo,
	"audio":      KindAudio,
	"map":        KindMap,
	"embed":      KindEmbed,
	"icon":       KindIcon,
	"list":       KindList,
	"navigation": KindNav,
	"nav":        KindNav,
	"menu":       KindNav,
	"form":       KindForm,
	"quote":      KindQuote,
	"code":       KindCode,
	"table":      KindTable,
	"divider":    KindDivider,
	"separator":  KindDivider,
	"spacer":     KindSpacer,
	"html":       KindHTML,
}

// Rules is the ordered heuristic table used when the component type is
// unknown. The first matching rule wins.
var Rules = []Rule{
	{"heading tag", Tags("h1", "h2", "h3", "h4", "h5", "h6"), KindHeading},
	{"button tag", Tags("button"), KindButton},
	{"button class", All(Tags("a", "input"), ClassPattern(`\b(btn|button|cta)\b`)), KindButton},
	{"image tag", Tags("img", "picture"), KindImage},
	{"video tag", Tags("video"), KindVideo},
	{"video iframe", iframeMatching(videoHost), KindVideo},
	{"map iframe", iframeMatching(mapHost), KindMap},
	{"iframe", Tags("iframe"), KindEmbed},
	{"audio tag", Tags("audio"), KindAudio},
	{"divider tag", Tags("hr"), KindDivider},
	{"nav tag", Tags("nav"), KindNav},
	{"menu class", All(Tags("ul", "div"), ClassPattern(`\b(nav|menu|navbar)\b`)), KindNav},
	{"list tag", Tags("ul", "ol", "dl"), KindList},
	{"form tag", Tags("form"), KindForm},
	{"field tag", Tags("input", "textarea", "select"), KindForm},
	{"quote tag", Tags("blockquote"), KindQuote},
	{"code tag", Tags("pre", "code"), KindCode},
	{"table tag", Tags("table"), KindTable},
	{"icon", All(Tags("i", "svg", "span"), ClassPattern(`\b(fa[srb]?|fa-[a-z-]+|dashicons[a-z-]*|icon[a-z-]*|bi-[a-z-]+)\b`)), KindIcon},
	{"svg tag", Tags("svg"), KindIcon},
	{"column class", ClassPattern(`(^|\s)(col|col-[a-z0-9-]+|column|columns__item|wp-block-column)(\s|$)`), KindColumn},
	{"row class", ClassPattern(`(^|\s)(row|columns|wp-block-columns)(\s|$)`), KindRow},
	{"section tag", Tags("section", "header", "footer", "main", "article", "aside"), KindSection},
	{"paragraph tag", Tags("p"), KindText},
	{"link tag", Tags("a"), KindLink},
	{"inline text", All(Tags("span", "strong", "em", "b", "i", "small", "label", "li"), leafWithText), KindText},
	{"text box", All(Tags("div"), leafWithText), KindText},
	{"spacer box", All(Tags("div"), emptyBox), KindSpacer},
	{"script", Tags("script", "noscript", "style", "template"), KindHTML},
}

// Classify resolves the kind of a node: componentType first, then the
// ordered rules, then the generic container.
func Classify(c *component.ComponentInfo) Kind {
	k, _ := ClassifyRule(c)
	return k
}

// ClassifyRule is Classify that also names the deciding rule ("type" for
// a componentType hit, "fallback" when nothing matched).
func ClassifyRule(c *component.ComponentInfo) (Kind, string) {
	if c == nil {
		return KindContainer, "fallback"
	}
	if k, ok := TypeKinds[c.Type()]; ok {
		// a heading type on a non-heading tag stays a heading; a text type
		// with structural children is really a container.
		if k == KindText && !c.IsLeaf() && hasStructuralChild(c) {
			return KindContainer, "type"
		}
		return k, "type"
	}
	for _, r := range Rules {
		if r.Match(c) {
			return r.Result, r.Name
		}
	}
	if c.IsLeaf() && c.InnerHTML != "" {
		return KindHTML, "fallback"
	}
	return KindContainer, "fallback"
}

func hasStructuralChild(c *component.ComponentInfo) bool {
	for _, child := range c.Children {
		if k := Classify(child); k.Structural() {
			return true
		}
	}
	return false
}

// NativeTable maps kinds to a target's native element names. Fallback is
// used for kinds the target has no entry for.
type NativeTable struct {
	Natives  map[Kind]string
	Types    map[string]string
	Fallback string
}

// Resolve returns the native element name for a node: an exact
// componentType entry, then the native for its kind, then Fallback. The
// bool reports whether the fallback was used.
func (t NativeTable) Resolve(c *component.ComponentInfo, k Kind) (string, bool) {
	if name, ok := t.Types[c.Type()]; ok {
		return name, false
	}
	if name, ok := t.Natives[k]; ok {
		return name, false
	}
	return t.Fallback, true
}
