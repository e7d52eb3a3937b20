// Package flags holds the compiler flag set threaded through every stage of
// the transpiler (spec §3 "Compiler flags"), plus the fixed void/literal tag
// sets and the doctype table.
package flags

// Flags are the compiler options threaded through the pipeline. A `doctype
// xml` line re-sets Properties, VoidSelfClose, ContainerSelfClose and
// KebabCase at compile time (see SetXML); the other flags keep their values.
type Flags struct {
	Extension          string
	BaseDir            string
	Properties         bool
	VoidSelfClose       bool
	ContainerSelfClose bool
	KebabCase          bool
	ErrorContext       int

	// XML is set true by `doctype xml` and is not user-settable up front;
	// it forces VoidSelfClose/ContainerSelfClose true and
	// Properties/KebabCase false for subsequent emission (spec §3 "XML mode").
	XML bool
}

// Default returns the spec's documented defaults.
func Default() Flags {
	return Flags{
		Extension:          "pug",
		BaseDir:            "",
		Properties:         true,
		VoidSelfClose:       false,
		ContainerSelfClose: false,
		KebabCase:          true,
		ErrorContext:       2,
	}
}

// SetXML forces the XML-mode flag combination described in spec §3.
func (f *Flags) SetXML() {
	f.XML = true
	f.VoidSelfClose = true
	f.ContainerSelfClose = true
	f.Properties = false
	f.KebabCase = false
}

// VoidTags is the fixed void-tag set (spec §3).
var VoidTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// LiteralTags is the fixed literal-tag set (spec §3): any ancestor in this
// set suppresses indentation in emitted output.
var LiteralTags = map[string]bool{
	"pre": true, "code": true, "textarea": true, "xmp": true,
}

// doctypes is the closed shorthand→literal mapping (spec §3).
var doctypes = map[string]string{
	"html":         "<!DOCTYPE html>",
	"5":            "<!DOCTYPE html>",
	"xml":          `<?xml version="1.0" encoding="utf-8" ?>`,
	"transitional": `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">`,
	"strict":       `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Strict//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-strict.dtd">`,
	"frameset":     `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Frameset//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-frameset.dtd">`,
	"1.1":          `<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.1//EN" "http://www.w3.org/TR/xhtml11/DTD/xhtml11.dtd">`,
	"basic":        `<!DOCTYPE html PUBLIC "-//WAPFORUM//DTD XHTML Basic 1.1//EN" "http://www.openmobilealliance.org/tech/DTD/xhtml-basic11.dtd">`,
	"mobile":       `<!DOCTYPE html PUBLIC "-//WAPFORUM//DTD XHTML Mobile 1.2//EN" "http://www.openmobilealliance.org/tech/DTD/xhtml-mobile12.dtd">`,
	"plist":        `<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">`,
	"svg1.1":       `<!DOCTYPE svg PUBLIC "-//W3C//DTD SVG 1.1//EN" "http://www.w3.org/Graphics/SVG/1.1/DTD/svg11.dtd">`,
	"smil1":        `<!DOCTYPE smil PUBLIC "-//W3C//DTD SMIL 1.0//EN" "http://www.w3.org/TR/REC-smil/SMIL10.dtd">`,
	"smil2":        `<!DOCTYPE smil PUBLIC "-//W3C//DTD SMIL 2.0//EN" "http://www.w3.org/TR/SMIL2/SMIL20.dtd">`,
}

// Doctype resolves a doctype shorthand to its literal string. Anything not
// in the closed table is rendered verbatim as `<!DOCTYPE {kind}>`.
func Doctype(kind string) string {
	if d, ok := doctypes[kind]; ok {
		return d
	}
	return "<!DOCTYPE " + kind + ">"
}

// IsXMLDoctype reports whether the given doctype shorthand toggles XML mode.
func IsXMLDoctype(kind string) bool {
	return kind == "xml"
}
