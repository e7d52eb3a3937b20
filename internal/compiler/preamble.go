package compiler

import (
	"fmt"
	"strings"

	"github.com/cruffinoni/pugc/internal/flags"
)

// buildPreamble renders the fixed host-script preamble (spec §4.5 item 1):
// runtime helper functions whose names spec.md §4.5/§8 fixes
// (out_attr/out_class/out_style/out_enc/out_merged_attrs), plus two helpers
// this module's host-script convention (SPEC_FULL.md §0) needs that spec.md
// only implies: tabs() for mixin pretty-printing (spec §3 "Mixin frame") and
// out_attrs_from_dict() to flatten an &attributes(...) merge result back
// into markup (spec §4.5 "&attributes(expr) merge"). Bodies assume the host
// runtime exposes three primitives beyond the array/dict literal syntax
// SPEC_FULL.md §0 already fixes: typeof(value), returning one of
// "null"/"bool"/"string"/"array"/"dict"; chars(s), iterating a string one
// character at a time; and lower(ch), lower-casing a single character.
//
// The properties flag is baked in directly since it never changes within
// one compiled artifact (it is a compile-time flag, spec §3).
func buildPreamble(fl flags.Flags) string {
	propertiesLiteral := "false"
	if fl.Properties {
		propertiesLiteral = "true"
	}

	return fmt.Sprintf(`function out_enc(s) {
  var out = "";
  for (var ch in chars(s)) {
    if (ch == "&") { out = out + "&amp;"; }
    elseif (ch == "<") { out = out + "&lt;"; }
    elseif (ch == ">") { out = out + "&gt;"; }
    elseif (ch == "\"") { out = out + "&quot;"; }
    elseif (ch == "'") { out = out + "&#39;"; }
    else { out = out + ch; }
  }
  return out;
}

function tabs(n) {
  var out = "";
  var i = 0;
  while (i < n) { out = out + "\t"; i = i + 1; }
  return out;
}

function out_attr(key, value, escape_flag) {
  if (typeof(value) == "null") { return ""; }
  if (typeof(value) == "bool") {
    if (!value) { return ""; }
    if (%s) { return " " + key; }
    return " " + key + "=\"" + key + "\"";
  }
  if (key == "class") { return " class=\"" + out_class(value) + "\""; }
  if (key == "style") { return " style=\"" + out_style(value) + "\""; }
  var v = value;
  if (escape_flag) { v = out_enc(v); }
  return " " + key + "=\"" + v + "\"";
}

function out_class(value) {
  var seen = @{};
  var tokens = @[];
  flatten_class(value, seen, tokens);
  return tokens.join(" ");
}

function flatten_class(value, seen, tokens) {
  if (typeof(value) == "null") { return; }
  if (typeof(value) == "string") {
    for (var tok in value.split(" ")) {
      if (tok != "" && !seen[tok]) { seen[tok] = true; tokens.push(tok); }
    }
    return;
  }
  if (typeof(value) == "array") {
    for (var item in value) { flatten_class(item, seen, tokens); }
    return;
  }
  if (typeof(value) == "dict") {
    for (var key in value) {
      if (value[key]) { flatten_class(key, seen, tokens); }
    }
  }
}

function out_style(value) {
  if (typeof(value) == "string") { return value; }
  var parts = @[];
  for (var key in value) {
    parts.push(css_key(key) + ": " + value[key]);
  }
  return parts.join("; ");
}

function css_key(key) {
  var out = "";
  for (var ch in chars(key)) {
    if (ch >= "A" && ch <= "Z") { out = out + "-" + lower(ch); }
    else { out = out + ch; }
  }
  return out;
}

function out_merged_attrs(inline_dict, runtime_dict) {
  var out = @{};
  for (var key in inline_dict) { out[key] = inline_dict[key]; }
  for (var key in runtime_dict) {
    if (key == "class") { out["class"] = @[out["class"], runtime_dict["class"]]; }
    elseif (key == "style") { out["style"] = merge_style(out["style"], runtime_dict["style"]); }
    else { out[key] = runtime_dict[key]; }
  }
  return out;
}

function merge_style(a, b) {
  var as = out_style(a);
  var bs = out_style(b);
  if (as == "") { return bs; }
  if (bs == "") { return as; }
  return as + "; " + bs;
}

function out_attrs_from_dict(dict) {
  var out = "";
  for (var key in dict) {
    out = out + out_attr(key, dict[key], true);
  }
  return out;
}
`, propertiesLiteral)
}

// buildEpilogue wraps body in the try/catch that traps runtime failures and
// tags them with the last emitted source coordinate (spec §4.7).
func buildEpilogue(body string) string {
	var b strings.Builder
	b.WriteString("function render($data) {\n")
	b.WriteString("  var pug_html = @[];\n")
	b.WriteString("  var src_line = 0;\n")
	b.WriteString("  var src_path = \"\";\n")
	b.WriteString("  try {\n")
	writeIndented(&b, body, "    ")
	b.WriteString("  } catch (err) {\n")
	b.WriteString("    err.PugLine = src_line;\n")
	b.WriteString("    err.PugPath = src_path;\n")
	b.WriteString("    throw err;\n")
	b.WriteString("  }\n")
	b.WriteString("  return pug_html.join(\"\\n\");\n")
	b.WriteString("}\n")
	return b.String()
}

func writeIndented(b *strings.Builder, body, indent string) {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		if l == "" && i == len(lines)-1 {
			continue
		}
		if l != "" {
			b.WriteString(indent)
			b.WriteString(l)
		}
		b.WriteString("\n")
	}
}
