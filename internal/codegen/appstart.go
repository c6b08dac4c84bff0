package codegen

import "strings"

// MainMarker is the placeholder recognized in custom start templates.
// The first occurrence is replaced with the program's entry symbol;
// everything after it is emitted verbatim.
const MainMarker = "$HASTE_MAIN"

// StartMode selects one of the fixed entry-point invocation policies.
type StartMode int

const (
	// StartASAP invokes the entry symbol immediately. The call forces
	// evaluation of any deferred return value; the result is discarded,
	// so this is always safe.
	StartASAP StartMode = iota

	// StartOnLoad installs the entry symbol as the window.onload
	// callback. The symbol is stored, not invoked, at emit time.
	StartOnLoad

	// StartCustom substitutes the entry symbol into a user-supplied
	// template at the first MainMarker occurrence.
	StartCustom
)

// ValidStartSelectors maps the fixed selector spellings to their mode.
// Any selector not present here is treated as a custom template.
var ValidStartSelectors = map[string]StartMode{
	"asap":   StartASAP,
	"onexec": StartASAP,
	"onload": StartOnLoad,
}

// StartPolicy decides how the compiled program's entry point is invoked
// in the emitted output. The zero value is StartASAP.
type StartPolicy struct {
	mode     StartMode
	template string
}

// ASAP returns the immediate-invocation policy.
func ASAP() StartPolicy {
	return StartPolicy{mode: StartASAP}
}

// OnLoad returns the invoke-on-document-load policy.
func OnLoad() StartPolicy {
	return StartPolicy{mode: StartOnLoad}
}

// Custom returns a policy that substitutes the entry symbol into template
// at the first MainMarker occurrence. A template without the marker is
// emitted verbatim and the symbol is dropped.
func Custom(template string) StartPolicy {
	return StartPolicy{mode: StartCustom, template: template}
}

// ParseStartPolicy maps a selector string to a policy. "asap" and
// "onexec" both select immediate invocation, "onload" selects the
// document-load callback, and any other string is taken to be a custom
// template. Total: there is no invalid selector.
func ParseStartPolicy(selector string) StartPolicy {
	if mode, ok := ValidStartSelectors[selector]; ok {
		return StartPolicy{mode: mode}
	}
	return Custom(selector)
}

// Mode reports which fixed policy this is.
func (p StartPolicy) Mode() StartMode {
	return p.mode
}

// Template returns the custom template, or "" for the fixed policies.
func (p StartPolicy) Template() string {
	return p.template
}

// Render produces the output fragment that starts the program, given the
// symbol under which the entry point is exposed at runtime. Total and
// pure: malformed or marker-free templates degrade to verbatim output,
// never an error.
func (p StartPolicy) Render(mainSym string) string {
	switch p.mode {
	case StartOnLoad:
		return "window.onload = " + mainSym + ";"
	case StartCustom:
		return substituteMain(p.template, mainSym)
	default:
		return mainSym + "();"
	}
}

// substituteMain replaces the first occurrence of MainMarker in template
// with mainSym and emits the remainder verbatim. The scan consumes one
// byte at a time: on a failed marker match it echoes the '$' and resumes
// at the very next byte, so a '$' run like "$$HASTE_MAIN" still finds the
// marker starting at the second '$'. Which literal substrings are
// absorbed depends on this exact resume position; callers rely on it.
func substituteMain(template, mainSym string) string {
	var out strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] == '$' && strings.HasPrefix(template[i:], MainMarker) {
			out.WriteString(mainSym)
			out.WriteString(template[i+len(MainMarker):])
			return out.String()
		}
		out.WriteByte(template[i])
	}
	return out.String()
}
