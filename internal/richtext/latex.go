package richtext

import (
	"strings"
	"unicode"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/unicode/norm"
)

// LatexToText approximates LaTeX as plain unicode text. Math is rendered
// as text, source line breaks collapse into spaces, and paragraphs are
// filled to DefaultWidth columns.
func LatexToText(src string) string {
	c := &latexConverter{src: []rune(src)}
	out := c.until(0)
	return fill(norm.NFC.String(out), DefaultWidth)
}

// LatexConverter adapts LatexToText to the output converters.
type LatexConverter struct{}

// ToText implements the LaTeX collaborator used by output converters.
func (LatexConverter) ToText(src string) string {
	return LatexToText(src)
}

var latexSymbols = map[string]string{
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ϵ",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"pi": "π", "varpi": "ϖ", "rho": "ρ", "varrho": "ϱ", "sigma": "σ",
	"varsigma": "ς", "tau": "τ", "upsilon": "υ", "phi": "ϕ", "varphi": "φ",
	"chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Upsilon": "Υ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	"times": "×", "cdot": "·", "div": "÷", "pm": "±", "mp": "∓",
	"leq": "≤", "le": "≤", "geq": "≥", "ge": "≥", "neq": "≠", "ne": "≠",
	"approx": "≈", "equiv": "≡", "sim": "∼", "simeq": "≃", "propto": "∝",
	"infty": "∞", "partial": "∂", "nabla": "∇", "sum": "∑", "prod": "∏",
	"int": "∫", "oint": "∮", "in": "∈", "notin": "∉", "subset": "⊂",
	"subseteq": "⊆", "supset": "⊃", "cup": "∪", "cap": "∩", "emptyset": "∅",
	"forall": "∀", "exists": "∃", "neg": "¬", "land": "∧", "lor": "∨",
	"to": "→", "rightarrow": "→", "leftarrow": "←", "Rightarrow": "⇒",
	"Leftarrow": "⇐", "leftrightarrow": "↔", "Leftrightarrow": "⇔",
	"mapsto": "↦", "ldots": "…", "dots": "…", "cdots": "⋯", "vdots": "⋮",
	"degree": "°", "prime": "′", "ell": "ℓ", "hbar": "ℏ", "Re": "ℜ", "Im": "ℑ",
	"langle": "⟨", "rangle": "⟩", "lfloor": "⌊", "rfloor": "⌋",
	"lceil": "⌈", "rceil": "⌉", "circ": "∘", "star": "⋆", "ast": "∗",
	"dagger": "†", "S": "§", "P": "¶", "copyright": "©", "LaTeX": "LaTeX",
	"TeX": "TeX", "textbackslash": "\\",

	"quad": " ", "qquad": "  ", ",": " ", ";": " ", ":": " ", " ": " ", "!": "",
	"%": "%", "$": "$", "&": "&", "_": "_", "#": "#", "{": "{", "}": "}",
	"left": "", "right": "", "big": "", "Big": "", "bigg": "", "Bigg": "",
	"displaystyle": "", "textstyle": "", "limits": "", "nolimits": "",
	"centering": "", "noindent": "", "par": "\n\n", "newline": "\n",
	"item": "\n- ", "maketitle": "", "hline": "",
}

var latexFunctions = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true,
	"tanh": true, "log": true, "ln": true, "lg": true, "exp": true, "lim": true,
	"min": true, "max": true, "sup": true, "inf": true, "det": true, "dim": true,
	"arg": true, "deg": true, "gcd": true, "ker": true, "Pr": true,
}

// latexArgMacros are formatting macros whose argument is kept as is.
var latexArgMacros = map[string]bool{
	"text": true, "textrm": true, "textbf": true, "textit": true, "texttt": true,
	"textsf": true, "emph": true, "underline": true, "mathrm": true,
	"mathbf": true, "mathit": true, "mathsf": true, "mathtt": true,
	"mathcal": true, "mathbb": true, "mathfrak": true, "boldsymbol": true,
	"operatorname": true, "mbox": true, "hbox": true, "section": true,
	"subsection": true, "subsubsection": true, "paragraph": true,
	"title": true, "author": true, "overline": true, "hat": true, "bar": true,
	"vec": true, "tilde": true, "dot": true, "ddot": true, "widehat": true,
	"widetilde": true,
}

// latexIgnoredArgMacros take an argument that produces no text.
var latexIgnoredArgMacros = map[string]bool{
	"label": true, "ref": true, "cite": true, "documentclass": true,
	"usepackage": true, "vspace": true, "hspace": true, "bibliography": true,
	"bibliographystyle": true,
}

var latexAccents = map[string]rune{
	"'": '́', "`": '̀', "^": '̂', "\"": '̈', "~": '̃',
	"=": '̄', ".": '̇', "c": '̧', "v": '̌', "u": '̆',
	"H": '̋', "k": '̨', "r": '̊',
}

// displayEnvironments start and end on their own lines.
var displayEnvironments = map[string]bool{
	"equation": true, "equation*": true, "align": true, "align*": true,
	"gather": true, "gather*": true, "multline": true, "multline*": true,
	"eqnarray": true, "eqnarray*": true, "displaymath": true, "center": true,
	"itemize": true, "enumerate": true, "matrix": true, "pmatrix": true,
	"bmatrix": true, "cases": true, "array": true, "split": true,
}

type latexConverter struct {
	src []rune
	pos int
}

func (c *latexConverter) peek() rune {
	if c.pos >= len(c.src) {
		return 0
	}
	return c.src[c.pos]
}

// until converts text up to the closing rune stop, or to the end when
// stop is zero. The closing rune is consumed.
func (c *latexConverter) until(stop rune) string {
	var b strings.Builder
	for c.pos < len(c.src) {
		r := c.src[c.pos]
		if stop != 0 && r == stop {
			c.pos++
			break
		}
		switch r {
		case '\\':
			c.pos++
			b.WriteString(c.macro())
		case '{':
			c.pos++
			b.WriteString(c.until('}'))
		case '}', '$':
			c.pos++
		case '%':
			for c.pos < len(c.src) && c.src[c.pos] != '\n' {
				c.pos++
			}
			c.pos++
		case '&':
			c.pos++
			b.WriteString(" ")
		case '~':
			c.pos++
			b.WriteString(" ")
		case '^', '_':
			c.pos++
			b.WriteRune(r)
			b.WriteString(c.arg())
		case '\n':
			c.pos++
			if c.peek() == '\n' {
				for c.peek() == '\n' {
					c.pos++
				}
				b.WriteString("\n\n")
			} else {
				b.WriteString(" ")
			}
		case '-':
			c.pos++
			b.WriteString(c.dashes())
		case '`', '\'':
			c.pos++
			b.WriteString(c.quotes(r))
		default:
			c.pos++
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (c *latexConverter) dashes() string {
	n := 1
	for n < 3 && c.peek() == '-' {
		c.pos++
		n++
	}
	switch n {
	case 2:
		return "–"
	case 3:
		return "—"
	default:
		return "-"
	}
}

func (c *latexConverter) quotes(r rune) string {
	if c.peek() != r {
		if r == '`' {
			return "‘"
		}
		return "’"
	}
	c.pos++
	if r == '`' {
		return "“"
	}
	return "”"
}

// name reads a macro name: a run of letters or a single other rune.
func (c *latexConverter) name() string {
	start := c.pos
	for c.pos < len(c.src) && unicode.IsLetter(c.src[c.pos]) {
		c.pos++
	}
	if c.pos == start && c.pos < len(c.src) {
		c.pos++
		return string(c.src[start:c.pos])
	}
	name := string(c.src[start:c.pos])
	if c.pos < len(c.src) && c.src[c.pos] == '*' {
		c.pos++
	}
	return name
}

func (c *latexConverter) skipSpace() {
	for c.pos < len(c.src) && (c.src[c.pos] == ' ' || c.src[c.pos] == '\t') {
		c.pos++
	}
}

// arg converts one macro argument: a braced group, a macro or a single rune.
func (c *latexConverter) arg() string {
	c.skipSpace()
	switch r := c.peek(); r {
	case 0:
		return ""
	case '{':
		c.pos++
		return c.until('}')
	case '\\':
		c.pos++
		return c.macro()
	default:
		c.pos++
		return string(r)
	}
}

// optional consumes an optional [...] argument and returns its text.
func (c *latexConverter) optional() string {
	c.skipSpace()
	if c.peek() != '[' {
		return ""
	}
	c.pos++
	return c.until(']')
}

func (c *latexConverter) macro() string {
	name := c.name()
	if name == "\\" {
		c.optional()
		return "\n"
	}
	if accent, ok := latexAccents[name]; ok {
		return c.arg() + string(accent)
	}
	if s, ok := latexSymbols[name]; ok {
		return s
	}
	if latexFunctions[name] {
		return name
	}
	if latexArgMacros[name] {
		return c.arg()
	}
	if latexIgnoredArgMacros[name] {
		c.optional()
		c.arg()
		return ""
	}

	switch name {
	case "frac", "dfrac", "tfrac":
		num, den := c.arg(), c.arg()
		return group(num) + "/" + group(den)
	case "sqrt":
		index := c.optional()
		return index + "√(" + c.arg() + ")"
	case "begin":
		env := c.arg()
		if env == "array" || env == "tabular" {
			c.arg()
		}
		if displayEnvironments[env] {
			return "\n"
		}
		return ""
	case "end":
		if displayEnvironments[c.arg()] {
			return "\n"
		}
		return ""
	}

	// Unknown macros are dropped; the arguments that follow remain as text.
	return ""
}

// group wraps compound expressions in parentheses.
func group(s string) string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= 1 || !strings.ContainsAny(s, " +-*/=·×") {
		return s
	}
	return "(" + s + ")"
}

// fill collapses horizontal whitespace, trims every line, keeps paragraph
// breaks and wraps paragraphs to width.
func fill(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	s = blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	s = strings.TrimSpace(s)
	return wordwrap.String(s, width)
}
