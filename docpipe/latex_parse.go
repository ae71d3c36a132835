// CLAUDE:SUMMARY LaTeX tokenizer/parser — builds a node tree (chars, macros, groups, environments, math, comments, verbatim) with source spans.
// CLAUDE:EXPORTS NodeKind, Node, ParseLaTeX, FlattenLaTeX
package docpipe

import (
	"fmt"
	"strings"
)

// NodeKind classifies a LaTeX node.
type NodeKind int

const (
	NodeChars NodeKind = iota
	NodeMacro
	NodeGroup
	NodeEnvironment
	NodeMath
	NodeComment
	NodeVerbatim
)

var nodeKindNames = [...]string{"chars", "macro", "group", "environment", "math", "comment", "verbatim"}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is one element of a parsed LaTeX source.
type Node struct {
	Kind NodeKind
	// Name is the macro or environment name, or the opening math delimiter.
	Name string
	// Pos is the byte offset of the node in the source.
	Pos int
	// Verbatim is the exact source text the node spans, arguments included.
	Verbatim string
	// Children is the content of groups, environments and math.
	Children []Node
}

// IsContainer reports whether the node carries a child list.
func (n Node) IsContainer() bool {
	return n.Kind == NodeGroup || n.Kind == NodeEnvironment || n.Kind == NodeMath
}

// FlattenLaTeX renders top-level nodes as text: containers contribute the
// source of their direct children (dropping the container's own delimiters
// such as braces, \begin/\end or $), every other node its own source.
// Markup inside the children is kept as written.
func FlattenLaTeX(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		if !n.IsContainer() {
			sb.WriteString(n.Verbatim)
			continue
		}
		for _, c := range n.Children {
			sb.WriteString(c.Verbatim)
		}
	}
	return sb.String()
}

// Argument specs: '*' optional star, '[' optional bracket argument,
// '{' mandatory argument (a group, a single macro, or a single character),
// 'v' braced argument read verbatim (no comments, macros or math inside).
var macroArgSpecs = map[string]string{
	"documentclass": "[{[", "usepackage": "[{[",
	"part": "*[{", "chapter": "*[{", "section": "*[{", "subsection": "*[{",
	"subsubsection": "*[{", "paragraph": "*[{", "subparagraph": "*[{",
	"title": "[{", "author": "[{", "date": "{", "thanks": "{",
	"textbf": "{", "textit": "{", "textsl": "{", "emph": "{", "texttt": "{", "textrm": "{",
	"textsf": "{", "textsc": "{", "textup": "{", "underline": "{", "mbox": "{", "text": "{",
	"mathrm": "{", "mathbf": "{", "mathit": "{", "mathcal": "{", "mathbb": "{", "mathsf": "{",
	"vec": "{", "hat": "{", "bar": "{", "dot": "{", "ddot": "{", "tilde": "{", "overline": "{",
	"label": "{", "ref": "{", "eqref": "{", "pageref": "{", "url": "v", "nolinkurl": "v",
	"cite": "*[[{", "href": "v{",
	"frac": "{{", "dfrac": "{{", "tfrac": "{{", "binom": "{{", "sqrt": "[{",
	"footnote": "[{", "caption": "*[{", "includegraphics": "*[{", "item": "[",
	"hspace": "*{", "vspace": "*{", "input": "{", "include": "{",
	"newcommand": "*{[[{", "renewcommand": "*{[[{", "setlength": "{{",
	`\`: "*[",
	// accents
	"'": "{", "`": "{", "^": "{", `"`: "{", "~": "{", "=": "{", ".": "{",
	"c": "{", "u": "{", "v": "{", "H": "{", "r": "{", "k": "{",
}

var envArgSpecs = map[string]string{
	"tabular": "[{", "tabular*": "{[{", "array": "[{",
	"figure": "[", "figure*": "[", "table": "[", "table*": "[",
	"minipage": "[[[{", "thebibliography": "{", "multicols": "{",
}

// Environments whose body is not parsed.
var verbatimEnvs = map[string]bool{
	"verbatim": true, "verbatim*": true, "lstlisting": true, "comment": true,
}

type termKind int

const (
	termEOF termKind = iota
	termBrace
	termEnv
	termMath
)

// terminator tells parseNodes what closes the current node list.
type terminator struct {
	kind  termKind
	name  string // environment name or closing math delimiter
	start int    // offset of the opener, for error reporting
}

type latexParser struct {
	src string
	pos int
}

// ParseLaTeX parses src into top-level nodes. Unbalanced braces,
// unclosed or mismatched environments, unterminated math, and stray
// closers fail with a *ParseError.
func ParseLaTeX(src string) ([]Node, error) {
	p := &latexParser{src: src}
	return p.parseNodes(terminator{kind: termEOF})
}

func (p *latexParser) errorf(off int, format string, args ...any) error {
	line, col := 1, 1
	for i := 0; i < off && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *latexParser) parseNodes(term terminator) ([]Node, error) {
	var nodes []Node
	for {
		if p.pos >= len(p.src) {
			switch term.kind {
			case termEOF:
				return nodes, nil
			case termBrace:
				return nil, p.errorf(term.start, "unclosed '{'")
			case termEnv:
				return nil, p.errorf(term.start, `environment %q not closed`, term.name)
			default:
				return nil, p.errorf(term.start, "math not closed, expected %q", term.name)
			}
		}

		start := p.pos
		switch c := p.src[p.pos]; c {
		case '%':
			nodes = append(nodes, p.parseComment())

		case '{':
			n, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		case '}':
			if term.kind != termBrace {
				return nil, p.errorf(start, "unexpected '}'")
			}
			p.pos++
			return nodes, nil

		case '$':
			delim := "$"
			if strings.HasPrefix(p.src[p.pos:], "$$") {
				delim = "$$"
			}
			if term.kind == termMath && strings.HasPrefix(p.src[p.pos:], term.name) {
				p.pos += len(term.name)
				return nodes, nil
			}
			p.pos += len(delim)
			n, err := p.parseMath(start, delim, delim)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)

		case '\\':
			n, done, err := p.parseBackslash(term)
			if err != nil {
				return nil, err
			}
			if done {
				return nodes, nil
			}
			nodes = append(nodes, n)

		default:
			end := p.pos + strings.IndexAny(p.src[p.pos:], `%{}$\`)
			if end < p.pos {
				end = len(p.src)
			}
			p.pos = end
			nodes = append(nodes, Node{Kind: NodeChars, Pos: start, Verbatim: p.src[start:end]})
		}
	}
}

// parseComment consumes "%..." up to and including the newline and the
// indentation of the next line.
func (p *latexParser) parseComment() Node {
	start := p.pos
	nl := strings.IndexByte(p.src[p.pos:], '\n')
	if nl < 0 {
		p.pos = len(p.src)
	} else {
		p.pos += nl + 1
		p.skipBlanks()
	}
	return Node{Kind: NodeComment, Pos: start, Verbatim: p.src[start:p.pos]}
}

func (p *latexParser) parseGroup() (Node, error) {
	start := p.pos
	p.pos++
	children, err := p.parseNodes(terminator{kind: termBrace, start: start})
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: NodeGroup, Pos: start, Verbatim: p.src[start:p.pos], Children: children}, nil
}

func (p *latexParser) parseMath(start int, open, closer string) (Node, error) {
	children, err := p.parseNodes(terminator{kind: termMath, name: closer, start: start})
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: NodeMath, Name: open, Pos: start, Verbatim: p.src[start:p.pos], Children: children}, nil
}

// parseBackslash handles everything starting with '\'. done is true when
// the backslash sequence closed the current terminator (\end, \), \]).
func (p *latexParser) parseBackslash(term terminator) (n Node, done bool, err error) {
	start := p.pos
	if p.pos+1 >= len(p.src) {
		return Node{}, false, p.errorf(start, "trailing backslash")
	}
	name := p.readMacroName()

	switch name {
	case "begin":
		n, err = p.parseEnvironment(start)
		return n, false, err

	case "end":
		env, err := p.readEnvName()
		if err != nil {
			return Node{}, false, err
		}
		if term.kind != termEnv {
			return Node{}, false, p.errorf(start, `unexpected \end{%s}`, env)
		}
		if env != term.name {
			return Node{}, false, p.errorf(start, `\end{%s} does not match \begin{%s}`, env, term.name)
		}
		return Node{}, true, nil

	case "(", "[":
		closer := `\)`
		if name == "[" {
			closer = `\]`
		}
		n, err = p.parseMath(start, `\`+name, closer)
		return n, false, err

	case ")", "]":
		if term.kind == termMath && term.name == `\`+name {
			return Node{}, true, nil
		}
		return Node{}, false, p.errorf(start, `unexpected \%s`, name)

	case "verb":
		n, err = p.parseVerb(start)
		return n, false, err
	}

	if isLetter(name[0]) {
		p.skipBlanks()
		if p.pos < len(p.src) && p.src[p.pos] == '\n' {
			p.pos++
			p.skipBlanks()
		}
	}
	if err := p.parseArgs(macroArgSpecs[name]); err != nil {
		return Node{}, false, err
	}
	return Node{Kind: NodeMacro, Name: name, Pos: start, Verbatim: p.src[start:p.pos]}, false, nil
}

// readMacroName consumes the backslash and the macro name: a run of
// letters, or exactly one other character.
func (p *latexParser) readMacroName() string {
	p.pos++ // backslash
	start := p.pos
	if !isLetter(p.src[p.pos]) {
		p.pos++
		return p.src[start:p.pos]
	}
	for p.pos < len(p.src) && isLetter(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *latexParser) readEnvName() (string, error) {
	p.skipBlanks()
	if p.pos >= len(p.src) || p.src[p.pos] != '{' {
		return "", p.errorf(p.pos, "expected environment name")
	}
	end := strings.IndexByte(p.src[p.pos:], '}')
	if end < 0 {
		return "", p.errorf(p.pos, "unclosed environment name")
	}
	name := strings.TrimSpace(p.src[p.pos+1 : p.pos+end])
	if name == "" {
		return "", p.errorf(p.pos, "empty environment name")
	}
	p.pos += end + 1
	return name, nil
}

func (p *latexParser) parseEnvironment(start int) (Node, error) {
	name, err := p.readEnvName()
	if err != nil {
		return Node{}, err
	}
	if err := p.parseArgs(envArgSpecs[name]); err != nil {
		return Node{}, err
	}

	if verbatimEnvs[name] {
		closing := `\end{` + name + `}`
		bodyStart := p.pos
		idx := strings.Index(p.src[p.pos:], closing)
		if idx < 0 {
			return Node{}, p.errorf(start, `environment %q not closed`, name)
		}
		body := Node{Kind: NodeVerbatim, Pos: bodyStart, Verbatim: p.src[bodyStart : bodyStart+idx]}
		p.pos = bodyStart + idx + len(closing)
		return Node{Kind: NodeEnvironment, Name: name, Pos: start, Verbatim: p.src[start:p.pos], Children: []Node{body}}, nil
	}

	children, err := p.parseNodes(terminator{kind: termEnv, name: name, start: start})
	if err != nil {
		return Node{}, err
	}
	return Node{Kind: NodeEnvironment, Name: name, Pos: start, Verbatim: p.src[start:p.pos], Children: children}, nil
}

// parseVerb handles \verb|...| and \verb*|...|.
func (p *latexParser) parseVerb(start int) (Node, error) {
	if p.pos < len(p.src) && p.src[p.pos] == '*' {
		p.pos++
	}
	if p.pos >= len(p.src) {
		return Node{}, p.errorf(start, `\verb without delimiter`)
	}
	delim := p.src[p.pos]
	end := strings.IndexByte(p.src[p.pos+1:], delim)
	if end < 0 || strings.ContainsRune(p.src[p.pos+1:p.pos+1+end], '\n') {
		return Node{}, p.errorf(start, `\verb not closed`)
	}
	p.pos += end + 2
	return Node{Kind: NodeVerbatim, Name: "verb", Pos: start, Verbatim: p.src[start:p.pos]}, nil
}

func (p *latexParser) parseArgs(spec string) error {
	for _, a := range spec {
		switch a {
		case '*':
			if p.pos < len(p.src) && p.src[p.pos] == '*' {
				p.pos++
			}
		case '[':
			save := p.pos
			p.skipSpace()
			if p.pos >= len(p.src) || p.src[p.pos] != '[' {
				p.pos = save
				continue
			}
			if err := p.skipOptional(); err != nil {
				return err
			}
		case 'v':
			save := p.pos
			p.skipSpace()
			if p.pos >= len(p.src) || p.src[p.pos] != '{' {
				p.pos = save
				return nil
			}
			if err := p.skipVerbatimGroup(); err != nil {
				return err
			}
		case '{':
			save := p.pos
			p.skipSpace()
			if p.pos >= len(p.src) {
				p.pos = save
				return nil
			}
			switch c := p.src[p.pos]; {
			case c == '{':
				if _, err := p.parseGroup(); err != nil {
					return err
				}
			case c == '\\' && p.pos+1 < len(p.src):
				p.readMacroName()
			case c == '}' || c == '%' || c == '$':
				// argument missing; leave the rest to the caller
				p.pos = save
				return nil
			default:
				p.pos += runeLen(p.src[p.pos:])
			}
		}
	}
	return nil
}

// skipVerbatimGroup consumes a {...} argument whose content is taken as
// written, as \url does: '%', '$' and '#' are ordinary characters and only
// braces nest.
func (p *latexParser) skipVerbatimGroup() error {
	start := p.pos
	depth := 0
	for p.pos++; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '\\':
			p.pos++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				p.pos++
				return nil
			}
			depth--
		}
	}
	return p.errorf(start, "unclosed '{'")
}

// skipOptional consumes a [...] argument, honoring nested braces.
func (p *latexParser) skipOptional() error {
	start := p.pos
	depth := 0
	for p.pos++; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '\\':
			p.pos++
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return p.errorf(p.pos, "unexpected '}' in optional argument")
			}
			depth--
		case ']':
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return p.errorf(start, "unclosed '['")
}

func (p *latexParser) skipBlanks() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

func (p *latexParser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '@'
}

func runeLen(s string) int {
	for i := range s {
		if i > 0 {
			return i
		}
	}
	return len(s)
}
