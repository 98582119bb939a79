package headless

import (
	"fmt"
	"strings"
	"text/scanner"

	"github.com/spaghettifunk/esutil/engine/shader"
)

// decl is a global variable declaration found in a shader.
type decl struct {
	Qualifier string
	Type      string
	Name      string
	Line      int
}

// unit is what compiling one shader leaves behind for the linker.
type unit struct {
	ty       shader.Enum
	version  string
	inputs   []decl
	outputs  []decl
	uniforms []decl
	macros   map[string]bool
}

type token struct {
	text string
	line int
	kind rune
}

var supportedVersions = map[string]bool{
	"100":    true,
	"300 es": true,
	"310 es": true,
	"320 es": true,
}

var precisionQualifiers = map[string]bool{
	"lowp": true, "mediump": true, "highp": true,
}

var interpolationQualifiers = map[string]bool{
	"invariant": true, "flat": true, "smooth": true, "centroid": true,
}

var storageQualifiers = map[string]bool{
	"attribute": true, "varying": true, "uniform": true, "in": true, "out": true, "const": true,
}

type diagnostics []string

func (d *diagnostics) errorf(line int, near, format string, args ...interface{}) {
	*d = append(*d, fmt.Sprintf("ERROR: 0:%d: '%s' : %s", line, near, fmt.Sprintf(format, args...)))
}

func (d diagnostics) String() string {
	if len(d) == 0 {
		return ""
	}
	return strings.Join(d, "\n") + fmt.Sprintf("\nERROR: %d compilation errors.  No code generated.", len(d))
}

// compile checks the structure of a GLSL ES source: preprocessor version
// placement, character set, balanced brackets, statement termination, the
// presence of main and the storage qualifiers allowed by the version.
// Structurally sound sources then go through checkStatements. It does not
// type check expressions.
func compile(ty shader.Enum, src string) (*unit, string) {
	var diags diagnostics
	u := &unit{ty: ty, version: "100"}

	if strings.TrimSpace(src) == "" {
		diags.errorf(1, "", "syntax error: empty shader source")
		return nil, diags.String()
	}

	body := preprocess(src, u, &diags)
	tokens := tokenize(body, &diags)
	parse(tokens, u, &diags)
	if len(diags) == 0 {
		checkStatements(tokens, u, &diags)
	}

	if len(diags) > 0 {
		return nil, diags.String()
	}
	return u, ""
}

// preprocess handles directives line by line and blanks them out so that
// the tokenizer keeps the original line numbers.
func preprocess(src string, u *unit, diags *diagnostics) string {
	lines := strings.Split(src, "\n")
	seenCode := false
	inComment := false
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		if inComment {
			if idx := strings.Index(line, "*/"); idx >= 0 {
				inComment = false
				line = strings.TrimSpace(line[idx+2:])
			} else {
				continue
			}
		}
		if strings.HasPrefix(line, "/*") && !strings.Contains(line, "*/") {
			inComment = true
			continue
		}

		if !strings.HasPrefix(line, "#") {
			if line != "" && !strings.HasPrefix(line, "//") && !isClosedBlockComment(line) {
				seenCode = true
			}
			continue
		}

		directive := strings.Fields(strings.TrimPrefix(line, "#"))
		lines[i] = ""
		if len(directive) == 0 {
			continue
		}
		switch directive[0] {
		case "version":
			if seenCode {
				diags.errorf(lineNo, "#version", "#version directive must occur before anything else, except for comments and white space")
				continue
			}
			seenCode = true
			version := strings.Join(stripComment(directive[1:]), " ")
			if !supportedVersions[version] {
				diags.errorf(lineNo, version, "version number not supported")
				continue
			}
			u.version = version
		case "define":
			seenCode = true
			if len(directive) > 1 {
				name, _, _ := strings.Cut(directive[1], "(")
				if u.macros == nil {
					u.macros = make(map[string]bool)
				}
				u.macros[name] = true
			}
		case "undef", "if", "ifdef", "ifndef", "else", "elif", "endif", "pragma", "extension", "line":
			seenCode = true
		case "error":
			seenCode = true
			diags.errorf(lineNo, "#error", "%s", strings.Join(directive[1:], " "))
		default:
			diags.errorf(lineNo, "#"+directive[0], "invalid directive name")
		}
	}
	return strings.Join(lines, "\n")
}

func isClosedBlockComment(line string) bool {
	return strings.HasPrefix(line, "/*") && strings.HasSuffix(line, "*/")
}

func stripComment(fields []string) []string {
	for i, f := range fields {
		if strings.HasPrefix(f, "//") || strings.HasPrefix(f, "/*") {
			return fields[:i]
		}
	}
	return fields
}

func tokenize(body string, diags *diagnostics) []token {
	var s scanner.Scanner
	s.Init(strings.NewReader(body))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanComments | scanner.SkipComments
	s.Error = func(s *scanner.Scanner, msg string) {
		diags.errorf(s.Pos().Line, "", "%s", msg)
	}

	var tokens []token
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		text := s.TokenText()
		line := s.Position.Line
		switch tok {
		case '@', '$', '`', '\\', '"', '\'', '#':
			diags.errorf(line, text, "invalid character")
			continue
		case scanner.Int, scanner.Float:
			if r := s.Peek(); r == 'u' || r == 'U' || r == 'f' || r == 'F' {
				text += string(s.Next())
			}
		case scanner.Ident:
		default:
			// The scanner returns one rune per operator character.
			for compoundOperators[text+string(s.Peek())] {
				text += string(s.Next())
			}
		}
		tokens = append(tokens, token{text: text, line: line, kind: tok})
	}
	return tokens
}

var closing = map[string]string{")": "(", "]": "[", "}": "{"}

func parse(tokens []token, u *unit, diags *diagnostics) {
	var (
		stack      []token
		stmt       []token
		braceDepth int
		fnBody     bool
		hasMain    bool
		prev       token
	)

	for _, tok := range tokens {
		switch tok.text {
		case "(", "[", "{":
			stack = append(stack, tok)
		case ")", "]", "}":
			if len(stack) == 0 || stack[len(stack)-1].text != closing[tok.text] {
				diags.errorf(tok.line, tok.text, "syntax error: unexpected '%s'", tok.text)
				return
			}
			stack = stack[:len(stack)-1]
		}

		if u.version != "100" && tok.text == "gl_FragColor" {
			diags.errorf(tok.line, tok.text, "undeclared identifier")
		}

		switch {
		case tok.text == "{":
			if braceDepth == 0 {
				name, ret, isFn := functionHeader(stmt)
				fnBody = isFn
				if isFn {
					if name == "main" {
						hasMain = true
						if ret != "void" {
							diags.errorf(tok.line, "main", "function cannot return a value")
						}
					}
					stmt = nil
				}
			}
			braceDepth++

		case tok.text == "}":
			if braceDepth > 0 && prev.text != ";" && prev.text != "{" && prev.text != "}" {
				diags.errorf(tok.line, "}", "syntax error: missing ';' after '%s'", prev.text)
			}
			braceDepth--

		case braceDepth == 0 && tok.text == ";":
			stmt = append(stmt, tok)
			if !fnBody || len(stmt) > 1 {
				declaration(stmt, u, diags)
			}
			stmt = nil
			fnBody = false

		case braceDepth == 0:
			stmt = append(stmt, tok)
		}
		prev = tok
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		diags.errorf(open.line, open.text, "syntax error: unexpected end of file, unclosed '%s'", open.text)
		return
	}
	if len(stmt) > 0 {
		last := stmt[len(stmt)-1]
		diags.errorf(last.line, last.text, "syntax error: unexpected end of file, missing ';'")
		return
	}
	if !hasMain {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].line
		}
		diags.errorf(line, "", "Missing main()")
	}
}

// functionHeader reports whether stmt is "[qualifiers] type name ( ... )".
func functionHeader(stmt []token) (name, ret string, ok bool) {
	if len(stmt) < 4 || stmt[len(stmt)-1].text != ")" {
		return "", "", false
	}
	open := -1
	for i, t := range stmt {
		if t.text == "(" {
			open = i
			break
		}
	}
	if open < 2 {
		return "", "", false
	}
	return stmt[open-1].text, stmt[open-2].text, true
}

// declaration records global in/out/uniform variables and enforces the
// qualifiers each version and stage accepts.
func declaration(stmt []token, u *unit, diags *diagnostics) {
	i := 0
	if i < len(stmt) && stmt[i].text == "layout" {
		i++
		if i < len(stmt) && stmt[i].text == "(" {
			for i < len(stmt) && stmt[i].text != ")" {
				i++
			}
			i++
		}
	}
	if i >= len(stmt) {
		return
	}
	if stmt[i].text == "precision" || stmt[i].text == "struct" {
		return
	}

	qualifier := ""
	for i < len(stmt) {
		t := stmt[i].text
		switch {
		case interpolationQualifiers[t], precisionQualifiers[t]:
			i++
			continue
		case storageQualifiers[t]:
			qualifier = t
			i++
			continue
		}
		break
	}
	if qualifier == "" || qualifier == "const" {
		return
	}
	line := stmt[0].line

	switch {
	case u.version == "100" && (qualifier == "in" || qualifier == "out"):
		diags.errorf(line, qualifier, "storage qualifier supported in GLSL ES 3.00 and above only")
		return
	case u.version != "100" && (qualifier == "attribute" || qualifier == "varying"):
		diags.errorf(line, qualifier, "Illegal use of reserved word")
		return
	case qualifier == "attribute" && u.ty != shader.VertexShader:
		diags.errorf(line, qualifier, "supported in vertex shaders only")
		return
	}

	// Skip precision on the type.
	for i < len(stmt) && precisionQualifiers[stmt[i].text] {
		i++
	}
	if i >= len(stmt)-1 {
		diags.errorf(line, qualifier, "syntax error: incomplete declaration")
		return
	}
	typ := stmt[i].text
	i++

	// One or more names, each optionally sized: name [N], name2 ...
	for i < len(stmt) {
		name := stmt[i].text
		if name == ";" || name == "{" {
			break
		}
		d := decl{Qualifier: qualifier, Type: typ, Name: name, Line: stmt[i].line}
		switch {
		case qualifier == "uniform":
			u.uniforms = append(u.uniforms, d)
		case qualifier == "attribute",
			qualifier == "in",
			qualifier == "varying" && u.ty == shader.FragmentShader:
			u.inputs = append(u.inputs, d)
		case qualifier == "out", qualifier == "varying":
			u.outputs = append(u.outputs, d)
		}
		i++
		for i < len(stmt) && stmt[i].text != "," && stmt[i].text != ";" {
			i++
		}
		if i < len(stmt) && stmt[i].text == "," {
			i++
		}
	}
}

// link checks the interface between a vertex and a fragment unit.
func link(vs, fs *unit) (string, []decl, []decl) {
	var errs []string
	fail := func(format string, args ...interface{}) {
		errs = append(errs, "ERROR: "+fmt.Sprintf(format, args...))
	}

	if vs.version != fs.version {
		fail("Shader versions do not match (%s vs %s).", vs.version, fs.version)
	}

	outputs := make(map[string]decl, len(vs.outputs))
	for _, d := range vs.outputs {
		outputs[d.Name] = d
	}
	for _, in := range fs.inputs {
		if strings.HasPrefix(in.Name, "gl_") {
			continue
		}
		out, ok := outputs[in.Name]
		if !ok {
			fail("Input of fragment shader '%s' not written by vertex shader.", in.Name)
			continue
		}
		if out.Type != in.Type {
			fail("Type of '%s' differs between shaders (%s vs %s).", in.Name, out.Type, in.Type)
		}
	}

	var uniforms []decl
	seen := make(map[string]decl)
	for _, d := range append(append([]decl(nil), vs.uniforms...), fs.uniforms...) {
		if other, ok := seen[d.Name]; ok {
			if other.Type != d.Type {
				fail("Uniform '%s' differs in type between shaders (%s vs %s).", d.Name, other.Type, d.Type)
			}
			continue
		}
		seen[d.Name] = d
		uniforms = append(uniforms, d)
	}

	if len(errs) > 0 {
		return strings.Join(errs, "\n"), nil, nil
	}
	return "", uniforms, vs.inputs
}
