package headless

import (
	"strings"
	"text/scanner"

	"github.com/spaghettifunk/esutil/engine/shader"
)

var compoundOperators = map[string]bool{
	"++": true, "--": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"==": true, "!=": true, "<=": true, ">=": true, "&&": true, "||": true, "^^": true,
	"<<": true, ">>": true, "<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
}

// binaryOperators need an operand on their right.
var binaryOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, "&=": true, "|=": true, "^=": true,
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	"&&": true, "||": true, "^^": true, "+": true, "-": true, "*": true, "/": true,
	"%": true, "<<": true, ">>": true, "&": true, "|": true, "^": true, "?": true,
	"!": true, "~": true, ",": true,
}

var prefixOperators = map[string]bool{
	"(": true, "+": true, "-": true, "!": true, "~": true, "++": true, "--": true,
}

// keywords are the reserved words that may be followed by another identifier.
var keywords = map[string]bool{
	"attribute": true, "const": true, "uniform": true, "varying": true, "buffer": true,
	"shared": true, "layout": true, "centroid": true, "flat": true, "smooth": true,
	"patch": true, "sample": true, "in": true, "out": true, "inout": true,
	"invariant": true, "precise": true, "lowp": true, "mediump": true, "highp": true,
	"precision": true, "struct": true, "coherent": true, "volatile": true,
	"restrict": true, "readonly": true, "writeonly": true, "break": true,
	"continue": true, "do": true, "for": true, "while": true, "switch": true,
	"case": true, "default": true, "if": true, "else": true, "discard": true,
	"return": true,
}

var controlKeywords = map[string]bool{"if": true, "for": true, "while": true, "switch": true}

var floatTypes = map[string]bool{
	"float": true, "vec2": true, "vec3": true, "vec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
}

var otherTypes = map[string]bool{
	"void": true, "bool": true, "int": true, "uint": true, "atomic_uint": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
}

func isTypeName(name string) bool {
	if floatTypes[name] || otherTypes[name] {
		return true
	}
	for _, prefix := range []string{"sampler", "isampler", "usampler", "image", "iimage", "uimage"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func (t token) isIdent() bool  { return t.kind == scanner.Ident }
func (t token) isNumber() bool { return t.kind == scanner.Int || t.kind == scanner.Float }

// checkStatements rejects token sequences no GLSL ES grammar accepts:
// an operator without a right operand, two statements without a ';'
// between them, an unknown type name in a declaration, and float
// declarations in a fragment shader that has no default float precision.
func checkStatements(tokens []token, u *unit, diags *diagnostics) {
	var (
		parens     []bool
		braceDepth int
		control    bool
		precision  = u.ty != shader.FragmentShader
		structs    = make(map[string]bool)
	)

	// names reports whether an identifier can precede another one.
	names := func(name string) bool {
		return keywords[name] || isTypeName(name) || structs[name] || u.macros[name]
	}
	endsExpression := func(t token) bool {
		switch {
		case t.isNumber():
			return true
		case t.isIdent():
			return !names(t.text)
		case t.text == ")":
			return !control
		}
		return t.text == "]" || t.text == "++" || t.text == "--"
	}

	var prev token
	for i, tok := range tokens {
		switch {
		case binaryOperators[prev.text] && !(tok.isIdent() || tok.isNumber() || prefixOperators[tok.text]):
			diags.errorf(tok.line, tok.text, "syntax error: unexpected '%s' after '%s'", tok.text, prev.text)
		case prev.text == "(" && !(tok.isIdent() || tok.isNumber() || prefixOperators[tok.text] || tok.text == ")" || tok.text == ";"):
			diags.errorf(tok.line, tok.text, "syntax error: unexpected '%s' after '('", tok.text)
		case braceDepth > 0 && tok.line > prev.line && endsExpression(prev) && (tok.isIdent() || tok.isNumber()):
			diags.errorf(tok.line, tok.text, "syntax error: missing ';' before '%s'", tok.text)
		case prev.isNumber() && (tok.isIdent() || tok.isNumber()):
			diags.errorf(tok.line, tok.text, "syntax error: unexpected '%s' after '%s'", tok.text, prev.text)
		case prev.isIdent() && tok.isIdent() && !names(prev.text):
			diags.errorf(prev.line, prev.text, "undeclared type name")
		}

		switch {
		case tok.text == "precision" && i+2 < len(tokens) && tokens[i+2].text == "float":
			precision = true
		case !precision && floatTypes[tok.text] && !precisionQualifiers[prev.text]:
			diags.errorf(tok.line, tok.text, "No precision specified for (float)")
			precision = true
		}

		control = false
		switch tok.text {
		case "(":
			parens = append(parens, controlKeywords[prev.text])
		case ")":
			if len(parens) > 0 {
				control = parens[len(parens)-1]
				parens = parens[:len(parens)-1]
			}
		case "{":
			braceDepth++
		case "}":
			braceDepth--
		}
		if prev.text == "struct" && tok.isIdent() {
			structs[tok.text] = true
		}
		prev = tok
	}
}
