package parse

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mathijs727/sic/ast"
)

// Parser consumes a token stream for a single file and produces the
// statements it declares, recursing into ParseFile for every #include.
type Parser struct {
	ctx     *Context
	file    string
	tokens  []Token
	current int
}

// ParseFile reads, tokenizes, and parses the .si file at path, resolving
// any #include directives relative to its parent directory. It returns
// that file's Output metadata (shouldExport is true only for the root
// call) and its top-level statements (with nested #include trees inlined
// as ast.Include statements in source order).
func ParseFile(ctx *Context, path string) (ast.Metadata, []ast.Statement, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return ast.Metadata{}, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	parentDir := filepath.Dir(path)
	output := ast.Metadata{ShouldExport: ctx.depth() == 0}
	ctx.push(parentDir, output)
	defer ctx.pop()

	lexer := NewLexer(path, string(source))
	tokens, err := lexer.Tokenize()
	if err != nil {
		return ast.Metadata{}, nil, err
	}

	p := &Parser{ctx: ctx, file: path, tokens: tokens}
	statements, err := p.parseFile()
	if err != nil {
		return ast.Metadata{}, nil, err
	}
	return ctx.top().output, statements, nil
}

func (p *Parser) parseFile() ([]ast.Statement, error) {
	if p.check(TokenHashOutput) {
		if err := p.outputDirective(); err != nil {
			return nil, err
		}
	}

	var statements []ast.Statement
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (p *Parser) outputDirective() error {
	p.advance() // #output
	cppRel, err := p.expectString()
	if err != nil {
		return err
	}
	shaderRel, err := p.expectString()
	if err != nil {
		return err
	}
	frame := p.ctx.top()
	frame.output.CppFolder = filepath.Join(frame.parentDir, cppRel)
	frame.output.ShaderFolder = filepath.Join(frame.parentDir, shaderRel)
	return nil
}

func (p *Parser) statement() (ast.Statement, error) {
	switch {
	case p.check(TokenHashInclude):
		return p.includeStatement()
	case p.check(TokenHashConstant):
		return p.constantStatement()
	case p.check(TokenBindPoint):
		return p.bindPointStatement()
	case p.check(TokenShaderInputLayout):
		return p.shaderInputLayoutStatement()
	case p.check(TokenGroup):
		return p.groupStatement()
	case p.check(TokenShaderInputGroup):
		return p.shaderInputGroupStatement()
	case p.check(TokenStruct):
		return p.structStatement()
	default:
		return nil, p.errorf("expected a top-level declaration")
	}
}

func (p *Parser) includeStatement() (ast.Statement, error) {
	p.advance() // #include
	relPath, err := p.expectString()
	if err != nil {
		return nil, err
	}
	includePath := filepath.Join(p.ctx.top().parentDir, relPath)
	output, statements, err := ParseFile(p.ctx, includePath)
	if err != nil {
		return nil, err
	}
	return ast.Include{Output: output, Statements: statements}, nil
}

func (p *Parser) constantStatement() (ast.Statement, error) {
	p.advance() // #constant
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	value, err := p.expectInt()
	if err != nil {
		return nil, err
	}
	p.ctx.DefineConstant(name, value)
	return ast.Constant{Name: name, Value: value}, nil
}

func (p *Parser) bindPointStatement() (ast.Statement, error) {
	p.advance() // BindPoint
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenLeftBrace); err != nil {
		return nil, err
	}
	if err := p.expect(TokenRightBrace); err != nil {
		return nil, err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return ast.BindPoint{Name: name}, nil
}

func (p *Parser) shaderInputLayoutStatement() (ast.Statement, error) {
	p.advance() // ShaderInputLayout
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var options ast.ShaderInputLayoutOptions
	if p.check(TokenLess) {
		p.advance()
		if err := p.expect(TokenLocal); err != nil {
			return nil, err
		}
		options.LocalRootSignature = true
		if err := p.expect(TokenGreater); err != nil {
			return nil, err
		}
	}

	if err := p.expect(TokenLeftBrace); err != nil {
		return nil, err
	}

	layout := ast.ShaderInputLayout{Name: name, Options: options}
	for !p.check(TokenRightBrace) {
		switch {
		case p.check(TokenStaticSampler):
			s, err := p.staticSampler()
			if err != nil {
				return nil, err
			}
			layout.StaticSamplers = append(layout.StaticSamplers, s)
		case p.check(TokenRootConstant):
			rc, err := p.rootConstant()
			if err != nil {
				return nil, err
			}
			layout.RootConstants = append(layout.RootConstants, rc)
		case p.check(TokenRootCBV):
			cbv, err := p.rootCBV()
			if err != nil {
				return nil, err
			}
			layout.RootConstantBufferViews = append(layout.RootConstantBufferViews, cbv)
		case p.check(TokenIdent):
			ref, err := p.bindPointReference()
			if err != nil {
				return nil, err
			}
			layout.BindPoints = append(layout.BindPoints, ref)
		default:
			return nil, p.errorf("expected a ShaderInputLayout member declaration")
		}
		if err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
	}
	p.advance() // }
	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return layout, nil
}

// bindPointReference parses "layoutLocalName bindPointName { .shaderStages = [...] }".
// This two-identifier form (local name, then bind-point-class name) is a
// deliberately preserved ambiguity from the original grammar — see
// SPEC_FULL.md §9.
func (p *Parser) bindPointReference() (ast.BindPointReference, error) {
	localName, err := p.expectIdent()
	if err != nil {
		return ast.BindPointReference{}, err
	}
	bindPointName, err := p.expectIdent()
	if err != nil {
		return ast.BindPointReference{}, err
	}
	if err := p.expect(TokenLeftBrace); err != nil {
		return ast.BindPointReference{}, err
	}
	stages, err := p.shaderStages()
	if err != nil {
		return ast.BindPointReference{}, err
	}
	if err := p.expect(TokenRightBrace); err != nil {
		return ast.BindPointReference{}, err
	}
	return ast.BindPointReference{Name: localName, BindPointName: bindPointName, ShaderStages: stages}, nil
}

func (p *Parser) rootConstant() (ast.RootConstant, error) {
	p.advance() // RootConstant
	name, err := p.expectIdent()
	if err != nil {
		return ast.RootConstant{}, err
	}
	if err := p.expect(TokenLeftBrace); err != nil {
		return ast.RootConstant{}, err
	}
	stages, err := p.shaderStages()
	if err != nil {
		return ast.RootConstant{}, err
	}
	if err := p.expect(TokenComma); err != nil {
		return ast.RootConstant{}, err
	}
	if err := p.expectDotField("num32BitValues"); err != nil {
		return ast.RootConstant{}, err
	}
	if err := p.expect(TokenEqual); err != nil {
		return ast.RootConstant{}, err
	}
	n, err := p.expectInt()
	if err != nil {
		return ast.RootConstant{}, err
	}
	if err := p.expect(TokenRightBrace); err != nil {
		return ast.RootConstant{}, err
	}
	return ast.RootConstant{Name: name, ShaderStages: stages, Num32BitValues: uint32(n)}, nil
}

func (p *Parser) rootCBV() (ast.RootConstantBufferView, error) {
	p.advance() // RootCBV
	name, err := p.expectIdent()
	if err != nil {
		return ast.RootConstantBufferView{}, err
	}
	if err := p.expect(TokenLeftBrace); err != nil {
		return ast.RootConstantBufferView{}, err
	}
	stages, err := p.shaderStages()
	if err != nil {
		return ast.RootConstantBufferView{}, err
	}
	if err := p.expect(TokenRightBrace); err != nil {
		return ast.RootConstantBufferView{}, err
	}
	return ast.RootConstantBufferView{Name: name, ShaderStages: stages}, nil
}

func (p *Parser) staticSampler() (ast.StaticSampler, error) {
	p.advance() // StaticSampler
	name, err := p.expectIdent()
	if err != nil {
		return ast.StaticSampler{}, err
	}
	if err := p.expect(TokenLeftBrace); err != nil {
		return ast.StaticSampler{}, err
	}
	options := make(map[string]string)
	for {
		if err := p.expect(TokenDot); err != nil {
			return ast.StaticSampler{}, err
		}
		key, err := p.expectIdent()
		if err != nil {
			return ast.StaticSampler{}, err
		}
		if err := p.expect(TokenEqual); err != nil {
			return ast.StaticSampler{}, err
		}
		value, err := p.expectString()
		if err != nil {
			return ast.StaticSampler{}, err
		}
		options[key] = value
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if err := p.expect(TokenRightBrace); err != nil {
		return ast.StaticSampler{}, err
	}
	return ast.StaticSampler{Name: name, Options: options}, nil
}

func (p *Parser) shaderStages() ([]ast.ShaderStage, error) {
	if err := p.expectDotField("shaderStages"); err != nil {
		return nil, err
	}
	if err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	if err := p.expect(TokenLeftBracket); err != nil {
		return nil, err
	}
	var stages []ast.ShaderStage
	for !p.check(TokenRightBracket) {
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stage, ok := ast.ParseShaderStage(name)
		if !ok {
			return nil, p.errorf("unknown shader stage %q", name)
		}
		stages = append(stages, stage)
		if !p.check(TokenComma) {
			break
		}
		p.advance()
	}
	if err := p.expect(TokenRightBracket); err != nil {
		return nil, err
	}
	return stages, nil
}

func (p *Parser) groupStatement() (ast.Statement, error) {
	p.advance() // Group
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	vars, err := p.variableBlock()
	if err != nil {
		return nil, err
	}
	return ast.Group{Name: name, Variables: vars}, nil
}

func (p *Parser) shaderInputGroupStatement() (ast.Statement, error) {
	p.advance() // ShaderInputGroup
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenLess); err != nil {
		return nil, err
	}
	if err := p.expect(TokenBindTo); err != nil {
		return nil, err
	}
	if err := p.expect(TokenEqual); err != nil {
		return nil, err
	}
	bindPointName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(TokenGreater); err != nil {
		return nil, err
	}
	vars, err := p.variableBlock()
	if err != nil {
		return nil, err
	}
	return ast.ShaderInputGroup{Name: name, BindPointName: bindPointName, Variables: vars}, nil
}

func (p *Parser) structStatement() (ast.Statement, error) {
	p.advance() // struct
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	vars, err := p.variableBlock()
	if err != nil {
		return nil, err
	}
	return ast.Struct{Name: name, Variables: vars}, nil
}

// variableBlock parses "{ var_decl* };".
func (p *Parser) variableBlock() ([]ast.Variable, error) {
	if err := p.expect(TokenLeftBrace); err != nil {
		return nil, err
	}
	var vars []ast.Variable
	for !p.check(TokenRightBrace) {
		v, err := p.variableDecl()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
	p.advance() // }
	if err := p.expect(TokenSemicolon); err != nil {
		return nil, err
	}
	return vars, nil
}

func (p *Parser) variableDecl() (ast.Variable, error) {
	pos := p.pos()
	typ, err := p.variableType()
	if err != nil {
		return ast.Variable{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return ast.Variable{}, err
	}
	count, err := p.variableCount()
	if err != nil {
		return ast.Variable{}, err
	}
	if err := p.expect(TokenSemicolon); err != nil {
		return ast.Variable{}, err
	}
	return ast.Variable{Name: name, Type: typ, ArrayCount: count, Pos: pos}, nil
}

func (p *Parser) variableType() (ast.VariableType, error) {
	switch {
	case p.check(TokenTexture2D):
		p.advance()
		elem, err := p.angleBracketedIdent()
		if err != nil {
			return nil, err
		}
		return ast.Texture2D{ElementType: elem}, nil
	case p.check(TokenRWTexture2D):
		p.advance()
		elem, err := p.angleBracketedIdent()
		if err != nil {
			return nil, err
		}
		return ast.RWTexture2D{ElementType: elem}, nil
	case p.check(TokenByteAddressBuffer):
		p.advance()
		return ast.ByteAddressBuffer{}, nil
	case p.check(TokenRWByteAddressBuffer):
		p.advance()
		return ast.RWByteAddressBuffer{}, nil
	case p.check(TokenStructuredBuffer):
		p.advance()
		elem, err := p.angleBracketedIdent()
		if err != nil {
			return nil, err
		}
		return ast.StructuredBuffer{DataType: ast.UnresolvedType{TypeName: elem}}, nil
	case p.check(TokenRWStructuredBuffer):
		p.advance()
		elem, err := p.angleBracketedIdent()
		if err != nil {
			return nil, err
		}
		return ast.RWStructuredBuffer{DataType: ast.UnresolvedType{TypeName: elem}}, nil
	case p.check(TokenRaytracingAccelerationStructure):
		p.advance()
		return ast.RaytracingAccelerationStructure{}, nil
	default:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return ast.UnresolvedType{TypeName: name}, nil
	}
}

func (p *Parser) angleBracketedIdent() (string, error) {
	if err := p.expect(TokenLess); err != nil {
		return "", err
	}
	name, err := p.expectIdent()
	if err != nil {
		return "", err
	}
	if err := p.expect(TokenGreater); err != nil {
		return "", err
	}
	return name, nil
}

// variableCount parses the optional "[count?]" suffix. An absent suffix
// means a scalar (0); "[]" means Unbounded; "[N]" or "[CONST]" resolve to
// a fixed size.
func (p *Parser) variableCount() (uint32, error) {
	if !p.check(TokenLeftBracket) {
		return 0, nil
	}
	p.advance() // [
	if p.check(TokenRightBracket) {
		p.advance()
		return ast.Unbounded, nil
	}
	if p.check(TokenIntLiteral) {
		n, err := p.expectInt()
		if err != nil {
			return 0, err
		}
		if err := p.expect(TokenRightBracket); err != nil {
			return 0, err
		}
		return uint32(n), nil
	}
	name, err := p.expectIdent()
	if err != nil {
		return 0, err
	}
	value, ok := p.ctx.LookupConstant(name)
	if !ok {
		return 0, p.errorf("undefined constant %q", name)
	}
	if err := p.expect(TokenRightBracket); err != nil {
		return 0, err
	}
	return uint32(value), nil
}

// --- token-stream primitives ---

func (p *Parser) check(kind TokenKind) bool {
	return p.tokens[p.current].Kind == kind
}

func (p *Parser) advance() Token {
	t := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) isAtEnd() bool {
	return p.tokens[p.current].Kind == TokenEOF
}

func (p *Parser) pos() ast.Pos {
	t := p.tokens[p.current]
	return ast.Pos{File: p.file, Line: t.Line, Column: t.Column}
}

func (p *Parser) expect(kind TokenKind) error {
	if p.check(kind) {
		p.advance()
		return nil
	}
	return p.errorf("unexpected token")
}

func (p *Parser) expectDotField(name string) error {
	if err := p.expect(TokenDot); err != nil {
		return err
	}
	tok := p.tokens[p.current]
	if tok.Kind != TokenIdent || tok.Lexeme != name {
		return p.errorf("expected field %q", name)
	}
	p.advance()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	tok := p.tokens[p.current]
	if !isIdentLike(tok.Kind) {
		return "", p.errorf("expected identifier")
	}
	p.advance()
	return tok.Lexeme, nil
}

// isIdentLike reports whether k can fill an identifier position in the
// grammar (including the second identifier of a bind_ref). Only
// TokenIdent is accepted: reserved words are kept reserved and cannot
// serve as user identifiers or bind-point-class names.
func isIdentLike(k TokenKind) bool {
	return k == TokenIdent
}

func (p *Parser) expectString() (string, error) {
	tok := p.tokens[p.current]
	if tok.Kind != TokenStringLiteral {
		return "", p.errorf("expected string literal")
	}
	p.advance()
	return tok.Lexeme, nil
}

func (p *Parser) expectInt() (int64, error) {
	tok := p.tokens[p.current]
	if tok.Kind != TokenIntLiteral {
		return 0, p.errorf("expected integer literal")
	}
	p.advance()
	var n int64
	_, err := fmt.Sscanf(tok.Lexeme, "%d", &n)
	if err != nil {
		return 0, p.errorf("malformed integer literal %q", tok.Lexeme)
	}
	return n, nil
}

func (p *Parser) errorf(format string, args ...interface{}) error {
	tok := p.tokens[p.current]
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		File:    p.file,
		Line:    tok.Line,
		Column:  tok.Column,
		Token:   tok.Lexeme,
	}
}
