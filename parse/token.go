// Package parse provides the lexer and recursive-descent parser for the
// shader input definition language (.si files).
package parse

// TokenKind classifies a lexical token.
type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenError

	TokenIdent
	TokenIntLiteral
	TokenStringLiteral

	// Punctuation
	TokenLeftBrace    // {
	TokenRightBrace   // }
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLess         // <
	TokenGreater      // >
	TokenComma        // ,
	TokenSemicolon    // ;
	TokenEqual        // =
	TokenDot          // .

	// Directives
	TokenHashInclude // #include
	TokenHashOutput  // #output
	TokenHashConstant // #constant

	// Reserved words
	TokenStruct
	TokenBindPoint
	TokenShaderInputLayout
	TokenRootConstant
	TokenRootCBV
	TokenStaticSampler
	TokenGroup
	TokenShaderInputGroup
	TokenTexture2D
	TokenRWTexture2D
	TokenByteAddressBuffer
	TokenRWByteAddressBuffer
	TokenStructuredBuffer
	TokenRWStructuredBuffer
	TokenRaytracingAccelerationStructure
	TokenLocal
	TokenBindTo
)

// Token is a single lexical token with its source span.
type Token struct {
	Kind   TokenKind
	Lexeme string
	Line   int
	Column int
}

var reservedWords = map[string]TokenKind{
	"struct":                          TokenStruct,
	"BindPoint":                       TokenBindPoint,
	"ShaderInputLayout":               TokenShaderInputLayout,
	"RootConstant":                    TokenRootConstant,
	"RootCBV":                         TokenRootCBV,
	"StaticSampler":                   TokenStaticSampler,
	"Group":                           TokenGroup,
	"ShaderInputGroup":                TokenShaderInputGroup,
	"Texture2D":                       TokenTexture2D,
	"RWTexture2D":                     TokenRWTexture2D,
	"ByteAddressBuffer":               TokenByteAddressBuffer,
	"RWByteAddressBuffer":             TokenRWByteAddressBuffer,
	"StructuredBuffer":                TokenStructuredBuffer,
	"RWStructuredBuffer":              TokenRWStructuredBuffer,
	"RaytracingAccelerationStructure": TokenRaytracingAccelerationStructure,
	"Local":                           TokenLocal,
	"BindTo":                          TokenBindTo,
}

var directiveWords = map[string]TokenKind{
	"#include":  TokenHashInclude,
	"#output":   TokenHashOutput,
	"#constant": TokenHashConstant,
}
