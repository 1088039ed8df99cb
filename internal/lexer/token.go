package lexer

// TokenType identifies the lexical category of a Token. XPath 2.0's
// operator keywords (div, mod, and, or, eq, ne, ...) are not given their
// own TokenType; they are lexed as NCNAME and disambiguated by the
// parser from context, exactly like any other identifier — this mirrors
// how the grammar itself treats them (they are not reserved words
// outside operator position).
type TokenType byte

const (
	EOF TokenType = iota
	ILLEGAL

	NCNAME // unprefixed name, e.g. `foo`, `foo-bar`
	VARNAME // `$name` (value already strips the leading '$')

	INTEGER
	DECIMAL
	DOUBLE
	STRING

	// Punctuation / operators
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	LBRACE    // {
	RBRACE    // }
	COMMA     // ,
	SLASH     // /
	SLASHSLASH // //
	DCOLON    // ::
	COLON     // :
	AT        // @
	DOT       // .
	DOTDOT    // ..
	DOLLAR    // $
	PIPE      // |
	STAR      // *
	PLUS      // +
	MINUS     // -
	EQ        // =
	NE        // !=
	LT        // <
	LE        // <=
	GT        // >
	GE        // >=
	SHL       // <<
	SHR       // >>
	QUESTION  // ?
)

// Position is a 1-based line/column plus byte offset into the source.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Token is a single lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t TokenType) String() string {
	names := map[TokenType]string{
		EOF: "EOF", ILLEGAL: "ILLEGAL", NCNAME: "NCNAME", VARNAME: "VARNAME",
		INTEGER: "INTEGER", DECIMAL: "DECIMAL", DOUBLE: "DOUBLE", STRING: "STRING",
		LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]", LBRACE: "{", RBRACE: "}",
		COMMA: ",", SLASH: "/", SLASHSLASH: "//", DCOLON: "::", COLON: ":", AT: "@",
		DOT: ".", DOTDOT: "..", DOLLAR: "$", PIPE: "|", STAR: "*", PLUS: "+", MINUS: "-",
		EQ: "=", NE: "!=", LT: "<", LE: "<=", GT: ">", GE: ">=", SHL: "<<", SHR: ">>",
		QUESTION: "?",
	}
	if s, ok := names[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// keywordOperators is the set of NCName spellings the grammar treats as
// operator keywords when they appear in operator position (spec §4.1
// tokenisation rule: "operator keywords require a symbol separator").
// IsKeywordOperator exposes it, but the parser does not call it: each
// production matches its own keyword literals via TokenCursor.IsKeyword.
// The lexer never special-cases these spellings beyond the separator
// rule in Lexer.NextToken.
var keywordOperators = map[string]bool{
	"div": true, "mod": true, "and": true, "or": true,
	"eq": true, "ne": true, "lt": true, "le": true, "gt": true, "ge": true,
	"is": true, "to": true, "idiv": true, "union": true, "intersect": true,
	"except": true, "cast": true, "castable": true, "treat": true, "instance": true,
}

// IsKeywordOperator reports whether literal is one of the reserved
// operator-keyword spellings.
func IsKeywordOperator(literal string) bool { return keywordOperators[literal] }

// reservedFunctionNames is the grammar's ReservedFunctionNames set: these
// may not be used as an unprefixed function-call head (spec §4.1).
var reservedFunctionNames = map[string]bool{
	"element": true, "attribute": true, "if": true, "typeswitch": true,
	"empty-sequence": true, "document-node": true, "node": true, "item": true,
	"text": true, "comment": true, "processing-instruction": true,
	"schema-element": true, "schema-attribute": true,
}

// IsReservedFunctionName reports whether local is reserved as a function
// name when called unprefixed.
func IsReservedFunctionName(local string) bool { return reservedFunctionNames[local] }
