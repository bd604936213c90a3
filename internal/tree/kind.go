package tree

// Kind identifies the syntactic category of a node.
type Kind uint8

const (
	KindInvalid Kind = iota

	// statements
	KindBlock
	KindEmpty
	KindExprStmt
	KindLocalVar
	KindIf
	KindWhile
	KindDoWhile
	KindFor
	KindForEach
	KindSwitch
	KindCase
	KindBreak
	KindContinue
	KindReturn
	KindThrow
	KindTry
	KindCatch
	KindLabeled

	// expressions
	KindName
	KindField
	KindThis
	KindLiteral
	KindUnary
	KindBinary
	KindIncDec
	KindAssign
	KindCall
	KindNew
	KindConditional
	KindCast
	KindIndex
	KindInstanceOf
	KindOther
)

var kindNames = [...]string{
	KindInvalid:     "invalid",
	KindBlock:       "block",
	KindEmpty:       "empty statement",
	KindExprStmt:    "expression statement",
	KindLocalVar:    "variable declaration",
	KindIf:          "if statement",
	KindWhile:       "while loop",
	KindDoWhile:     "do-while loop",
	KindFor:         "for loop",
	KindForEach:     "for-each loop",
	KindSwitch:      "switch statement",
	KindCase:        "case label",
	KindBreak:       "break statement",
	KindContinue:    "continue statement",
	KindReturn:      "return statement",
	KindThrow:       "throw statement",
	KindTry:         "try statement",
	KindCatch:       "catch clause",
	KindLabeled:     "labeled statement",
	KindName:        "name",
	KindField:       "field access",
	KindThis:        "this",
	KindLiteral:     "literal",
	KindUnary:       "unary expression",
	KindBinary:      "binary expression",
	KindIncDec:      "increment statement",
	KindAssign:      "assignment",
	KindCall:        "call",
	KindNew:         "object creation",
	KindConditional: "conditional expression",
	KindCast:        "cast",
	KindIndex:       "index expression",
	KindInstanceOf:  "instanceof",
	KindOther:       "expression",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsStmt reports whether nodes of this kind are statements.
func (k Kind) IsStmt() bool {
	return k >= KindBlock && k <= KindLabeled
}

// IsExpr reports whether nodes of this kind are expressions.
func (k Kind) IsExpr() bool {
	return k >= KindName && k <= KindOther
}

// IsLoop reports whether the kind is one of the loop statements.
func (k Kind) IsLoop() bool {
	switch k {
	case KindWhile, KindDoWhile, KindFor, KindForEach:
		return true
	}
	return false
}

// Op is an operator carried by unary, binary, increment and assignment nodes.
type Op uint8

const (
	OpNone Op = iota

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpBitAnd
	OpBitOr
	OpXor
	OpShl
	OpShr
	OpUShr
	OpAndNot

	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe

	OpLAnd
	OpLOr

	OpNot
	OpNeg
	OpPos
	OpBitNot

	OpInc
	OpDec
)

var opSymbols = [...]string{
	OpNone:   "",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpRem:    "%",
	OpBitAnd: "&",
	OpBitOr:  "|",
	OpXor:    "^",
	OpShl:    "<<",
	OpShr:    ">>",
	OpUShr:   ">>>",
	OpAndNot: "&^",
	OpLt:     "<",
	OpLe:     "<=",
	OpGt:     ">",
	OpGe:     ">=",
	OpEq:     "==",
	OpNe:     "!=",
	OpLAnd:   "&&",
	OpLOr:    "||",
	OpNot:    "!",
	OpNeg:    "-",
	OpPos:    "+",
	OpBitNot: "~",
	OpInc:    "++",
	OpDec:    "--",
}

func (op Op) String() string {
	if int(op) < len(opSymbols) {
		return opSymbols[op]
	}
	return "?"
}

// IsComparison reports whether op is one of the relational operators.
func (op Op) IsComparison() bool {
	return op >= OpLt && op <= OpNe
}

var binaryOps = map[string]Op{
	"+":   OpAdd,
	"-":   OpSub,
	"*":   OpMul,
	"/":   OpDiv,
	"%":   OpRem,
	"&":   OpBitAnd,
	"|":   OpBitOr,
	"^":   OpXor,
	"<<":  OpShl,
	">>":  OpShr,
	">>>": OpUShr,
	"&^":  OpAndNot,
	"<":   OpLt,
	"<=":  OpLe,
	">":   OpGt,
	">=":  OpGe,
	"==":  OpEq,
	"!=":  OpNe,
	"&&":  OpLAnd,
	"||":  OpLOr,
}

// BinaryOpFromToken maps an operator token such as "<=" to its Op.
func BinaryOpFromToken(tok string) (Op, bool) {
	op, ok := binaryOps[tok]
	return op, ok
}

// AssignOpFromToken maps an assignment token ("=", "+=", ...) to the
// arithmetic Op it applies. Plain assignment yields OpNone.
func AssignOpFromToken(tok string) (Op, bool) {
	if tok == "=" || tok == ":=" {
		return OpNone, true
	}
	if len(tok) < 2 || tok[len(tok)-1] != '=' {
		return OpNone, false
	}
	return BinaryOpFromToken(tok[:len(tok)-1])
}

// LitKind distinguishes literal nodes.
type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitBool
	LitChar
	LitString
	LitNull
)
