package symbolic

// BinaryOp is the operator of a BinOpResult.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
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

	OpInstanceOf
)

var binaryWords = [...]string{
	OpAdd:        "plus",
	OpSub:        "minus",
	OpMul:        "times",
	OpDiv:        "divided by",
	OpRem:        "modulo",
	OpBitAnd:     "bitwise and",
	OpBitOr:      "bitwise or",
	OpXor:        "xor",
	OpShl:        "shifted left by",
	OpShr:        "shifted right by",
	OpUShr:       "unsigned shifted right by",
	OpAndNot:     "and not",
	OpLt:         "less than",
	OpLe:         "less than or equal to",
	OpGt:         "greater than",
	OpGe:         "greater than or equal to",
	OpEq:         "equals",
	OpNe:         "does not equal",
	OpInstanceOf: "is an instance of",
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryWords) {
		return binaryWords[op]
	}
	return "unknown"
}

// IsComparison reports whether op is one of <, <=, >, >=, ==, !=.
func (op BinaryOp) IsComparison() bool {
	return op >= OpLt && op <= OpNe
}

// Complement returns the comparison that holds exactly when op does not.
// Non-comparison operators are returned unchanged.
func (op BinaryOp) Complement() BinaryOp {
	switch op {
	case OpLt:
		return OpGe
	case OpGe:
		return OpLt
	case OpLe:
		return OpGt
	case OpGt:
		return OpLe
	case OpEq:
		return OpNe
	case OpNe:
		return OpEq
	}
	return op
}

// Mirror returns the comparison obtained by swapping the operands
// (a < b is b > a).
func (op BinaryOp) Mirror() BinaryOp {
	switch op {
	case OpLt:
		return OpGt
	case OpGt:
		return OpLt
	case OpLe:
		return OpGe
	case OpGe:
		return OpLe
	}
	return op
}

// UnaryOp is the operator of an UnOpResult.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpPos
	OpBitNot
)

var unaryWords = [...]string{
	OpNot:    "not",
	OpNeg:    "negative",
	OpPos:    "positive",
	OpBitNot: "complement of",
}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryWords) {
		return unaryWords[op]
	}
	return "unknown"
}
