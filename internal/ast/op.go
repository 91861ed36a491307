package ast

// Op is a binary operator symbol. Symbols outside the supported set are
// representable so that they can be rejected with a diagnostic.
type Op string

const (
	Add Op = "+"
	Sub Op = "-"
	Mul Op = "*"
	Div Op = "/"
	Lt  Op = "<"
	Gt  Op = ">"
	Lte Op = "<="
	Gte Op = ">="
	Eq  Op = "=="
	Neq Op = "!="
)

// Ops lists the supported operators.
var Ops = []Op{Add, Sub, Mul, Div, Lt, Gt, Lte, Gte, Eq, Neq}

// Valid reports whether op is a supported operator.
func (op Op) Valid() bool {
	for _, o := range Ops {
		if o == op {
			return true
		}
	}
	return false
}

func (op Op) String() string { return string(op) }
