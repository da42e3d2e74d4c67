package script

import "fmt"

// Token is one item of a line. The set of implementations is
// closed: *VarDef, VarRef, FuncRef, ArgHint, Symbol, Keyword,
// NumericLiteral, BooleanLiteral, StringLiteral and LoopLabel.
type Token interface {
	fmt.Stringer
	token()
}

// VarDef introduces a variable. Type is nil when the variable's
// type is inferred from its initializer.
type VarDef struct {
	ID        int
	Name      string
	Type      *Type
	Annotated bool
}

// VarRef refers to the variable introduced by Def.
type VarRef struct {
	Def *VarDef
}

// FuncRef names the function called by the argument list that
// follows it.
type FuncRef struct {
	Func *Function
}

// ArgHint stands in for an omitted argument and takes the
// parameter's default value.
type ArgHint struct {
	Func  *Function
	Index int
}

// Symbol is an operator or delimiter.
type Symbol struct {
	Op *Operator
}

// Keyword is a structural keyword.
type Keyword uint8

// NumericLiteral holds the literal as written; its type is decided
// by context.
type NumericLiteral struct {
	Text string
}

type BooleanLiteral struct {
	Value bool
}

type StringLiteral struct {
	Text string
}

// LoopLabel selects the enclosing loop targeted by break or
// continue, 1 being the innermost.
type LoopLabel struct {
	Depth int
}

func (*VarDef) token()        {}
func (VarRef) token()         {}
func (FuncRef) token()        {}
func (ArgHint) token()        {}
func (Symbol) token()         {}
func (Keyword) token()        {}
func (NumericLiteral) token() {}
func (BooleanLiteral) token() {}
func (StringLiteral) token()  {}
func (LoopLabel) token()      {}

func (d *VarDef) String() string {
	if d.Annotated {
		return fmt.Sprintf("var %s %s", d.Name, d.Type)
	}
	return "var " + d.Name
}

func (r VarRef) String() string         { return r.Def.Name }
func (f FuncRef) String() string        { return f.Func.Key() }
func (s Symbol) String() string         { return s.Op.Name }
func (n NumericLiteral) String() string { return n.Text }
func (s StringLiteral) String() string  { return fmt.Sprintf("%q", s.Text) }
func (l LoopLabel) String() string      { return fmt.Sprintf("%d", l.Depth) }

func (h ArgHint) String() string {
	return fmt.Sprintf("<%s>", h.Func.Params[h.Index].Name)
}

func (b BooleanLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

const (
	If Keyword = iota + 1
	Else
	While
	DoWhile
	For
	In
	Step
	Break
	Continue
	Let
	Var
	Func
	Return
)

var keywordNames = [...]string{
	If:       "if",
	Else:     "else",
	While:    "while",
	DoWhile:  "do while",
	For:      "for",
	In:       "in",
	Step:     "step",
	Break:    "break",
	Continue: "continue",
	Let:      "let",
	Var:      "var",
	Func:     "func",
	Return:   "return",
}

func (k Keyword) String() string {
	if int(k) < len(keywordNames) && keywordNames[k] != "" {
		return keywordNames[k]
	}
	return fmt.Sprintf("keyword(%d)", uint8(k))
}

// KeywordByName returns the keyword spelled name.
func KeywordByName(name string) (Keyword, bool) {
	for k, s := range keywordNames {
		if s != "" && s == name {
			return Keyword(k), true
		}
	}
	return 0, false
}

// Line is one line of a program. Indent is the nesting depth.
type Line struct {
	Indent int
	Tokens []Token
}

// Program is an ordered sequence of lines.
type Program struct {
	Lines []Line
}
