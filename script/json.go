package script

import (
	"encoding/json"

	"scriptc/errors"
)

type jsonProgram struct {
	Lines []jsonLine `json:"lines"`
}

type jsonLine struct {
	Indent int        `json:"indent"`
	Items  []jsonItem `json:"items"`
}

// jsonItem has exactly one field set.
type jsonItem struct {
	Var  *jsonVar `json:"var,omitempty"`
	Ref  *int     `json:"ref,omitempty"`
	Func string   `json:"func,omitempty"`
	Arg  *jsonArg `json:"arg,omitempty"`
	Sym  string   `json:"sym,omitempty"`
	Kw   string   `json:"kw,omitempty"`
	Num  string   `json:"num,omitempty"`
	Bool *bool    `json:"bool,omitempty"`
	Str  *string  `json:"str,omitempty"`
	Loop int      `json:"loop,omitempty"`
}

type jsonVar struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type,omitempty"`
	Annotated bool   `json:"annotated,omitempty"`
}

type jsonArg struct {
	Func  string `json:"func"`
	Index int    `json:"index"`
}

// MarshalJSON encodes p in the program interchange format. The
// encoding of a given program is always the same byte sequence.
func (p Program) MarshalJSON() ([]byte, error) {
	jp := jsonProgram{Lines: make([]jsonLine, 0, len(p.Lines))}
	for row, line := range p.Lines {
		jl := jsonLine{Indent: line.Indent, Items: make([]jsonItem, 0, len(line.Tokens))}
		for col, tok := range line.Tokens {
			item, err := encodeToken(tok)
			if err != nil {
				return nil, errors.WithData(err, "row", row, "col", col)
			}
			jl.Items = append(jl.Items, item)
		}
		jp.Lines = append(jp.Lines, jl)
	}
	return json.Marshal(jp)
}

func encodeToken(tok Token) (jsonItem, error) {
	switch t := tok.(type) {
	case *VarDef:
		v := &jsonVar{ID: t.ID, Name: t.Name, Annotated: t.Annotated}
		if t.Type != nil {
			v.Type = t.Type.Name
		}
		return jsonItem{Var: v}, nil
	case VarRef:
		if t.Def == nil {
			return jsonItem{}, errors.WithDetail(ErrUnknownToken, "reference without a definition")
		}
		id := t.Def.ID
		return jsonItem{Ref: &id}, nil
	case FuncRef:
		return jsonItem{Func: t.Func.Key()}, nil
	case ArgHint:
		return jsonItem{Arg: &jsonArg{Func: t.Func.Key(), Index: t.Index}}, nil
	case Symbol:
		return jsonItem{Sym: t.Op.Key}, nil
	case Keyword:
		return jsonItem{Kw: t.String()}, nil
	case NumericLiteral:
		return jsonItem{Num: t.Text}, nil
	case BooleanLiteral:
		b := t.Value
		return jsonItem{Bool: &b}, nil
	case StringLiteral:
		s := t.Text
		return jsonItem{Str: &s}, nil
	case LoopLabel:
		return jsonItem{Loop: t.Depth}, nil
	}
	return jsonItem{}, errors.WithDetailf(ErrUnknownToken, "token %T", tok)
}

// UnmarshalJSON decodes the program interchange format. Variable
// references are bound by id to definitions anywhere in the
// program; whether a definition precedes its uses is checked by
// the compiler.
func (p *Program) UnmarshalJSON(b []byte) error {
	var jp jsonProgram
	err := json.Unmarshal(b, &jp)
	if err != nil {
		return errors.Wrap(err, "decoding program")
	}

	defs := make(map[int]*VarDef)
	for row, jl := range jp.Lines {
		for col, item := range jl.Items {
			if item.Var == nil {
				continue
			}
			if _, dup := defs[item.Var.ID]; dup {
				return errors.WithData(errors.WithDetailf(ErrUnknownToken, "variable %d defined twice", item.Var.ID), "row", row, "col", col)
			}
			d := &VarDef{ID: item.Var.ID, Name: item.Var.Name, Annotated: item.Var.Annotated}
			if item.Var.Type != "" {
				t, ok := TypeByName(item.Var.Type)
				if !ok {
					return errors.WithData(errors.WithDetailf(ErrUnknownToken, "type %q", item.Var.Type), "row", row, "col", col)
				}
				d.Type = t
			}
			defs[d.ID] = d
		}
	}

	prog := Program{Lines: make([]Line, 0, len(jp.Lines))}
	for row, jl := range jp.Lines {
		if jl.Indent < 0 {
			return errors.WithData(errors.WithDetailf(ErrUnknownToken, "negative indent %d", jl.Indent), "row", row)
		}
		line := Line{Indent: jl.Indent, Tokens: make([]Token, 0, len(jl.Items))}
		for col, item := range jl.Items {
			tok, err := decodeToken(item, defs)
			if err != nil {
				return errors.WithData(err, "row", row, "col", col)
			}
			line.Tokens = append(line.Tokens, tok)
		}
		prog.Lines = append(prog.Lines, line)
	}
	*p = prog
	return nil
}

func decodeToken(item jsonItem, defs map[int]*VarDef) (Token, error) {
	switch {
	case item.Var != nil:
		return defs[item.Var.ID], nil
	case item.Ref != nil:
		d, ok := defs[*item.Ref]
		if !ok {
			return nil, errors.WithDetailf(ErrUnknownToken, "variable %d is never defined", *item.Ref)
		}
		return VarRef{Def: d}, nil
	case item.Func != "":
		f, ok := FunctionByKey(item.Func)
		if !ok {
			return nil, errors.WithDetailf(ErrUnknownToken, "function %s", item.Func)
		}
		return FuncRef{Func: f}, nil
	case item.Arg != nil:
		f, ok := FunctionByKey(item.Arg.Func)
		if !ok {
			return nil, errors.WithDetailf(ErrUnknownToken, "function %s", item.Arg.Func)
		}
		if item.Arg.Index < 0 || item.Arg.Index >= len(f.Params) {
			return nil, errors.WithDetailf(ErrUnknownToken, "%s has no parameter %d", f.Key(), item.Arg.Index)
		}
		return ArgHint{Func: f, Index: item.Arg.Index}, nil
	case item.Sym != "":
		o, ok := OperatorByKey(item.Sym)
		if !ok {
			return nil, errors.WithDetailf(ErrUnknownToken, "operator %q", item.Sym)
		}
		return Symbol{Op: o}, nil
	case item.Kw != "":
		k, ok := KeywordByName(item.Kw)
		if !ok {
			return nil, errors.WithDetailf(ErrUnknownToken, "keyword %q", item.Kw)
		}
		return k, nil
	case item.Num != "":
		return NumericLiteral{Text: item.Num}, nil
	case item.Bool != nil:
		return BooleanLiteral{Value: *item.Bool}, nil
	case item.Str != nil:
		return StringLiteral{Text: *item.Str}, nil
	case item.Loop != 0:
		return LoopLabel{Depth: item.Loop}, nil
	}
	return nil, errors.WithDetail(ErrUnknownToken, "empty item")
}
