package pgstore

import (
	"context"
	"math/rand"
	"os"
	"testing"
	"time"

	"scriptc/script"
	"scriptc/testutil"
)

func sampleLines() (x *script.VarDef, lines []script.Line) {
	x = &script.VarDef{ID: 1, Name: "x", Type: script.I32, Annotated: true}
	assign := script.Symbol{Op: script.Op(script.OpAssign)}
	return x, []script.Line{
		{Tokens: []script.Token{script.Var, x, assign, script.NumericLiteral{Text: "1"}}},
		{Tokens: []script.Token{script.While, script.VarRef{Def: x}, script.Symbol{Op: script.Op(script.OpLt)}, script.NumericLiteral{Text: "9"}}},
		{Indent: 1, Tokens: []script.Token{script.VarRef{Def: x}, script.Symbol{Op: script.Op(script.OpAddAssign)}, script.NumericLiteral{Text: "2"}}},
	}
}

func TestEncodeItems(t *testing.T) {
	_, lines := sampleLines()
	got, err := encodeItems(lines[2])
	if err != nil {
		testutil.FatalErr(t, err)
	}
	want := `[{"ref":1},{"sym":"+="},{"num":"2"}]`
	if string(got) != want {
		t.Errorf("encodeItems = %s, want %s", got, want)
	}
}

// newStore connects to the database named by SCRIPTC_TEST_DB and
// returns a store with an unused script ID.
func newStore(t *testing.T) (*Store, int64) {
	url := os.Getenv("SCRIPTC_TEST_DB")
	if url == "" {
		t.Skip("SCRIPTC_TEST_DB not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, url)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	t.Cleanup(func() { db.Close() })
	id := rand.New(rand.NewSource(time.Now().UnixNano())).Int63()
	t.Cleanup(func() {
		db.ExecContext(ctx, `DELETE FROM script_lines WHERE script_id = $1`, id)
	})
	return New(db), id
}

func TestAppendLoad(t *testing.T) {
	s, id := newStore(t)
	ctx := context.Background()
	x, lines := sampleLines()
	for _, line := range lines {
		if _, err := s.Append(ctx, id, line); err != nil {
			testutil.FatalErr(t, err)
		}
	}

	prog, keys, err := s.Load(ctx, id)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	if len(prog.Lines) != 3 || len(keys) != 3 {
		t.Fatalf("loaded %d lines and %d keys, want 3", len(prog.Lines), len(keys))
	}
	def, ok := prog.Lines[0].Tokens[1].(*script.VarDef)
	if !ok || def.Name != x.Name || def.Type != script.I32 {
		t.Fatalf("line 0 token 1 = %v", prog.Lines[0].Tokens[1])
	}
	if ref, ok := prog.Lines[2].Tokens[0].(script.VarRef); !ok || ref.Def != def {
		t.Errorf("reference in line 2 not bound to the loaded definition")
	}
	testutil.ExpectEqual(t, prog.Lines[2].Indent, 1, "indent")
}

func TestInsertDelete(t *testing.T) {
	s, id := newStore(t)
	ctx := context.Background()
	_, lines := sampleLines()

	first, err := s.Append(ctx, id, lines[0])
	if err != nil {
		testutil.FatalErr(t, err)
	}
	last, err := s.Append(ctx, id, lines[2])
	if err != nil {
		testutil.FatalErr(t, err)
	}
	mid, err := s.Insert(ctx, id, first, last, lines[1])
	if err != nil {
		testutil.FatalErr(t, err)
	}
	head, err := s.Insert(ctx, id, nil, first, script.Line{Tokens: []script.Token{script.StringLiteral{Text: "start"}}})
	if err != nil {
		testutil.FatalErr(t, err)
	}

	_, keys, err := s.Load(ctx, id)
	if err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectEqual(t, keys, []Key{head, first, mid, last}, "key order")

	if err := s.Delete(ctx, id, head); err != nil {
		testutil.FatalErr(t, err)
	}
	testutil.ExpectError(t, ErrNoLine, "deleting twice", func() error { return s.Delete(ctx, id, head) })
	testutil.ExpectError(t, ErrNoLine, "insert after a deleted line", func() error {
		_, err := s.Insert(ctx, id, head, first, lines[1])
		return err
	})
}
