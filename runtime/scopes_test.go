package runtime

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestSymbolTable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.runtime")
	defer teardown()
	//
	st := NewSymbolTable()
	b, _ := st.Define("b")
	a, _ := st.Define("a")
	if a == nil || b == nil || a == b {
		t.Fatalf("expected two distinct tags")
	}
	if st.Resolve("a") != a {
		t.Errorf("cannot find stored tag in table")
	}
	if _, found := st.ResolveOrDefine("a"); !found {
		t.Errorf("expected 'a' to be present")
	}
	if tag, found := st.ResolveOrDefine("c"); found || tag == nil {
		t.Errorf("expected 'c' to be created")
	}
	if _, old := st.Define("a"); old != a {
		t.Errorf("expected 'a' to be replaced")
	}
	if tag, _ := st.Define(""); tag != nil {
		t.Errorf("expected empty name to be rejected")
	}
	var names []string
	st.Each(func(tag *Tag) { names = append(names, tag.Name) })
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("expected tags in name order, have %v", names)
	}
}

func TestTagValue(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.runtime")
	defer teardown()
	//
	tag := NewTag("x").WithValue(IntValue(Int32, 7))
	if tag.Value.Kind() != Int32 || tag.Value.Int() != 7 {
		t.Errorf("expected tag value to be int32 7, is %s", tag)
	}
}

func TestScopeTree(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.runtime")
	defer teardown()
	//
	tree := new(ScopeTree)
	globals := tree.Push("globals")
	globals.Declared.Define("a")
	local := tree.Push("local")
	if tag, sc := local.Resolve("a"); tag == nil || sc != globals {
		t.Errorf("expected to find 'a' in global scope")
	}
	if tag, sc := local.Resolve("b"); tag != nil || sc != nil {
		t.Errorf("did not expect to find 'b'")
	}
	if popped := tree.Pop(); popped != local || tree.Current() != globals {
		t.Errorf("expected to return to global scope")
	}
}

func TestRuntimeBlocks(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.runtime")
	defer teardown()
	//
	rt := NewRuntimeEnvironment(nil)
	rt.Assign("x", IntValue(Int32, 1))
	f := rt.EnterBlock("block")
	rt.Assign("x", StringValue("one")) // global x is visible, so it is overwritten
	rt.Assign("y", BoolValue(true))
	if tag := rt.Lookup("y"); tag == nil || f.Vars.Resolve("y") != tag {
		t.Errorf("expected 'y' to be defined in the block frame")
	}
	if tag, sc := rt.Scopes.Current().Resolve("y"); tag == nil || sc.Name != "block" {
		t.Errorf("expected 'y' to be declared in the block scope")
	}
	if rt.Frames.ForScope(rt.Scopes.Current()) != f {
		t.Errorf("expected block frame for block scope")
	}
	if err := rt.LeaveBlock(); err != nil {
		t.Fatal(err)
	}
	if rt.Lookup("y") != nil {
		t.Errorf("expected 'y' to be gone with its frame")
	}
	x := rt.Lookup("x")
	if x == nil || x.Value.Str() != "one" || x.Assigned != 2 {
		t.Errorf("expected global 'x' to be 'one' after 2 assignments, is %v", x)
	}
	if err := rt.LeaveBlock(); err != ErrNoBlock {
		t.Errorf("expected ErrNoBlock at global level, have %v", err)
	}
}

func TestAssignEmptyName(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsekit.runtime")
	defer teardown()
	//
	rt := NewRuntimeEnvironment(nil)
	if tag, err := rt.Assign("", IntValue(Int32, 1)); err != ErrEmptyName || tag != nil {
		t.Errorf("expected ErrEmptyName for empty variable name, have %v, %v", tag, err)
	}
	if rt.Frames.Globals().Vars.Size() != 0 {
		t.Errorf("expected no variable to be defined")
	}
}
