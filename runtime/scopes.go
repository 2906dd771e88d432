package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// --- Tags ------------------------------------------------------------------

// Tag is a variable of an interpreted program. Grammars consist of symbols,
// too, so variables are called tags to keep the two apart.
type Tag struct {
	Name     string
	Value    Value
	Assigned int         // number of assignments
	UData    interface{} // user data
}

// NewTag creates a tag with value none.
func NewTag(name string) *Tag {
	return &Tag{Name: name}
}

// WithValue sets the initial value of a tag. Use as
//
//    tag := NewTag("x").WithValue(runtime.StringValue("x"))
//
func (t *Tag) WithValue(v Value) *Tag {
	t.Value = v
	return t
}

func (t *Tag) String() string {
	return fmt.Sprintf("<tag %s:%s=%s>", t.Name, t.Value.Kind(), t.Value)
}

// --- Symbol tables ---------------------------------------------------------

// SymbolTable stores tags by name. Iteration is in name order.
type SymbolTable struct {
	tags *treemap.Map
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{tags: treemap.NewWithStringComparator()}
}

// Resolve returns the tag for name, or nil.
func (st *SymbolTable) Resolve(name string) *Tag {
	if t, ok := st.tags.Get(name); ok {
		return t.(*Tag)
	}
	return nil
}

// Define creates a tag for name, replacing an existing one. It returns the
// new tag and the replaced one (or nil). Empty names are rejected with a
// nil tag.
func (st *SymbolTable) Define(name string) (tag *Tag, old *Tag) {
	if name == "" {
		return nil, nil
	}
	old = st.Resolve(name)
	return st.Insert(NewTag(name)), old
}

// Insert stores a pre-created tag and returns it.
func (st *SymbolTable) Insert(tag *Tag) *Tag {
	st.tags.Put(tag.Name, tag)
	return tag
}

// ResolveOrDefine finds the tag for name and creates it if it does not
// exist. The flag tells if the tag has already been present.
func (st *SymbolTable) ResolveOrDefine(name string) (*Tag, bool) {
	if tag := st.Resolve(name); tag != nil {
		return tag, true
	}
	tag, _ := st.Define(name)
	return tag, false
}

// Size is the number of tags in the table.
func (st *SymbolTable) Size() int {
	return st.tags.Size()
}

// Each calls f for every tag, in name order.
func (st *SymbolTable) Each(f func(*Tag)) {
	st.tags.Each(func(_, t interface{}) {
		f(t.(*Tag))
	})
}

// --- Scopes ----------------------------------------------------------------

// Scope is a named block of an interpreted program. It records the names
// declared within the block. Scopes link to their parent, forming a tree.
type Scope struct {
	Name     string
	Parent   *Scope
	Declared *SymbolTable
}

// NewScope creates a scope nested in parent, which may be nil.
func NewScope(name string, parent *Scope) *Scope {
	return &Scope{Name: name, Parent: parent, Declared: NewSymbolTable()}
}

func (sc *Scope) String() string {
	return fmt.Sprintf("<scope %s>", sc.Name)
}

// Resolve searches name in sc and its ancestors. It returns the tag and the
// scope declaring it, or nil and nil.
func (sc *Scope) Resolve(name string) (*Tag, *Scope) {
	for s := sc; s != nil; s = s.Parent {
		if tag := s.Declared.Resolve(name); tag != nil {
			return tag, s
		}
	}
	return nil, nil
}

// ScopeTree collects scopes. During analysis or evaluation it is used as a
// stack, with the innermost active scope on top.
type ScopeTree struct {
	base, top *Scope
}

// Push creates a scope nested in the current one and makes it current.
func (tree *ScopeTree) Push(name string) *Scope {
	sc := NewScope(name, tree.top)
	if tree.top == nil {
		tree.base = sc
	}
	tree.top = sc
	tracer().P("scope", name).Debugf("pushing new scope")
	return sc
}

// Pop leaves the current scope and returns it.
func (tree *ScopeTree) Pop() *Scope {
	if tree.top == nil {
		panic("attempt to pop scope from empty scope tree")
	}
	sc := tree.top
	tracer().Debugf("popping scope [%s]", sc.Name)
	tree.top = sc.Parent
	return sc
}

// Current is the innermost active scope, or nil.
func (tree *ScopeTree) Current() *Scope {
	return tree.top
}

// Globals is the outermost scope, or nil.
func (tree *ScopeTree) Globals() *Scope {
	return tree.base
}

// --- Frames ----------------------------------------------------------------

// Frame holds the variables of an active scope.
type Frame struct {
	Scope  *Scope
	Vars   *SymbolTable
	Parent *Frame
}

func (f *Frame) String() string {
	return fmt.Sprintf("<frame %s>", f.Scope.Name)
}

// FrameStack is the runtime stack of frames. The bottom frame holds the
// global variables.
type FrameStack struct {
	base, top *Frame
	depth     int
}

// Push creates a frame for scope on top of the stack.
func (fs *FrameStack) Push(scope *Scope) *Frame {
	f := &Frame{Scope: scope, Vars: NewSymbolTable(), Parent: fs.top}
	if fs.top == nil {
		fs.base = f
	}
	fs.top = f
	fs.depth++
	tracer().P("frame", scope.Name).Debugf("pushing new frame")
	return f
}

// Pop removes the top frame and returns it.
func (fs *FrameStack) Pop() *Frame {
	if fs.top == nil {
		panic("attempt to pop frame from empty stack")
	}
	f := fs.top
	fs.top = f.Parent
	fs.depth--
	tracer().Debugf("popping frame [%s]", f.Scope.Name)
	return f
}

// Top is the innermost frame, or nil.
func (fs *FrameStack) Top() *Frame {
	return fs.top
}

// Globals is the bottom frame, or nil.
func (fs *FrameStack) Globals() *Frame {
	return fs.base
}

// Depth is the number of frames on the stack.
func (fs *FrameStack) Depth() int {
	return fs.depth
}

// ForScope finds the innermost frame for scope, or nil.
func (fs *FrameStack) ForScope(scope *Scope) *Frame {
	for f := fs.top; f != nil; f = f.Parent {
		if f.Scope == scope {
			return f
		}
	}
	return nil
}
