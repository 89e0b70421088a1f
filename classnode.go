package asmrgo

// Modifier bits, mirroring the small subset of JVM access flags this model
// needs to distinguish interfaces from classes for the subtype oracle.
const (
	AccInterface = 0x0200
	AccAbstract  = 0x0400
	AccStatic    = 0x0008
	AccFinal     = 0x0010
	AccPublic    = 0x0001
	AccPrivate   = 0x0002
)

// ParameterNode is a method parameter: an optional name (per the JVM
// classfile's optional MethodParameters attribute) and its modifier flags.
// Grounded in AsmrParameterNode from the pre-distillation source: a
// two-child composite (name, modifiers) rather than a NamedNode, since its
// value slot is a modifier list, not a single node.
type ParameterNode struct {
	base
	name      *ValueNode[string]
	modifiers *ListNode[*ValueNode[int]]
}

// NewParameterNode constructs a detached parameter node. An empty name
// denotes an absent parameter name.
func NewParameterNode(gate *modificationGate, name string) *ParameterNode {
	p := &ParameterNode{base: base{g: gate}}
	p.name = NewValueNode(gate, name)
	p.modifiers = NewListNode[*ValueNode[int]](gate)
	p.name.setParent(p)
	p.modifiers.setParent(p)
	return p
}

func (p *ParameterNode) Name() *ValueNode[string]              { return p.name }
func (p *ParameterNode) Modifiers() *ListNode[*ValueNode[int]] { return p.modifiers }
func (p *ParameterNode) IsNamePresent() bool                   { return p.name.Value() != "" }
func (p *ParameterNode) Children() []Node                      { return []Node{p.name, p.modifiers} }

func (p *ParameterNode) CopyFrom(other Node) error {
	if err := p.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*ParameterNode)
	if !ok {
		return ErrVariantMismatch
	}
	if err := p.name.CopyFrom(o.name); err != nil {
		return err
	}
	return p.modifiers.CopyFrom(o.modifiers)
}

func (p *ParameterNode) cloneDetached(gate *modificationGate) Node {
	clone := NewParameterNode(gate, p.name.Value())
	for i := 0; i < p.modifiers.Len(); i++ {
		_ = clone.modifiers.Append(NewValueNode(gate, p.modifiers.Get(i).Value()))
	}
	return clone
}

// InstructionNode is a single bytecode instruction: an opcode plus a flat
// list of operand values. Real classfile instructions carry heterogeneous
// operand shapes (label targets, constant pool indices, local slots); this
// model keeps operands as opaque ints, sufficient for transformers that
// relocate, duplicate, or delete instructions without decoding operands.
type InstructionNode struct {
	base
	opcode   *ValueNode[int]
	operands *ListNode[*ValueNode[int]]
}

func NewInstructionNode(gate *modificationGate, opcode int) *InstructionNode {
	n := &InstructionNode{base: base{g: gate}}
	n.opcode = NewValueNode(gate, opcode)
	n.operands = NewListNode[*ValueNode[int]](gate)
	n.opcode.setParent(n)
	n.operands.setParent(n)
	return n
}

func (n *InstructionNode) Opcode() *ValueNode[int]              { return n.opcode }
func (n *InstructionNode) Operands() *ListNode[*ValueNode[int]] { return n.operands }
func (n *InstructionNode) Children() []Node                     { return []Node{n.opcode, n.operands} }

func (n *InstructionNode) CopyFrom(other Node) error {
	if err := n.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*InstructionNode)
	if !ok {
		return ErrVariantMismatch
	}
	if err := n.opcode.CopyFrom(o.opcode); err != nil {
		return err
	}
	return n.operands.CopyFrom(o.operands)
}

func (n *InstructionNode) cloneDetached(gate *modificationGate) Node {
	clone := NewInstructionNode(gate, n.opcode.Value())
	for i := 0; i < n.operands.Len(); i++ {
		_ = clone.operands.Append(NewValueNode(gate, n.operands.Get(i).Value()))
	}
	return clone
}

// FieldNode is a class field: name, descriptor, and modifiers.
type FieldNode struct {
	base
	name       *ValueNode[string]
	descriptor *ValueNode[string]
	modifiers  *ListNode[*ValueNode[int]]
}

func NewFieldNode(gate *modificationGate, name, descriptor string) *FieldNode {
	f := &FieldNode{base: base{g: gate}}
	f.name = NewValueNode(gate, name)
	f.descriptor = NewValueNode(gate, descriptor)
	f.modifiers = NewListNode[*ValueNode[int]](gate)
	f.name.setParent(f)
	f.descriptor.setParent(f)
	f.modifiers.setParent(f)
	return f
}

func (f *FieldNode) Name() *ValueNode[string]              { return f.name }
func (f *FieldNode) Descriptor() *ValueNode[string]        { return f.descriptor }
func (f *FieldNode) Modifiers() *ListNode[*ValueNode[int]] { return f.modifiers }
func (f *FieldNode) Children() []Node                      { return []Node{f.name, f.descriptor, f.modifiers} }

func (f *FieldNode) CopyFrom(other Node) error {
	if err := f.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*FieldNode)
	if !ok {
		return ErrVariantMismatch
	}
	if err := f.name.CopyFrom(o.name); err != nil {
		return err
	}
	if err := f.descriptor.CopyFrom(o.descriptor); err != nil {
		return err
	}
	return f.modifiers.CopyFrom(o.modifiers)
}

func (f *FieldNode) cloneDetached(gate *modificationGate) Node {
	clone := NewFieldNode(gate, f.name.Value(), f.descriptor.Value())
	for i := 0; i < f.modifiers.Len(); i++ {
		_ = clone.modifiers.Append(NewValueNode(gate, f.modifiers.Get(i).Value()))
	}
	return clone
}

// MethodNode is a class method: name, descriptor, modifiers, parameters,
// and its instruction list.
type MethodNode struct {
	base
	name         *ValueNode[string]
	descriptor   *ValueNode[string]
	modifiers    *ListNode[*ValueNode[int]]
	parameters   *ListNode[*ParameterNode]
	instructions *ListNode[*InstructionNode]
}

func NewMethodNode(gate *modificationGate, name, descriptor string) *MethodNode {
	m := &MethodNode{base: base{g: gate}}
	m.name = NewValueNode(gate, name)
	m.descriptor = NewValueNode(gate, descriptor)
	m.modifiers = NewListNode[*ValueNode[int]](gate)
	m.parameters = NewListNode[*ParameterNode](gate)
	m.instructions = NewListNode[*InstructionNode](gate)
	for _, c := range []Node{m.name, m.descriptor, m.modifiers, m.parameters, m.instructions} {
		c.setParent(m)
	}
	return m
}

func (m *MethodNode) Name() *ValueNode[string]                  { return m.name }
func (m *MethodNode) Descriptor() *ValueNode[string]            { return m.descriptor }
func (m *MethodNode) Modifiers() *ListNode[*ValueNode[int]]     { return m.modifiers }
func (m *MethodNode) Parameters() *ListNode[*ParameterNode]     { return m.parameters }
func (m *MethodNode) Instructions() *ListNode[*InstructionNode] { return m.instructions }

func (m *MethodNode) Children() []Node {
	return []Node{m.name, m.descriptor, m.modifiers, m.parameters, m.instructions}
}

func (m *MethodNode) CopyFrom(other Node) error {
	if err := m.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*MethodNode)
	if !ok {
		return ErrVariantMismatch
	}
	for _, pair := range [][2]Node{{m.name, o.name}, {m.descriptor, o.descriptor}, {m.modifiers, o.modifiers}, {m.parameters, o.parameters}, {m.instructions, o.instructions}} {
		if err := pair[0].CopyFrom(pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MethodNode) cloneDetached(gate *modificationGate) Node {
	clone := NewMethodNode(gate, m.name.Value(), m.descriptor.Value())
	for i := 0; i < m.modifiers.Len(); i++ {
		_ = clone.modifiers.Append(NewValueNode(gate, m.modifiers.Get(i).Value()))
	}
	for i := 0; i < m.parameters.Len(); i++ {
		_ = clone.parameters.Append(m.parameters.Get(i).cloneDetached(gate).(*ParameterNode))
	}
	for i := 0; i < m.instructions.Len(); i++ {
		_ = clone.instructions.Append(m.instructions.Get(i).cloneDetached(gate).(*InstructionNode))
	}
	return clone
}

// InnerClassNode records a nested-class relationship entry.
type InnerClassNode struct {
	base
	name      *ValueNode[string]
	outerName *ValueNode[string]
	innerName *ValueNode[string]
	modifiers *ListNode[*ValueNode[int]]
}

func NewInnerClassNode(gate *modificationGate, name, outerName, innerName string) *InnerClassNode {
	n := &InnerClassNode{base: base{g: gate}}
	n.name = NewValueNode(gate, name)
	n.outerName = NewValueNode(gate, outerName)
	n.innerName = NewValueNode(gate, innerName)
	n.modifiers = NewListNode[*ValueNode[int]](gate)
	for _, c := range []Node{n.name, n.outerName, n.innerName, n.modifiers} {
		c.setParent(n)
	}
	return n
}

func (n *InnerClassNode) Name() *ValueNode[string]              { return n.name }
func (n *InnerClassNode) OuterName() *ValueNode[string]         { return n.outerName }
func (n *InnerClassNode) InnerName() *ValueNode[string]         { return n.innerName }
func (n *InnerClassNode) Modifiers() *ListNode[*ValueNode[int]] { return n.modifiers }

func (n *InnerClassNode) Children() []Node {
	return []Node{n.name, n.outerName, n.innerName, n.modifiers}
}

func (n *InnerClassNode) CopyFrom(other Node) error {
	if err := n.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*InnerClassNode)
	if !ok {
		return ErrVariantMismatch
	}
	for _, pair := range [][2]Node{{n.name, o.name}, {n.outerName, o.outerName}, {n.innerName, o.innerName}, {n.modifiers, o.modifiers}} {
		if err := pair[0].CopyFrom(pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func (n *InnerClassNode) cloneDetached(gate *modificationGate) Node {
	clone := NewInnerClassNode(gate, n.name.Value(), n.outerName.Value(), n.innerName.Value())
	for i := 0; i < n.modifiers.Len(); i++ {
		_ = clone.modifiers.Append(NewValueNode(gate, n.modifiers.Get(i).Value()))
	}
	return clone
}

// ClassNode is the top-level composite and the root of its subtree; its
// parent is always nil.
type ClassNode struct {
	base
	name         *ValueNode[string]
	superclass   *ValueNode[string]
	modifiers    *ListNode[*ValueNode[int]]
	interfaces   *ListNode[*ValueNode[string]]
	fields       *ListNode[*FieldNode]
	methods      *ListNode[*MethodNode]
	innerClasses *ListNode[*InnerClassNode]
}

// NewClassNode constructs an empty class tree rooted under gate.
func NewClassNode(gate *modificationGate, name, superclass string) *ClassNode {
	c := &ClassNode{base: base{g: gate}}
	c.name = NewValueNode(gate, name)
	c.superclass = NewValueNode(gate, superclass)
	c.modifiers = NewListNode[*ValueNode[int]](gate)
	c.interfaces = NewListNode[*ValueNode[string]](gate)
	c.fields = NewListNode[*FieldNode](gate)
	c.methods = NewListNode[*MethodNode](gate)
	c.innerClasses = NewListNode[*InnerClassNode](gate)
	for _, ch := range []Node{c.name, c.superclass, c.modifiers, c.interfaces, c.fields, c.methods, c.innerClasses} {
		ch.setParent(c)
	}
	return c
}

func (c *ClassNode) Name() *ValueNode[string]                  { return c.name }
func (c *ClassNode) Superclass() *ValueNode[string]            { return c.superclass }
func (c *ClassNode) Modifiers() *ListNode[*ValueNode[int]]     { return c.modifiers }
func (c *ClassNode) Interfaces() *ListNode[*ValueNode[string]] { return c.interfaces }
func (c *ClassNode) Fields() *ListNode[*FieldNode]             { return c.fields }
func (c *ClassNode) Methods() *ListNode[*MethodNode]           { return c.methods }
func (c *ClassNode) InnerClasses() *ListNode[*InnerClassNode]  { return c.innerClasses }

// IsInterface reports whether the ACC_INTERFACE bit is set among modifiers.
func (c *ClassNode) IsInterface() bool {
	for i := 0; i < c.modifiers.Len(); i++ {
		if c.modifiers.Get(i).Value()&AccInterface != 0 {
			return true
		}
	}
	return false
}

func (c *ClassNode) Children() []Node {
	return []Node{c.name, c.superclass, c.modifiers, c.interfaces, c.fields, c.methods, c.innerClasses}
}

func (c *ClassNode) CopyFrom(other Node) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	o, ok := other.(*ClassNode)
	if !ok {
		return ErrVariantMismatch
	}
	pairs := [][2]Node{
		{c.name, o.name}, {c.superclass, o.superclass}, {c.modifiers, o.modifiers},
		{c.interfaces, o.interfaces}, {c.fields, o.fields}, {c.methods, o.methods},
		{c.innerClasses, o.innerClasses},
	}
	for _, pair := range pairs {
		if err := pair[0].CopyFrom(pair[1]); err != nil {
			return err
		}
	}
	return nil
}

func (c *ClassNode) cloneDetached(gate *modificationGate) Node {
	clone := NewClassNode(gate, c.name.Value(), c.superclass.Value())
	for i := 0; i < c.modifiers.Len(); i++ {
		_ = clone.modifiers.Append(NewValueNode(gate, c.modifiers.Get(i).Value()))
	}
	for i := 0; i < c.interfaces.Len(); i++ {
		_ = clone.interfaces.Append(NewValueNode(gate, c.interfaces.Get(i).Value()))
	}
	for i := 0; i < c.fields.Len(); i++ {
		_ = clone.fields.Append(c.fields.Get(i).cloneDetached(gate).(*FieldNode))
	}
	for i := 0; i < c.methods.Len(); i++ {
		_ = clone.methods.Append(c.methods.Get(i).cloneDetached(gate).(*MethodNode))
	}
	for i := 0; i < c.innerClasses.Len(); i++ {
		_ = clone.innerClasses.Append(c.innerClasses.Get(i).cloneDetached(gate).(*InnerClassNode))
	}
	return clone
}
