package il

// Builder assembles a Function while handing out dense Local and Label ids.
// A frontend uses one Builder per compilation unit so label ids never repeat.
type Builder struct {
	fn        Function
	nextLocal Local
	nextLabel Label
}

// NewBuilder creates a builder for a function with the given name
func NewBuilder(name string) *Builder {
	return &Builder{fn: Function{Name: name}}
}

// Local declares a new local variable and returns its id
func (b *Builder) Local() Local {
	l := b.nextLocal
	b.nextLocal++
	b.fn.Locals = append(b.fn.Locals, l)
	return l
}

// NewLabel returns a fresh label. It is not placed until Mark is emitted.
func (b *Builder) NewLabel() Label {
	l := b.nextLabel
	b.nextLabel++
	return l
}

// Emit appends instructions and returns the builder for chaining
func (b *Builder) Emit(insts ...Instruction) *Builder {
	b.fn.Instructions = append(b.fn.Instructions, insts...)
	return b
}

// Len returns the number of instructions emitted so far
func (b *Builder) Len() int {
	return len(b.fn.Instructions)
}

// Function returns the built function. The builder must not be used afterwards.
func (b *Builder) Function() *Function {
	fn := b.fn
	return &fn
}
