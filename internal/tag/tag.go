package tag

// Tag is an in-memory tag tree.
type Tag struct {
	group string
	root  *Element
}

// New returns an empty tag of the given group (file extension).
func New(group string) *Tag {
	return &Tag{group: group, root: &Element{}}
}

// Group returns the tag group.
func (t *Tag) Group() string { return t.group }

// Root returns the top-level element.
func (t *Tag) Root() *Element { return t.root }

// Block is shorthand for t.Root().Block(name).
func (t *Tag) Block(name string) *Block { return t.root.Block(name) }
