package tag

import "fmt"

// Block is an ordered list of elements.
type Block struct {
	name     string
	elements []*Element
}

// Name returns the block name.
func (b *Block) Name() string { return b.name }

// Len returns the element count.
func (b *Block) Len() int { return len(b.elements) }

// Element returns the element at index i.
func (b *Block) Element(i int) (*Element, error) {
	if i < 0 || i >= len(b.elements) {
		return nil, fmt.Errorf("%w: %s[%d] of %d", ErrIndex, b.name, i, len(b.elements))
	}
	return b.elements[i], nil
}

// Elements returns the elements in order.
func (b *Block) Elements() []*Element {
	out := make([]*Element, len(b.elements))
	copy(out, b.elements)
	return out
}

// IndexOf returns the position of el, or -1.
func (b *Block) IndexOf(el *Element) int {
	for i, candidate := range b.elements {
		if candidate == el {
			return i
		}
	}
	return -1
}

// Add appends a blank element and returns it.
func (b *Block) Add() *Element {
	el := &Element{}
	b.elements = append(b.elements, el)
	return el
}

// Remove deletes the element at index i, shifting later elements down.
func (b *Block) Remove(i int) error {
	if i < 0 || i >= len(b.elements) {
		return fmt.Errorf("%w: remove %s[%d] of %d", ErrIndex, b.name, i, len(b.elements))
	}
	copy(b.elements[i:], b.elements[i+1:])
	b.elements[len(b.elements)-1] = nil
	b.elements = b.elements[:len(b.elements)-1]
	return nil
}

// Clear removes every element.
func (b *Block) Clear() {
	clear(b.elements)
	b.elements = b.elements[:0]
}
