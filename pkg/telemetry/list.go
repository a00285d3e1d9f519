package telemetry

import (
	"fmt"
	"strings"
)

// ListNode is one link of a singly linked path of telemetry samples.
// Nodes are immutable once built; a nil *ListNode is the empty path.
type ListNode struct {
	val  Telemetry
	next *ListNode
}

// NewListNode creates a leaf node with no successor.
func NewListNode(val Telemetry) *ListNode {
	return &ListNode{val: val}
}

// WithNext returns a node carrying the same value as n with next as its successor.
// n itself is left untouched, so paths are grown tail to head:
//
//	head := NewListNode(newest).WithNext(NewListNode(oldest))
func (n *ListNode) WithNext(next *ListNode) *ListNode {
	return &ListNode{val: n.val, next: next}
}

// Value returns the sample stored in the node.
func (n *ListNode) Value() Telemetry {
	return n.val
}

// Next returns the successor, or nil at the end of the path.
func (n *ListNode) Next() *ListNode {
	return n.next
}

// NewList builds a path whose head is values[0]. It returns nil for no values.
func NewList(values ...Telemetry) *ListNode {
	var head *ListNode
	for i := len(values) - 1; i >= 0; i-- {
		head = NewListNode(values[i]).WithNext(head)
	}
	return head
}

// GetPart returns a newly allocated path holding a copy of every sample whose
// timestamp lies in [from, to], in the same head-to-tail order as n.
// It returns nil if no sample qualifies. The source path is never modified
// and shares no nodes with the result, so GetPart may be called repeatedly.
func (n *ListNode) GetPart(from, to uint64) *ListNode {
	r := NewTimeRange(from, to)

	seed, rest := n.locateStart(r)
	if seed == nil {
		return nil
	}

	tail := seed
	for cur := rest; cur != nil; cur = cur.next {
		if !r.Match(cur.val.TimeStamp) {
			continue
		}
		tail.next = NewListNode(cur.val)
		tail = tail.next
	}

	return seed
}

// locateStart skips leading samples outside r. It returns a copy of the first
// matching node and the node after it, or nil when the path is exhausted.
func (n *ListNode) locateStart(r TimeRange) (seed, rest *ListNode) {
	for cur := n; cur != nil; cur = cur.next {
		if r.Match(cur.val.TimeStamp) {
			return NewListNode(cur.val), cur.next
		}
	}
	return nil, nil
}

// Len returns the number of nodes in the path.
func (n *ListNode) Len() int {
	count := 0
	for cur := n; cur != nil; cur = cur.next {
		count++
	}
	return count
}

// Values returns the samples head to tail.
func (n *ListNode) Values() []Telemetry {
	values := make([]Telemetry, 0, n.Len())
	for cur := n; cur != nil; cur = cur.next {
		values = append(values, cur.val)
	}
	return values
}

// Clone returns a deep copy of the path.
func (n *ListNode) Clone() *ListNode {
	return NewList(n.Values()...)
}

// Equal reports whether both paths hold equal samples in the same order.
func (n *ListNode) Equal(other *ListNode) bool {
	a, b := n, other
	for a != nil && b != nil {
		if a.val != b.val {
			return false
		}
		a, b = a.next, b.next
	}
	return a == nil && b == nil
}

// String renders the path one sample per line.
func (n *ListNode) String() string {
	if n == nil {
		return "<empty>"
	}

	var sb strings.Builder
	for cur := n; cur != nil; cur = cur.next {
		fmt.Fprintf(&sb, "ts=%d lat=%f lon=%f\n", cur.val.TimeStamp, cur.val.Point.Latitude, cur.val.Point.Longitude)
	}
	return sb.String()
}
