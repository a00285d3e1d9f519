package telemetry

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stub builds a path with timestamps 1000, 900, ..., 100 from head to tail.
func stub() *ListNode {
	head := NewListNode(NewTelemetry(NewPoint(0, 0), 100))
	for ts := uint64(200); ts <= 1000; ts += 100 {
		head = NewListNode(NewTelemetry(NewPoint(0, 0), ts)).WithNext(head)
	}
	return head
}

func timestamps(head *ListNode) []uint64 {
	var out []uint64
	for cur := head; cur != nil; cur = cur.Next() {
		out = append(out, cur.Value().TimeStamp)
	}
	return out
}

func TestGetPart_Scenarios(t *testing.T) {
	all := []uint64{1000, 900, 800, 700, 600, 500, 400, 300, 200, 100}

	tests := []struct {
		name     string
		from, to uint64
		want     []uint64
	}{
		{name: "not found", from: 50, to: 70, want: nil},
		{name: "exact all", from: 100, to: 1000, want: all},
		{name: "wider than data", from: 0, to: 1500, want: all},
		{name: "exact sublist", from: 400, to: 700, want: []uint64{700, 600, 500, 400}},
		{name: "unaligned sublist", from: 350, to: 750, want: []uint64{700, 600, 500, 400}},
		{name: "single boundary point", from: 1000, to: 1000, want: []uint64{1000}},
		{name: "tail only", from: 0, to: 100, want: []uint64{100}},
		{name: "reversed bounds", from: 700, to: 400, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			part := stub().GetPart(tt.from, tt.to)
			if tt.want == nil {
				assert.Nil(t, part)
				return
			}
			require.NotNil(t, part)
			assert.Equal(t, tt.want, timestamps(part))
			assert.Equal(t, len(tt.want), part.Len())
		})
	}
}

func TestGetPart_ExactSublistEndsAfterLastMatch(t *testing.T) {
	part := stub().GetPart(400, 700)
	require.NotNil(t, part)

	node := part
	for i := 0; i < 3; i++ {
		node = node.Next()
		require.NotNil(t, node)
	}
	assert.Equal(t, uint64(400), node.Value().TimeStamp)
	assert.Nil(t, node.Next())
}

func TestGetPart_UnsortedSourceKeepsTraversalOrder(t *testing.T) {
	list := NewList(
		NewTelemetry(NewPoint(1, 1), 5),
		NewTelemetry(NewPoint(2, 2), 50),
		NewTelemetry(NewPoint(3, 3), 12),
		NewTelemetry(NewPoint(4, 4), 8),
		NewTelemetry(NewPoint(5, 5), 11),
	)

	part := list.GetPart(8, 12)
	require.NotNil(t, part)
	assert.Equal(t, []uint64{12, 8, 11}, timestamps(part))
	assert.Equal(t, NewPoint(3, 3), part.Value().Point)
}

func TestGetPart_DoesNotShareOrMutateSource(t *testing.T) {
	// Setup
	list := stub()
	before := list.Clone()

	// Execute
	part := list.GetPart(100, 1000)

	// Assert
	require.NotNil(t, part)
	assert.True(t, list.Equal(before), "source path must be unchanged")
	assert.True(t, part.Equal(list), "full range must be structurally equal")
	for src, dst := list, part; src != nil; src, dst = src.Next(), dst.Next() {
		assert.NotSame(t, src, dst)
	}

	again := list.GetPart(100, 1000)
	assert.True(t, again.Equal(part), "repeated extraction must be stable")
}

func TestGetPart_NilAndSingleNode(t *testing.T) {
	var empty *ListNode
	assert.Nil(t, empty.GetPart(0, 10))

	leaf := NewListNode(NewTelemetry(NewPoint(10.5, -3.25), 42))
	part := leaf.GetPart(42, 42)
	require.NotNil(t, part)
	assert.Equal(t, leaf.Value(), part.Value())
	assert.Nil(t, part.Next())
	assert.NotSame(t, leaf, part)
}

func TestWithNext_LeavesReceiverUntouched(t *testing.T) {
	a := NewListNode(NewTelemetry(NewPoint(1, 2), 1))
	b := NewListNode(NewTelemetry(NewPoint(3, 4), 2))

	joined := b.WithNext(a)

	assert.Nil(t, b.Next())
	assert.Same(t, a, joined.Next())
	assert.Equal(t, b.Value(), joined.Value())
}

func TestNewList(t *testing.T) {
	assert.Nil(t, NewList())

	list := NewList(
		NewTelemetry(NewPoint(0, 0), 3),
		NewTelemetry(NewPoint(0, 0), 2),
		NewTelemetry(NewPoint(0, 0), 1),
	)
	assert.Equal(t, []uint64{3, 2, 1}, timestamps(list))
	assert.Equal(t, 3, list.Len())
}

func TestEqual(t *testing.T) {
	a := NewList(NewTelemetry(NewPoint(1, 1), 1), NewTelemetry(NewPoint(2, 2), 2))
	b := NewList(NewTelemetry(NewPoint(1, 1), 1), NewTelemetry(NewPoint(2, 2), 2))
	c := NewList(NewTelemetry(NewPoint(1, 1), 1))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, c.Equal(a))
	assert.True(t, (*ListNode)(nil).Equal(nil))
}

func TestTimeRange_Match(t *testing.T) {
	r := NewTimeRange(400, 700)
	assert.True(t, r.Match(400))
	assert.True(t, r.Match(700))
	assert.False(t, r.Match(399))
	assert.False(t, r.Match(701))
	assert.False(t, NewTimeRange(10, 5).Match(7))
}

func TestList_JSONRoundTripPreservesOrder(t *testing.T) {
	part := stub().GetPart(400, 700)

	payload, err := json.Marshal(ToList(part))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"lat":0,"lon":0,"ts":700},{"lat":0,"lon":0,"ts":600},{"lat":0,"lon":0,"ts":500},{"lat":0,"lon":0,"ts":400}]`, string(payload))

	var decoded List
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.True(t, decoded.Chain().Equal(part))
}

func TestString(t *testing.T) {
	assert.Equal(t, "<empty>", (*ListNode)(nil).String())
	assert.Equal(t, "ts=7 lat=1.500000 lon=2.000000\n", NewListNode(NewTelemetry(NewPoint(1.5, 2), 7)).String())
}
