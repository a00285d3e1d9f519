package telemetry

// Record is the wire form of a single Telemetry sample.
type Record struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lon" yaml:"lon"`
	TimeStamp uint64  `json:"ts" yaml:"ts"`
}

// List is the wire form of a path, head first.
type List []Record

// ToList flattens a path into its wire form.
func ToList(head *ListNode) List {
	list := make(List, 0, head.Len())
	for cur := head; cur != nil; cur = cur.Next() {
		v := cur.Value()
		list = append(list, Record{
			Latitude:  v.Point.Latitude,
			Longitude: v.Point.Longitude,
			TimeStamp: v.TimeStamp,
		})
	}
	return list
}

// Chain rebuilds a path from its wire form, preserving order.
func (l List) Chain() *ListNode {
	values := make([]Telemetry, len(l))
	for i, r := range l {
		values[i] = NewTelemetry(NewPoint(r.Latitude, r.Longitude), r.TimeStamp)
	}
	return NewList(values...)
}
