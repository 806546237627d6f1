package content

import (
	"fmt"

	"github.com/resmerge/resmerge/byml"
	"github.com/resmerge/resmerge/delmap"
)

// Location is the map location marker table. Markers are keyed by message
// ID plus save flag, since the same label can mark several points.
type Location struct {
	Markers *delmap.DeleteMap[string, *byml.Node]
}

func locationKey(entry *byml.Node) (string, error) {
	msg := entry.Get("MessageID")
	if msg == nil {
		return "", missingKey(byml.ErrMissingKey, "location marker", "MessageID")
	}
	id, err := msg.StringValue()
	if err != nil {
		return "", err
	}
	if flag := entry.Get("SaveFlag"); flag != nil {
		if s, err := flag.StringValue(); err == nil {
			return id + "::" + s, nil
		}
	}
	return id, nil
}

// LocationFromByml builds a Location from a parsed location document, an
// array of marker hashes.
func LocationFromByml(doc *byml.Node) (*Location, error) {
	entries, err := doc.ArrayValues()
	if err != nil {
		return nil, err
	}
	res := &Location{Markers: delmap.New[string, *byml.Node]()}
	for i, entry := range entries {
		key, err := locationKey(entry)
		if err != nil {
			return nil, fmt.Errorf("location entry %d: %w", i, err)
		}
		res.Markers.Set(key, entry.Clone())
	}
	return res, nil
}

// ToByml re-emits the document in marker order.
func (l *Location) ToByml() *byml.Node {
	nodes := make([]*byml.Node, 0, l.Markers.Len())
	l.Markers.Iter(func(_ string, entry *byml.Node) bool {
		nodes = append(nodes, entry.Clone())
		return true
	})
	return byml.FromSlice(nodes)
}

func (l *Location) Diff(other *Location) *Location {
	return &Location{Markers: l.Markers.Diff(other.Markers, byml.Equal)}
}

func (l *Location) Merge(diff *Location) *Location {
	return &Location{Markers: l.Markers.Merge(diff.Markers)}
}

func (l *Location) Equal(other *Location) bool {
	return l.Markers.Equal(other.Markers, byml.Equal)
}
