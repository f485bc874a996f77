package bridge

import "github.com/tghp/wpgraphql-mb/internal/delta"

// typeOf returns the last object type emitted under name.
func typeOf(d *delta.Delta, name string) (delta.ObjectType, bool) {
	for i := len(d.Types) - 1; i >= 0; i-- {
		if d.Types[i].Name == name {
			return d.Types[i], true
		}
	}
	return delta.ObjectType{}, false
}

func fieldsOf(d *delta.Delta, owner string) []delta.Field {
	var out []delta.Field
	for _, f := range d.Fields {
		if f.Owner == owner {
			out = append(out, f)
		}
	}
	return out
}

func connectionsFrom(d *delta.Delta, from string) []delta.Connection {
	var out []delta.Connection
	for _, c := range d.Connections {
		if c.From == from {
			out = append(out, c)
		}
	}
	return out
}
