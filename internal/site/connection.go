package site

import (
	"fmt"

	"github.com/graphql-go/relay"
)

// ConnectionArgs are the pagination arguments of a connection field.
type ConnectionArgs struct {
	First  *int
	Last   *int
	After  string
	Before string
}

// ConnectionArgsFrom reads pagination arguments from coerced GraphQL args.
func ConnectionArgsFrom(args map[string]any) ConnectionArgs {
	var a ConnectionArgs
	if v, ok := args["first"].(int); ok {
		a.First = &v
	}
	if v, ok := args["last"].(int); ok {
		a.Last = &v
	}
	if v, ok := args["after"].(string); ok {
		a.After = v
	}
	if v, ok := args["before"].(string); ok {
		a.Before = v
	}
	return a
}

// PageInfo describes the window returned by a connection.
type PageInfo struct {
	HasNextPage     bool
	HasPreviousPage bool
	StartCursor     string
	EndCursor       string
}

// Connection is one page of nodes.
type Connection struct {
	Nodes    []any
	Cursors  []string
	PageInfo PageInfo
}

// Edge pairs a node with its cursor.
type Edge struct {
	Cursor string
	Node   any
}

// Edges returns the connection nodes as edges.
func (c *Connection) Edges() []Edge {
	edges := make([]Edge, len(c.Nodes))
	for i, n := range c.Nodes {
		edges[i] = Edge{Cursor: c.Cursors[i], Node: n}
	}
	return edges
}

// EncodeCursor returns the opaque cursor for an offset:
// base64("arrayconnection:<offset>").
func EncodeCursor(offset int) string {
	return string(relay.OffsetToCursor(offset))
}

// DecodeCursor returns the offset stored in a cursor.
func DecodeCursor(cursor string) (int, error) {
	offset, err := relay.CursorToOffset(relay.ConnectionCursor(cursor))
	if err != nil {
		return 0, fmt.Errorf("invalid cursor %q: %w", cursor, err)
	}
	return offset, nil
}

// Paginate slices nodes according to args. Cursors are offsets into nodes.
// Malformed cursors and negative counts are rejected.
func Paginate(nodes []any, args ConnectionArgs) (*Connection, error) {
	ra := relay.NewConnectionArguments(nil)
	for _, cursor := range []string{args.After, args.Before} {
		if cursor == "" {
			continue
		}
		if _, err := DecodeCursor(cursor); err != nil {
			return nil, err
		}
	}
	ra.After = relay.ConnectionCursor(args.After)
	ra.Before = relay.ConnectionCursor(args.Before)
	if args.First != nil {
		if *args.First < 0 {
			return nil, fmt.Errorf("argument first must be a non-negative integer")
		}
		ra.First = *args.First
	}
	if args.Last != nil {
		if *args.Last < 0 {
			return nil, fmt.Errorf("argument last must be a non-negative integer")
		}
		ra.Last = *args.Last
	}

	page := relay.ConnectionFromArray(nodes, ra)
	c := &Connection{
		Nodes:   make([]any, len(page.Edges)),
		Cursors: make([]string, len(page.Edges)),
		PageInfo: PageInfo{
			HasNextPage:     page.PageInfo.HasNextPage,
			HasPreviousPage: page.PageInfo.HasPreviousPage,
			StartCursor:     string(page.PageInfo.StartCursor),
			EndCursor:       string(page.PageInfo.EndCursor),
		},
	}
	for i, e := range page.Edges {
		c.Nodes[i] = e.Node
		c.Cursors[i] = string(e.Cursor)
	}
	return c, nil
}
