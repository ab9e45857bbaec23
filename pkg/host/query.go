package host

// Find returns the first node in depth-first order (including n) matching
// predicate, or nil.
func (n *Node) Find(predicate func(*Node) bool) *Node {
	var found *Node
	n.walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if predicate(c) {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node (including n) matching predicate.
func (n *Node) FindAll(predicate func(*Node) bool) []*Node {
	var out []*Node
	n.walk(func(c *Node) bool {
		if predicate(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

// ByTag returns every element with the given tag.
func (n *Node) ByTag(tag string) []*Node {
	return n.FindAll(func(c *Node) bool {
		return c.typ == ElementNode && c.tag == tag
	})
}

// ByID returns the first element whose "id" property equals id.
func (n *Node) ByID(id string) *Node {
	return n.Find(func(c *Node) bool {
		v, ok := c.props["id"].(string)
		return ok && v == id
	})
}

// ByText returns the first element whose text content equals text.
func (n *Node) ByText(text string) *Node {
	return n.Find(func(c *Node) bool {
		return c.typ == ElementNode && c.TextContent() == text
	})
}

// ByProp returns every element whose property key equals value.
func (n *Node) ByProp(key string, value any) []*Node {
	return n.FindAll(func(c *Node) bool {
		v, ok := c.props[key]
		return ok && c.typ == ElementNode && v == value
	})
}
