package todos

// Collection is the ordered set of lists belonging to one session.
// It is not safe for concurrent use; the session layer serializes access.
type Collection struct {
	Lists []*List `json:"lists"`
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{Lists: []*List{}}
}

// FindList returns the list with the given ID.
func (c *Collection) FindList(id int64) (*List, error) {
	for _, list := range c.Lists {
		if list.ID == id {
			return list, nil
		}
	}
	return nil, ErrListNotFound
}

// NextListID returns the ID the next inserted list will receive.
func (c *Collection) NextListID() int64 {
	ids := make([]int64, len(c.Lists))
	for i, list := range c.Lists {
		ids[i] = list.ID
	}
	return NextID(ids)
}

// InsertList appends an empty list with a fresh ID and returns it.
func (c *Collection) InsertList(name string) *List {
	list := &List{ID: c.NextListID(), Name: name, Todos: []*Todo{}}
	c.Lists = append(c.Lists, list)
	return list
}

// DeleteList removes the list and all of its todos. It reports whether a list was
// removed; deleting an unknown ID is not an error.
func (c *Collection) DeleteList(id int64) bool {
	for i, list := range c.Lists {
		if list.ID == id {
			c.Lists = append(c.Lists[:i], c.Lists[i+1:]...)
			return true
		}
	}
	return false
}

// ListNames returns the names of all lists in insertion order.
func (c *Collection) ListNames() []string {
	names := make([]string, len(c.Lists))
	for i, list := range c.Lists {
		names[i] = list.Name
	}
	return names
}

// TotalTodos counts todos across every list.
func (c *Collection) TotalTodos() int {
	total := 0
	for _, list := range c.Lists {
		total += list.TotalTodos()
	}
	return total
}
