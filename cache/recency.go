package cache

// recencyNode is a node in the doubly-linked recency list.
// The node stores a page index for O(1) deletion via the parent map.
type recencyNode struct {
	page int
	prev *recencyNode
	next *recencyNode
}

// recencyList is an ordered set of the most recently freshly-rendered
// page indices. The head is the most recent. The list is not
// thread-safe; the Manager handles synchronization.
//
// Unlike a strict LRU, only fresh renders touch this list. Cache hits
// never refresh a page's position, so a page that is merely redrawn
// from cache does not protect itself from eventual eviction.
type recencyList struct {
	head  *recencyNode
	tail  *recencyNode
	index map[int]*recencyNode
}

// newRecencyList creates an empty recency list.
func newRecencyList() *recencyList {
	return &recencyList{index: make(map[int]*recencyNode)}
}

// Len returns the number of distinct pages in the list.
func (l *recencyList) Len() int {
	return len(l.index)
}

// Contains reports whether page is in the list.
func (l *recencyList) Contains(page int) bool {
	_, ok := l.index[page]
	return ok
}

// Touch moves page to the front, inserting it if absent.
func (l *recencyList) Touch(page int) {
	if node, ok := l.index[page]; ok {
		l.moveToFront(node)
		return
	}
	node := &recencyNode{page: page}
	l.index[page] = node
	if l.head == nil {
		l.head = node
		l.tail = node
		return
	}
	node.next = l.head
	l.head.prev = node
	l.head = node
}

// TrimTo drops the oldest entries until at most n remain.
func (l *recencyList) TrimTo(n int) {
	if n < 0 {
		n = 0
	}
	for len(l.index) > n {
		oldest := l.tail
		l.unlink(oldest)
		delete(l.index, oldest.page)
	}
}

// Pages returns the pages in order, most recent first.
func (l *recencyList) Pages() []int {
	pages := make([]int, 0, len(l.index))
	for node := l.head; node != nil; node = node.next {
		pages = append(pages, node.page)
	}
	return pages
}

// Clear removes all entries.
func (l *recencyList) Clear() {
	l.head = nil
	l.tail = nil
	clear(l.index)
}

// moveToFront moves an existing node to the front.
func (l *recencyList) moveToFront(node *recencyNode) {
	if node == l.head {
		return
	}
	l.unlink(node)
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
}

// unlink removes a node from the list without touching the index map.
func (l *recencyList) unlink(node *recencyNode) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
}
