package container

// QuickListNode is one ziplist-backed node in a doubly linked list of
// nodes, the shape a List value graduates to once it outgrows a single
// ZipList (spec section 4.2/4.6).
type QuickListNode struct {
	blob *ZipList
	next *QuickListNode
	prev *QuickListNode
}

// QuickList is a linked list of compact ziplist nodes. The value
// layer's size estimator walks a bounded sample of nodes from the head
// rather than the whole list (spec section 4.6), so insertion/lookup
// algorithms beyond what that walk needs are not implemented here —
// they belong to the external list-command surface.
type QuickList struct {
	head, tail *QuickListNode
	nodeCount  int
	entryCount int
}

func NewQuickList() *QuickList { return &QuickList{} }

// PushNode appends a new node wrapping entries onto the tail.
func (q *QuickList) PushNode(entries ...[]byte) {
	zl := NewZipList()
	for _, e := range entries {
		zl.Push(e)
	}
	node := &QuickListNode{blob: zl}
	if q.tail == nil {
		q.head, q.tail = node, node
	} else {
		node.prev = q.tail
		q.tail.next = node
		q.tail = node
	}
	q.nodeCount++
	q.entryCount += zl.Len()
}

func (q *QuickList) NodeCount() int  { return q.nodeCount }
func (q *QuickList) EntryCount() int { return q.entryCount }

// WalkFromHead visits up to `samples` nodes starting at the head,
// calling fn with each node's ziplist. samples<=0 means "all nodes",
// matching the sizeOf contract in spec section 4.6.
func (q *QuickList) WalkFromHead(samples int, fn func(n *QuickListNode)) int {
	visited := 0
	for n := q.head; n != nil; n = n.next {
		fn(n)
		visited++
		if samples > 0 && visited >= samples {
			break
		}
	}
	return visited
}

func (n *QuickListNode) ZipList() *ZipList { return n.blob }
