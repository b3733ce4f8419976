package pathfinding

import "container/heap"

// deque is a ring buffer of node indices.
type deque struct {
	buf  []int32
	head int
	size int
}

func (d *deque) len() int { return d.size }

func (d *deque) grow() {
	n := max(16, len(d.buf)*2)
	buf := make([]int32, n)
	for i := range d.size {
		buf[i] = d.buf[(d.head+i)%len(d.buf)]
	}
	d.buf = buf
	d.head = 0
}

func (d *deque) pushBack(v int32) {
	if d.size == len(d.buf) {
		d.grow()
	}
	d.buf[(d.head+d.size)%len(d.buf)] = v
	d.size++
}

func (d *deque) pushFront(v int32) {
	if d.size == len(d.buf) {
		d.grow()
	}
	d.head = (d.head - 1 + len(d.buf)) % len(d.buf)
	d.buf[d.head] = v
	d.size++
}

func (d *deque) front() int32 {
	return d.buf[d.head]
}

func (d *deque) popFront() int32 {
	v := d.buf[d.head]
	d.head = (d.head + 1) % len(d.buf)
	d.size--
	return v
}

func (d *deque) clear() {
	d.buf = nil
	d.head = 0
	d.size = 0
}

type pendingItem struct {
	node int32
	cost int32
	seq  uint64
}

// pendingHeap orders transport nodes by cost, then by insertion order.
type pendingHeap []pendingItem

func (h pendingHeap) Len() int { return len(h) }
func (h pendingHeap) Less(i, j int) bool {
	if h[i].cost != h[j].cost {
		return h[i].cost < h[j].cost
	}
	return h[i].seq < h[j].seq
}
func (h pendingHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *pendingHeap) Push(x any) {
	*h = append(*h, x.(pendingItem))
}

func (h *pendingHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

type pendingQueue struct {
	items pendingHeap
	seq   uint64
}

func (q *pendingQueue) len() int { return len(q.items) }

func (q *pendingQueue) push(node, cost int32) {
	heap.Push(&q.items, pendingItem{node: node, cost: cost, seq: q.seq})
	q.seq++
}

func (q *pendingQueue) peek() pendingItem {
	return q.items[0]
}

func (q *pendingQueue) pop() int32 {
	return heap.Pop(&q.items).(pendingItem).node
}

func (q *pendingQueue) clear() {
	q.items = nil
	q.seq = 0
}
