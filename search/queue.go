package search

import "container/heap"

type nodeCost struct {
	node  int64
	costM float64
}

// nodeQueue is a min-heap of street nodes ordered by path cost
type nodeQueue []nodeCost

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].costM < q[j].costM }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(nodeCost)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

func (q *nodeQueue) push(nc nodeCost) { heap.Push(q, nc) }

func (q *nodeQueue) pop() nodeCost { return heap.Pop(q).(nodeCost) }
