/*
NAME
  queue.go

DESCRIPTION
  queue.go provides the rearrange loop's min-pts priority queue: container/
  heap over queued per-position frames, so "pop the minimum-pts frame"
  (spec.md §4.G) is an O(log n) heap pop rather than a linear scan.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.
*/

package stream

import (
	"container/heap"

	"github.com/cambricon/mluvideo/frame"
)

// queuedFrame is one rearrange-queue entry: a position's buffer tagged
// with its rectified pts.
type queuedFrame struct {
	pts      int64
	position int
	buf      frame.Buffer
}

// ptsHeap is a min-heap of queuedFrame ordered by pts.
type ptsHeap []queuedFrame

func (h ptsHeap) Len() int            { return len(h) }
func (h ptsHeap) Less(i, j int) bool  { return h[i].pts < h[j].pts }
func (h ptsHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *ptsHeap) Push(x interface{}) { *h = append(*h, x.(queuedFrame)) }
func (h *ptsHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (h *ptsHeap) push(f queuedFrame) { heap.Push(h, f) }
func (h *ptsHeap) pop() queuedFrame   { return heap.Pop(h).(queuedFrame) }
