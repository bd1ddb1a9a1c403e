package app

import (
	"testing"

	"github.com/dkeye/zonebridge/internal/domain"
)

func items(ids ...int64) []domain.QueueItem {
	out := make([]domain.QueueItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.QueueItem{QueueItemID: id})
	}
	return out
}

func ids(in []domain.QueueItem) []int64 {
	out := make([]int64, 0, len(in))
	for _, it := range in {
		out = append(out, it.QueueItemID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQueueTrackerApply(t *testing.T) {
	cases := []struct {
		name    string
		start   []int64
		changes []domain.QueueChange
		want    []int64
	}{
		{
			name:  "remove then insert",
			start: []int64{1, 2, 3},
			changes: []domain.QueueChange{
				{Operation: domain.QueueRemove, Index: 0, Count: 1},
				{Operation: domain.QueueInsert, Index: 1, Items: items(9)},
			},
			want: []int64{2, 9, 3},
		},
		{
			name:    "remove past end is clamped",
			start:   []int64{1, 2, 3},
			changes: []domain.QueueChange{{Operation: domain.QueueRemove, Index: 1, Count: 10}},
			want:    []int64{1},
		},
		{
			name:    "insert beyond end appends",
			start:   []int64{1},
			changes: []domain.QueueChange{{Operation: domain.QueueInsert, Index: 7, Items: items(2, 3)}},
			want:    []int64{1, 2, 3},
		},
		{
			name:    "negative index counts from end",
			start:   []int64{1, 2, 3},
			changes: []domain.QueueChange{{Operation: domain.QueueRemove, Index: -1, Count: 1}},
			want:    []int64{1, 2},
		},
		{
			name:    "remove from empty is a no-op",
			start:   nil,
			changes: []domain.QueueChange{{Operation: domain.QueueRemove, Index: 0, Count: 3}},
			want:    []int64{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := NewQueueTracker(500)
			q.Init("z", items(tc.start...))
			if !q.Apply("z", tc.changes) {
				t.Fatal("Apply() = false, want true")
			}
			got, _ := q.Items("z")
			if !equalIDs(ids(got), tc.want) {
				t.Fatalf("items = %v, want %v", ids(got), tc.want)
			}
		})
	}
}

func TestQueueTrackerWithoutMirror(t *testing.T) {
	q := NewQueueTracker(500)
	if q.Apply("z", []domain.QueueChange{{Operation: domain.QueueInsert, Items: items(1)}}) {
		t.Fatal("Apply() without mirror = true, want false")
	}
	if _, ok := q.Items("z"); ok {
		t.Fatal("Items() created a mirror")
	}
}

func TestQueueTrackerSubscriptionMarker(t *testing.T) {
	q := NewQueueTracker(500)
	if !q.MarkSubscribed("z") {
		t.Fatal("first MarkSubscribed() = false")
	}
	if q.MarkSubscribed("z") {
		t.Fatal("second MarkSubscribed() = true")
	}
	q.Drop("z")
	if !q.MarkSubscribed("z") {
		t.Fatal("MarkSubscribed() after Drop = false")
	}
}
