package tests

import (
	"context"
	"testing"

	"github.com/ygrebnov/ridesim"
)

func BenchmarkQueue_TrySendReceive(b *testing.B) {
	q, err := ridesim.NewQueue[ridesim.Task](64, 1)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	t := ridesim.NewTask(ridesim.Point{X: 1}, ridesim.Point{Y: 1})

	b.ReportAllocs()
	for b.Loop() {
		_ = q.TrySend(t, ridesim.PriorityNormal)
		_, _, _ = q.Receive(ctx)
	}
}

func BenchmarkTryReceive_Empty(b *testing.B) {
	ch := make(chan ridesim.Result, 1)
	for b.Loop() {
		_, _ = ridesim.TryReceive(ch)
	}
}
