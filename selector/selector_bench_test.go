package selector_test

import (
	"fmt"
	"testing"

	"github.com/on-the-ground/effect_ive_store/selector"
)

func naiveFib(n int) int {
	if n <= 1 {
		return n
	}
	return naiveFib(n-1) + naiveFib(n-2)
}

func BenchmarkNaiveFib20(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = naiveFib(20)
	}
}

func BenchmarkMemoizedFib20(b *testing.B) {
	var fib selector.Func[int, int]
	fib = selector.New(func(n int) int {
		if n <= 1 {
			return n
		}
		return fib(n-1) + fib(n-2)
	}, 32)

	for i := 0; i < b.N; i++ {
		_ = fib(20)
	}
}

type counterSnapshot struct {
	Counter int
	Label   string
}

func BenchmarkParitySelector(b *testing.B) {
	for _, size := range []uint32{2, 8, 32} {
		b.Run(fmt.Sprintf("TableSize_%d", size), func(b *testing.B) {
			parity := selector.New(func(s counterSnapshot) bool { return s.Counter%2 == 0 }, size)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = parity(counterSnapshot{Counter: i % 16, Label: "counter"})
			}
		})
	}
}
