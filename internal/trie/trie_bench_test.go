package trie

import (
	"math/rand"
	"testing"
)

func generateRandomSequences(count, maxLength int) [][]string {
	sequences := make([][]string, count)
	for i := 0; i < count; i++ {
		length := rand.Intn(maxLength) + 1
		sequence := make([]string, length)
		for j := 0; j < length; j++ {
			sequence[j] = string(rune('a' + rand.Intn(26)))
		}
		sequences[i] = sequence
	}
	return sequences
}

func BenchmarkInsert(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences := generateRandomSequences(size.count, size.maxLength)
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				trie := New()
				for _, seq := range sequences {
					trie.Insert(seq)
				}
			}
		})
	}
}

func BenchmarkMatch(b *testing.B) {
	tr := FromPatterns(".",
		"Account.withdraw", "*.toString", "*.equals", "*.hashCode",
		"gen.**", "Cache.*.get", "Store.load", "Store.save",
	)
	names := [][]string{
		{"Account", "withdraw"},
		{"Point", "toString"},
		{"gen", "Parser", "parse"},
		{"Cache", "Entry", "get"},
		{"Store", "delete"},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, n := range names {
			tr.Match(n)
		}
	}
}

func BenchmarkEq(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences := generateRandomSequences(size.count, size.maxLength)

			trie1 := New()
			trie2 := New()
			for _, seq := range sequences {
				trie1.Insert(seq)
				trie2.Insert(seq)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				trie1.Eq(trie2)
			}
		})
	}
}

func BenchmarkEqDifferent(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences1 := generateRandomSequences(size.count, size.maxLength)
			sequences2 := generateRandomSequences(size.count, size.maxLength)

			trie1 := New()
			trie2 := New()
			for _, seq := range sequences1 {
				trie1.Insert(seq)
			}
			for _, seq := range sequences2 {
				trie2.Insert(seq)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				trie1.Eq(trie2)
			}
		})
	}
}

func BenchmarkString(b *testing.B) {
	sizes := []struct {
		name      string
		count     int
		maxLength int
	}{
		{"Small", 100, 5},
		{"Medium", 1000, 10},
		{"Large", 10000, 20},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			sequences := generateRandomSequences(size.count, size.maxLength)
			trie := New()
			for _, seq := range sequences {
				trie.Insert(seq)
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				trie.String()
			}
		})
	}
}
