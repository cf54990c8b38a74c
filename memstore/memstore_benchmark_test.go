package memstore

import (
	"testing"

	"github.com/tarmac-project/indexeddb"
)

func BenchmarkTable(b *testing.B) {
	schema := indexeddb.DatabaseSchema{Name: "bench"}
	schema.AddStore("people", "Age")

	r, _ := New(schema)
	table, _ := r.Table("people")
	for i := range 1000 {
		table.Append(map[string]any{"Name": "p", "Age": i % 50})
	}

	b.Run("First", func(b *testing.B) {
		b.ResetTimer()
		for range b.N {
			if _, ok := table.First("Age", 49); !ok {
				b.Fatalf("First found nothing")
			}
		}
	})

	b.Run("Filter", func(b *testing.B) {
		b.ResetTimer()
		for range b.N {
			if got := table.Filter("Age", 7); len(got) != 20 {
				b.Fatalf("Filter returned %d records", len(got))
			}
		}
	})
}
