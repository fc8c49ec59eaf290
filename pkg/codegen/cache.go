package codegen

import (
	"encoding/hex"
	"fmt"
	"io"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/TFMV/schemaforge/pkg/schema"
	"github.com/TFMV/schemaforge/pkg/selection"
)

// Cache memoizes generated code keyed by a fingerprint of its inputs.
type Cache struct {
	cache *lru.Cache[string, Code]
}

// NewCache creates a cache holding at most size results.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, Code](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create code cache: %w", err)
	}
	return &Cache{cache: c}, nil
}

// Generate returns the cached code for the inputs, rendering it on a miss.
func (c *Cache) Generate(fields []schema.Field, sel selection.Set, table string) Code {
	key := Fingerprint(fields, sel, tableName(table))
	if code, ok := c.cache.Get(key); ok {
		return code
	}
	code := Generate(fields, sel, table)
	c.cache.Add(key, code)
	return code
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Fingerprint hashes the generator inputs with BLAKE2b-256.
func Fingerprint(fields []schema.Field, sel selection.Set, table string) string {
	h, _ := blake2b.New256(nil) // only fails for keys longer than 64 bytes
	fmt.Fprintf(h, "table=%q\n", table)
	for _, n := range sel.Names() {
		fmt.Fprintf(h, "sel=%q\n", n)
	}
	writeFields(h, fields, 0)
	return hex.EncodeToString(h.Sum(nil))
}

func writeFields(w io.Writer, fields []schema.Field, depth int) {
	for _, f := range fields {
		fmt.Fprintf(w, "%d:%q:%s:%t:%t\n", depth, f.Name, f.Type(), f.IsArray, f.Nested != nil)
		writeFields(w, f.Nested, depth+1)
	}
}
