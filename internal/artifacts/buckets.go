package artifacts

import (
	"encoding/json"
	"fmt"
)

// Bucket is one compiled shape. For prefill buckets Length is the sequence
// length; for decode buckets it is the KV cache length.
type Bucket struct {
	Batch  int
	Length int
}

func (b Bucket) String() string {
	return fmt.Sprintf("(%d, %d)", b.Batch, b.Length)
}

// MarshalJSON encodes the bucket as a [batch, length] pair.
func (b Bucket) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{b.Batch, b.Length})
}

// UnmarshalJSON decodes a [batch, length] pair.
func (b *Bucket) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("bucket must be a [batch, length] pair: %w", err)
	}
	b.Batch, b.Length = pair[0], pair[1]
	return nil
}

// PrefillBuckets returns the release prefill table, (batch, seq_len).
func PrefillBuckets() []Bucket {
	return []Bucket{
		{1, 256}, {1, 320}, {1, 384}, {1, 512}, {1, 640},
		{1, 768}, {1, 1024}, {2, 1024}, {4, 1024},
	}
}

// DecodeBuckets returns the release decode table, (batch, kv_cache_len),
// grouped by context size from 1K to 32K.
func DecodeBuckets() []Bucket {
	var buckets []Bucket
	for _, ctx := range []struct {
		length  int
		batches []int
	}{
		{1024, []int{1, 4, 8, 16, 32, 64}},
		{2048, []int{1, 4, 8, 16, 32}},
		{4096, []int{1, 4, 8, 16, 32}},
		{8192, []int{1, 4, 8, 16}},
		{16384, []int{1, 4, 8}},
		{32768, []int{1, 4}},
	} {
		for _, batch := range ctx.batches {
			buckets = append(buckets, Bucket{Batch: batch, Length: ctx.length})
		}
	}
	return buckets
}
