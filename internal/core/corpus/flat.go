package corpus

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"recipe-recommender/internal/pkg/common"

	"golang.org/x/sync/errgroup"
)

// maxVectorDim .fvecs 標頭可宣告的最大維度
const maxVectorDim = 1 << 16

// Hit 索引中的一筆命中，ID 為向量在索引中的位置
type Hit struct {
	ID       int
	Distance float64
}

// FlatIndex 精確的平方 L2 距離索引，載入後唯讀，可被多個請求共用
type FlatIndex struct {
	dim     int
	count   int
	data    []float32
	workers int
}

// NewFlatIndex 以記憶體中的向量建立索引
func NewFlatIndex(vectors [][]float32) (*FlatIndex, error) {
	if len(vectors) == 0 {
		return nil, fmt.Errorf("flat index requires at least one vector")
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("flat index vectors must not be empty")
	}
	data := make([]float32, 0, dim*len(vectors))
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
		data = append(data, v...)
	}
	return &FlatIndex{dim: dim, count: len(vectors), data: data, workers: 1}, nil
}

// LoadFlatIndex 讀取 .fvecs 檔：每筆為 little-endian int32 維度加上對應數量的 float32
func LoadFlatIndex(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var vectors [][]float32
	for {
		var dim int32
		if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading vector %d header: %w", len(vectors), err)
		}
		if dim <= 0 || dim > maxVectorDim {
			return nil, fmt.Errorf("vector %d has invalid dimension %d", len(vectors), dim)
		}
		if len(vectors) > 0 && int(dim) != len(vectors[0]) {
			return nil, fmt.Errorf("vector %d has dimension %d, want %d", len(vectors), dim, len(vectors[0]))
		}
		vec := make([]float32, dim)
		if err := binary.Read(r, binary.LittleEndian, vec); err != nil {
			return nil, fmt.Errorf("reading vector %d: %w", len(vectors), err)
		}
		vectors = append(vectors, vec)
	}

	return NewFlatIndex(vectors)
}

// WriteFlatIndex 將向量寫成 .fvecs 檔
func WriteFlatIndex(w io.Writer, vectors [][]float32) error {
	bw := bufio.NewWriter(w)
	for _, v := range vectors {
		if err := binary.Write(bw, binary.LittleEndian, int32(len(v))); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SetWorkers 設定搜尋時平行掃描的分片數
func (ix *FlatIndex) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	ix.workers = n
}

// Len 向量數量
func (ix *FlatIndex) Len() int { return ix.count }

// Dim 向量維度
func (ix *FlatIndex) Dim() int { return ix.dim }

// Search 回傳距離最近的 k 筆，依距離遞增排序，同距離時 ID 小者在前
func (ix *FlatIndex) Search(ctx context.Context, query []float32, k int) ([]Hit, error) {
	if len(query) != ix.dim {
		return nil, common.WrapError(common.ErrCorpusUnavailable,
			fmt.Errorf("query dimension %d does not match index dimension %d", len(query), ix.dim))
	}
	if k <= 0 {
		return []Hit{}, nil
	}
	if k > ix.count {
		k = ix.count
	}

	shards := ix.workers
	if shards > ix.count {
		shards = ix.count
	}
	size := (ix.count + shards - 1) / shards
	partial := make([][]Hit, shards)

	g, gctx := errgroup.WithContext(ctx)
	for s := 0; s < shards; s++ {
		s := s
		start := s * size
		end := start + size
		if end > ix.count {
			end = ix.count
		}
		g.Go(func() error {
			hits, err := ix.scan(gctx, query, start, end, k)
			if err != nil {
				return err
			}
			partial[s] = hits
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Hit
	for _, hits := range partial {
		merged = append(merged, hits...)
	}
	sortHits(merged)
	if len(merged) > k {
		merged = merged[:k]
	}
	return merged, nil
}

// scan 掃描 [start, end) 並保留該分片的前 k 筆
func (ix *FlatIndex) scan(ctx context.Context, query []float32, start, end, k int) ([]Hit, error) {
	best := make([]Hit, 0, k+1)
	worst := math.Inf(1)

	for id := start; id < end; id++ {
		if (id-start)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		d := squaredL2(query, ix.data[id*ix.dim:(id+1)*ix.dim])
		if len(best) == k && d >= worst {
			continue
		}

		pos := sort.Search(len(best), func(i int) bool {
			return best[i].Distance > d
		})
		best = append(best, Hit{})
		copy(best[pos+1:], best[pos:])
		best[pos] = Hit{ID: id, Distance: d}
		if len(best) > k {
			best = best[:k]
		}
		if len(best) == k {
			worst = best[k-1].Distance
		}
	}
	return best, nil
}

func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

func sortHits(hits []Hit) {
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
}
