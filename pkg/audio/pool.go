package audio

import (
	"sync"
	"sync/atomic"
)

const defaultScratchCap = 4096

// scratchPool holds float64 buffers used while summarizing channels.
var scratchPool = sync.Pool{
	New: func() any {
		scratchNews.Add(1)
		buf := make([]float64, 0, defaultScratchCap)
		return &buf
	},
}

var scratchGets atomic.Uint64
var scratchNews atomic.Uint64

// getScratch returns a pooled buffer holding src widened to float64.
func getScratch(src []float32) *[]float64 {
	scratchGets.Add(1)
	buf := scratchPool.Get().(*[]float64)
	b := (*buf)[:0]
	if cap(b) < len(src) {
		b = make([]float64, 0, len(src))
	}
	for _, v := range src {
		b = append(b, float64(v))
	}
	*buf = b
	return buf
}

// putScratch returns a buffer to the pool. It must not be used afterwards.
func putScratch(buf *[]float64) {
	if buf == nil {
		return
	}
	*buf = (*buf)[:0]
	scratchPool.Put(buf)
}

// ScratchPoolStats returns pool hits and misses since process start.
func ScratchPoolStats() (hits uint64, misses uint64) {
	gets := scratchGets.Load()
	news := scratchNews.Load()
	if gets >= news {
		return gets - news, news
	}
	return 0, news
}
