// Package photoshoot 编排一次拍摄批次：种子分配、姿势规划、积分预检、任务派发、落库扣费
package photoshoot

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// maxSeed 种子上限 2^31-1
const maxSeed = 1<<31 - 1

// SeedAllocator 为整批任务产生一个共享种子
type SeedAllocator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeedAllocator 使用加密随机数初始化的 PCG 源
func NewSeedAllocator() *SeedAllocator {
	var b [16]byte
	_, _ = crand.Read(b[:])
	src := rand.NewPCG(binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]))
	return NewSeedAllocatorWithSource(src)
}

// NewSeedAllocatorWithSource 注入随机源，测试使用
func NewSeedAllocatorWithSource(src rand.Source) *SeedAllocator {
	return &SeedAllocator{rng: rand.New(src)}
}

// Allocate 提供了非零种子时原样返回，否则生成 [0, 2^31-1] 内的新值
func (a *SeedAllocator) Allocate(supplied *int64) int64 {
	if supplied != nil && *supplied != 0 {
		return *supplied
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Int64N(maxSeed + 1)
}
