package calculation

import (
	"encoding/binary"
	"hash/fnv"
)

// deriveSeed computes a trial's RNG seed from the run's master seed
// and the trial index, independent of strategy index. Every strategy
// configured in a run sees the identical scenario for a given trial
// index, so strategy comparisons are paired samples, not independent
// draws.
func deriveSeed(masterSeed int64, trialIndex int) int64 {
	h := fnv.New64a()
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(masterSeed))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(trialIndex))
	_, _ = h.Write(buf[:])
	return int64(h.Sum64())
}
