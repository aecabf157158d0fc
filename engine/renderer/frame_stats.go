package renderer

import (
	"runtime"
	"time"

	"go.uber.org/zap"
)

// FrameStats tracks frame rate, upload/refresh volume, and memory statistics for
// performance monitoring. Outputs stats to the log at a configurable interval.
type FrameStats struct {
	log *zap.Logger

	frameCount     int
	uploadCount    int
	refreshCount   int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64
}

// NewFrameStats creates a FrameStats logging to log every interval.
//
// Parameters:
//   - log: the logger for stats output
//   - interval: how often stats are emitted
//
// Returns:
//   - *FrameStats: the newly created stats tracker
func NewFrameStats(log *zap.Logger, interval time.Duration) *FrameStats {
	return &FrameStats{
		log:            log,
		lastTime:       time.Now(),
		updateInterval: interval,
	}
}

// Record accumulates this frame's upload and descriptor-refresh counts.
//
// Parameters:
//   - uploads: the number of data uploads enqueued this frame
//   - refreshes: the number of descriptor entries refreshed this frame
func (s *FrameStats) Record(uploads, refreshes int) {
	s.uploadCount += uploads
	s.refreshCount += refreshes
}

// Tick should be called once per frame to track frame timing. Logs performance
// statistics when the update interval has elapsed: FPS, upload/refresh volume, heap
// usage, allocation rate, and GC pause times.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (s *FrameStats) Tick() bool {
	s.frameCount++
	currentTime := time.Now()
	elapsed := currentTime.Sub(s.lastTime)

	if elapsed < s.updateInterval {
		return false
	}

	fps := float64(s.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&s.memStats)
	// Alloc: bytes of live heap objects. TotalAlloc: cumulative heap allocation,
	// increases forever and tracks churn. Sys: memory obtained from the OS.
	allocMB := float64(s.memStats.Alloc) / 1024 / 1024
	sysMB := float64(s.memStats.Sys) / 1024 / 1024

	allocDelta := s.memStats.TotalAlloc - s.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	// PauseNs is a circular buffer of the last 256 GC pauses.
	gcCount := s.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		lastPauseUs = s.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := s.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			pause := s.memStats.PauseNs[i%256] / 1000
			if pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	s.log.Info("frame stats",
		zap.Float64("fps", fps),
		zap.Int("uploads", s.uploadCount),
		zap.Int("refreshes", s.refreshCount),
		zap.Float64("heapMB", allocMB),
		zap.Float64("allocRateMBs", allocRateMB),
		zap.Uint32("gcCount", gcCount),
		zap.Uint64("gcLastPauseUs", lastPauseUs),
		zap.Uint64("gcMaxPauseUs", maxPauseUs),
		zap.Float64("sysMB", sysMB),
	)

	s.frameCount = 0
	s.uploadCount = 0
	s.refreshCount = 0
	s.lastTime = currentTime
	s.lastGCCount = gcCount
	s.lastTotalAlloc = s.memStats.TotalAlloc
	return true
}
