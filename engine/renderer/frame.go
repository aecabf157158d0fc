// package renderer drives the per-frame synchronization between the drawable groups and
// the GPU: settling changed sets into descriptor-list refresh requests, staging and
// submitting partial data uploads, and running the post-submit cleanup pass. The relative
// order of those steps is a correctness requirement, not a preference — the design assumes
// exactly one settle point per frame, and computing the changed set before activation has
// settled would render a stale set for one frame.
package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"go.uber.org/zap"

	"github.com/jeanpmathes/voxelgfx/engine/drawable"
	"github.com/jeanpmathes/voxelgfx/engine/renderer/shader_resources"
)

// FrameDriver runs the once-per-frame upload and descriptor synchronization protocol over
// a set of drawable groups. Single logical writer; Frame must be called from the update
// thread between the host's update phase and command submission.
type FrameDriver interface {
	// AddSource registers a drawable group and binds it to a fresh descriptor list.
	// The returned handle identifies the list whose refreshes mirror the group's
	// changed set.
	//
	// Parameters:
	//   - label: a debug label for the group's descriptor list
	//   - source: the group to drive
	//
	// Returns:
	//   - shader_resources.ListHandle: the descriptor list bound to the group
	AddSource(label string, source drawable.UploadSource) shader_resources.ListHandle

	// Frame executes one frame of the protocol, in order: settle changed sets and
	// request descriptor refreshes, pack staged upload data (parallel CPU prep),
	// enqueue uploads, submit, clean up, and clear the modified sets.
	//
	// Parameters:
	//   - ctx: the upload context for this frame's staged writes
	//
	// Returns:
	//   - error: an error from the upload collaborator; the protocol state is
	//     consistent but the frame's uploads must be considered lost
	Frame(ctx shader_resources.UploadContext) error
}

// driverSource pairs a registered group with its descriptor list.
type driverSource struct {
	source drawable.UploadSource
	list   shader_resources.ListHandle
}

// frameDriver is the implementation of the FrameDriver interface.
type frameDriver struct {
	resources     shader_resources.ShaderResources
	sources       []driverSource
	log           *zap.Logger
	stats         *FrameStats
	statsInterval time.Duration

	// prepPool manages a bounded set of reusable goroutines for the parallel CPU
	// packing phase. Workers persist across frames, avoiding per-frame goroutine
	// spawn/teardown overhead.
	prepPool    worker.DynamicWorkerPool
	prepWorkers int
}

var _ FrameDriver = &frameDriver{}

// NewFrameDriver creates a FrameDriver bound to the given descriptor-binding collaborator.
//
// Parameters:
//   - resources: the descriptor-binding collaborator (must not be nil)
//   - options: functional options to configure the driver
//
// Returns:
//   - FrameDriver: the newly created driver
func NewFrameDriver(resources shader_resources.ShaderResources, options ...FrameDriverBuilderOption) FrameDriver {
	if resources == nil {
		panic("renderer: NewFrameDriver requires non-nil ShaderResources")
	}
	d := &frameDriver{
		resources:     resources,
		log:           zap.NewNop(),
		prepWorkers:   max(runtime.NumCPU()-1, 1),
		statsInterval: time.Second,
	}
	for _, option := range options {
		option(d)
	}
	d.stats = NewFrameStats(d.log, d.statsInterval)

	// Initialized after options so WithUploadWorkers can override the default.
	// Queue size of 256 accommodates typical per-frame modified counts with headroom.
	d.prepPool = worker.NewDynamicWorkerPool(d.prepWorkers, 256, 1*time.Second)

	return d
}

func (d *frameDriver) AddSource(label string, source drawable.UploadSource) shader_resources.ListHandle {
	if source == nil {
		panic("renderer: AddSource requires a non-nil source")
	}
	list := d.resources.CreateList(label)
	d.sources = append(d.sources, driverSource{source: source, list: list})
	return list
}

func (d *frameDriver) Frame(ctx shader_resources.UploadContext) error {
	// Settle point: consume each group's changed set and mirror it into a descriptor
	// refresh request. This must happen after the host's update phase so activation
	// state has settled, and exactly once per frame.
	refreshed := 0
	for _, s := range d.sources {
		changed := s.source.ChangedDrawables()
		if len(changed) == 0 {
			continue
		}
		slots := make([]uint32, len(changed))
		for i, c := range changed {
			slots[i] = uint32(c.EntryIndex())
		}
		d.resources.RequestListRefresh(s.list, slots)
		refreshed += len(changed)
	}

	// Gather the objects that actually need an upload this frame.
	var pending []drawable.Drawable
	for _, s := range d.sources {
		for _, m := range s.source.ModifiedDrawables() {
			if m.UploadRequired() {
				pending = append(pending, m)
			}
		}
	}

	// Phase 1: parallel CPU prep — pack each object's staged bytes on the worker pool.
	// Workers are reused across frames. A WaitGroup provides the per-frame barrier since
	// pool.Wait() blocks until workers idle-exit, which is unsuitable for frame-rate work.
	var wg sync.WaitGroup
	for i, p := range pending {
		wg.Add(1)
		d.prepPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				p.PrepareUpload()
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: serial enqueue on the upload context, then submit.
	for _, p := range pending {
		if err := p.EnqueueDataUpload(ctx); err != nil {
			return fmt.Errorf("renderer: enqueue upload for entry %d: %w", p.EntryIndex(), err)
		}
	}
	if err := ctx.Submit(); err != nil {
		return fmt.Errorf("renderer: submit frame uploads: %w", err)
	}

	// Cleanup pass: release staging state of everything submitted, then drop the
	// modified sets — they have served this frame's uploads.
	for _, p := range pending {
		p.CleanupDataUpload()
	}
	for _, s := range d.sources {
		s.source.ClearModified()
	}

	d.log.Debug("frame synchronized",
		zap.Int("refreshed", refreshed),
		zap.Int("uploaded", len(pending)),
	)
	d.stats.Record(len(pending), refreshed)
	d.stats.Tick()

	return nil
}
