package draw2d

import (
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// PipelineBuilderOption is a functional option for configuring a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithLogger sets the logger used for refresh diagnostics. Defaults to a no-op logger.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - PipelineBuilderOption: functional option to set the logger
func WithLogger(log *zap.Logger) PipelineBuilderOption {
	return func(p *pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// WithScreenSize sets the initial render target size in pixels.
//
// Parameters:
//   - width, height: the render target size, both positive
//
// Returns:
//   - PipelineBuilderOption: functional option to set the screen size
func WithScreenSize(width, height uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.width = width
		p.height = height
	}
}

// WithPixelSnap enables rounding of vertex positions to whole pixels before the clip
// space conversion, avoiding blurry overlay edges on exact pixel boundaries.
//
// Returns:
//   - PipelineBuilderOption: functional option to enable pixel snapping
func WithPixelSnap() PipelineBuilderOption {
	return func(p *pipeline) {
		p.pixelSnap = true
	}
}

// WithBuffers associates the collaborator-allocated GPU vertex and index buffers.
//
// Parameters:
//   - vertexBuffer: the overlay vertex buffer
//   - indexBuffer: the shared quad index buffer
//
// Returns:
//   - PipelineBuilderOption: functional option to set the GPU buffers
func WithBuffers(vertexBuffer, indexBuffer *wgpu.Buffer) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexBuffer = vertexBuffer
		p.indexBuffer = indexBuffer
	}
}
