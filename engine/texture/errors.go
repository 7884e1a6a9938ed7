package texture

import "errors"

var (
	// ErrResourceLoad reports that an image could not be decoded or uploaded.
	// It aborts construction of the requested resource and is never retried
	// by the cache.
	ErrResourceLoad = errors.New("texture: resource load failed")

	// ErrRenderFailure reports a draw that still failed after the one-shot
	// recovery. The caller decides whether to skip the frame or give up.
	ErrRenderFailure = errors.New("texture: render failed")

	// ErrInvalidRegion reports a source region outside the resource bounds.
	ErrInvalidRegion = errors.New("texture: region outside resource bounds")
)
