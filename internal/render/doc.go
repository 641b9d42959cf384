// Package render drives a frame sequence through the escape-field engine.
//
// For every frame index the [Driver] asks its trajectory schedule for a camera
// pose, computes the field with the current cuts, colors it, hands the frame to
// an encoder, records [FrameStats], and then decays the cuts when the schedule
// asks for it. Frames are emitted strictly in index order; only the pixel
// work inside one frame runs in parallel.
//
// # Example
//
//	d, err := render.FromConfig(resolved)
//	if err != nil {
//	    return err
//	}
//	result, err := d.Render(ctx, "out.mp4", encode.Options{
//	    FrameRate: resolved.FrameRate,
//	    Quality:   resolved.VideoQuality,
//	})
//
// # Thread Safety
//
// A Driver owns mutable cut and random state and must not be shared between
// goroutines.
package render
