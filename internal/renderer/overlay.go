package renderer

import (
	"fmt"

	"hdr-scene/internal/app"
	"hdr-scene/internal/profiling"
)

const (
	overlayMargin   = 10
	overlayLineStep = 22
	overlayTopN     = 3
)

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// OverlayLines describes the toggles, the camera and the slowest passes of the last frame.
// Call it before the profiler is reset for the new frame.
func OverlayLines(ctx *app.Context, prof *profiling.Frame) []string {
	f := ctx.Features
	cam := ctx.Camera
	lines := []string{
		fmt.Sprintf("FPS %d", ctx.Clock.FPS),
		fmt.Sprintf("blinn %s  bloom %s  hdr %s  gamma %s", onOff(f.Blinn), onOff(f.Bloom), onOff(f.HDR), onOff(f.Gamma)),
		fmt.Sprintf("exposure %.2f", f.Exposure),
		fmt.Sprintf("camera %.1f %.1f %.1f  yaw %.0f  pitch %.0f",
			cam.Position.X(), cam.Position.Y(), cam.Position.Z(), cam.Yaw, cam.Pitch),
	}
	if prof != nil {
		if top := prof.TopN(overlayTopN); top != "" {
			lines = append(lines, top)
		}
	}
	return lines
}
