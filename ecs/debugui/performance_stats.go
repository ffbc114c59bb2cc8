package debugui

import (
	"fmt"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

// frameHistory is a fixed-size ring of frame times in milliseconds.
type frameHistory struct {
	frames []float32
	index  int
	filled int
}

func newFrameHistory(size int) *frameHistory {
	return &frameHistory{frames: make([]float32, size)}
}

func (h *frameHistory) push(ms float32) {
	h.frames[h.index] = ms
	h.index = (h.index + 1) % len(h.frames)
	h.filled = min(h.filled+1, len(h.frames))
}

// average returns the mean over the recorded frames only.
func (h *frameHistory) average() float32 {
	if h.filled == 0 {
		return 0
	}
	var sum float32
	for _, ft := range h.frames {
		sum += ft
	}
	return sum / float32(h.filled)
}

// PerformanceStats returns a system that graphs frame times and summarizes
// store occupancy: entities, live queries, component types and tags.
func PerformanceStats[E any](historyFrames int) ecs.SystemFunc[E] {
	if historyFrames <= 0 {
		historyFrames = 120
	}
	return func(w *ecs.World[E]) {
		timer := ecs.UseRef(w, NewFrameTimer())
		history := ecs.UseRef(w, newFrameHistory(historyFrames))

		history.Current.push(timer.Current.GetDeltaTime() * 1000.0)

		if !imgui.BeginV("Performance Stats", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}
		renderStorageStats(w.CollectStats(), history.Current)
		imgui.End()
	}
}

func renderStorageStats(stats *ecs.StorageStats, history *frameHistory) {
	imgui.Text(fmt.Sprintf("Total Entities: %d", stats.EntityCount))
	imgui.Text(fmt.Sprintf("Live Queries: %d", stats.QueryCount))
	imgui.Text(fmt.Sprintf("Component Types: %d", len(stats.ComponentTypes)))
	imgui.Text(fmt.Sprintf("Inspected Struct Types: %d", layouts.Len()))

	if avg := history.average(); avg > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avg, 1000.0/avg))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &history.frames[0], int32(len(history.frames)))

	if imgui.TreeNodeStr("Component Details") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("ComponentStatsTable", 2, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Component Type")
			imgui.TableSetupColumn("Attached")
			imgui.TableHeadersRow()

			for _, name := range stats.ComponentTypeNames() {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(name)
				imgui.TableNextColumn()
				imgui.Text(fmt.Sprintf("%d", stats.ComponentTypes[name]))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Tag Details") {
		for _, tag := range stats.TagNames() {
			imgui.BulletText(fmt.Sprintf("%s (%d)", tag, stats.Tags[tag]))
		}
		imgui.TreePop()
	}
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
