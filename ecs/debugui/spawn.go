package debugui

import "github.com/plus3/hookworld/ecs"

type config struct {
	pageSize      int
	historyFrames int
}

// Option adjusts the panels installed by Register.
type Option func(*config)

// WithPageSize sets how many rows the entity browser shows per page.
func WithPageSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithHistoryFrames sets how many frame times the performance graph keeps.
func WithHistoryFrames(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.historyFrames = n
		}
	}
}

// Register adds the ImGui bridge and every debug panel to group. Run the group
// between the backend's BeginFrame and EndFrame.
func Register[E any](w *ecs.World[E], group string, opts ...Option) {
	cfg := config{pageSize: 100, historyFrames: 120}
	for _, opt := range opts {
		opt(&cfg)
	}

	w.AddSystem(group, "debugui.imgui", ImguiSystem[E])
	w.AddSystem(group, "debugui.entity-browser", EntityBrowser[E](cfg.pageSize))
	w.AddSystem(group, "debugui.component-inspector", ComponentInspector[E])
	w.AddSystem(group, "debugui.system-viewer", SystemViewer[E])
	w.AddSystem(group, "debugui.performance-stats", PerformanceStats[E](cfg.historyFrames))
	w.AddSystem(group, "debugui.query-debugger", QueryDebugger[E])
}
