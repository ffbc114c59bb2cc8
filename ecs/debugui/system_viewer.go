package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

type systemViewerState struct {
	sortColumn    int
	sortAscending bool
	selected      string
}

const (
	columnGroup = iota
	columnSystem
	columnRuns
	columnAvg
	columnMax
)

// SystemViewer is a system that tables every registered system with its
// execution counts and timings, drawing a bar for each average relative to the
// slowest one.
func SystemViewer[E any](w *ecs.World[E]) {
	state := ecs.UseRef(w, systemViewerState{sortColumn: columnAvg})

	if !imgui.BeginV("System Viewer", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	stats := w.Stats()
	imgui.Text(fmt.Sprintf("Groups: %d  Systems: %d  Executions: %d",
		len(w.Groups()), stats.SystemCount, stats.TotalExecutions))

	var maxAvg time.Duration
	for _, s := range stats.Systems {
		maxAvg = max(maxAvg, s.AvgDuration)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if !imgui.BeginTableV("SystemTable", 5, tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}

	imgui.TableSetupColumn("Group")
	imgui.TableSetupColumn("System")
	imgui.TableSetupColumn("Runs")
	imgui.TableSetupColumn("Avg")
	imgui.TableSetupColumn("Max")
	imgui.TableHeadersRow()

	sv := &state.Current
	sortSpecs := imgui.TableGetSortSpecs()
	if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
		spec := sortSpecs.Specs()
		sv.sortColumn = int(spec.ColumnIndex())
		sv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
		sortSpecs.SetSpecsDirty(false)
	}
	sortSystemStats(stats.Systems, sv.sortColumn, sv.sortAscending)

	for _, s := range stats.Systems {
		key := s.Group + "/" + s.Name
		imgui.TableNextRow()

		imgui.TableNextColumn()
		if imgui.SelectableBoolV(s.Group+"##"+key, sv.selected == key, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
			sv.selected = key
		}

		imgui.TableNextColumn()
		imgui.Text(s.Name)

		imgui.TableNextColumn()
		imgui.Text(fmt.Sprintf("%d", s.ExecutionCount))

		imgui.TableNextColumn()
		imgui.Text(s.AvgDuration.String())
		if maxAvg > 0 {
			barWidth := float32(s.AvgDuration) / float32(maxAvg) * 80.0
			imgui.SameLine()
			drawList := imgui.WindowDrawList()
			pos := imgui.CursorScreenPos()
			color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
			drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
		}

		imgui.TableNextColumn()
		imgui.Text(s.MaxDuration.String())
	}

	imgui.EndTable()
}

func sortSystemStats(systems []ecs.SystemStats, column int, ascending bool) {
	slices.SortStableFunc(systems, func(a, b ecs.SystemStats) int {
		var c int
		switch column {
		case columnGroup:
			c = strings.Compare(a.Group, b.Group)
		case columnSystem:
			c = strings.Compare(a.Name, b.Name)
		case columnRuns:
			c = cmp.Compare(a.ExecutionCount, b.ExecutionCount)
		case columnMax:
			c = cmp.Compare(a.MaxDuration, b.MaxDuration)
		default:
			c = cmp.Compare(a.AvgDuration, b.AvgDuration)
		}
		if !ascending {
			return -c
		}
		return c
	})
}
