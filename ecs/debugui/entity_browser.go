package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

type EntityInfo struct {
	ID             ecs.EntityId
	Tags           []string
	ComponentTypes []string
	ComponentCount int
}

type entityBrowserState struct {
	filterText    string
	showInternal  bool
	currentPage   int
	sortColumn    int
	sortAscending bool
}

// EntityBrowser returns a system that lists entities in a sortable, filterable
// table and publishes the clicked row as the current Selection.
func EntityBrowser[E any](pageSize int) ecs.SystemFunc[E] {
	return func(w *ecs.World[E]) {
		state := ecs.UseRef(w, entityBrowserState{sortAscending: true})
		useInternalEntity(w, &Selection{})
		selected := selection(w.UseQuery(SelectionType))

		tokens := []string{"-" + InternalTag}
		if state.Current.showInternal {
			tokens = nil
		}
		matches := w.UseQuery(tokens...)

		if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
			imgui.End()
			return
		}
		renderEntityBrowser(&state.Current, selected, matches, pageSize)
		imgui.End()
	}
}

func renderEntityBrowser(eb *entityBrowserState, selected *Selection, matches []*ecs.Entity, pageSize int) {
	imgui.InputTextWithHint("##search", "Search...", &eb.filterText, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.filterText = ""
		eb.currentPage = 0
	}
	imgui.SameLine()
	imgui.Checkbox("Show internal", &eb.showInternal)

	entities := collectEntities(matches)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Entity ID")
		imgui.TableSetupColumn("Tags")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.sortColumn = int(spec.ColumnIndex())
			eb.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortSpecs.SetSpecsDirty(false)
		}
		sortEntities(entities, eb.sortColumn, eb.sortAscending)
		entities = filterEntities(entities, eb.filterText)

		start, end := pageBounds(len(entities), eb.currentPage, pageSize)
		for _, entity := range entities[start:end] {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := selected != nil && selected.Entity == entity.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", entity.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) && selected != nil {
				selected.Entity = entity.ID
			}

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.Tags, ", "))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(entity.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", entity.ComponentCount))
		}

		imgui.EndTable()
	} else {
		entities = filterEntities(entities, eb.filterText)
	}

	if len(entities) > pageSize {
		totalPages := (len(entities) + pageSize - 1) / pageSize
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, totalPages, len(entities)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < totalPages-1 {
			eb.currentPage++
		}
	} else {
		eb.currentPage = 0
		imgui.Text(fmt.Sprintf("Total: %d entities", len(entities)))
	}
}

func collectEntities(matches []*ecs.Entity) []EntityInfo {
	entities := make([]EntityInfo, 0, len(matches))
	for _, e := range matches {
		components := e.Components()
		types := make([]string, len(components))
		for i, c := range components {
			types[i] = c.ComponentType()
		}
		entities = append(entities, EntityInfo{
			ID:             e.ID(),
			Tags:           e.Tags(),
			ComponentTypes: types,
			ComponentCount: len(types),
		})
	}
	return entities
}

func sortEntities(entities []EntityInfo, column int, ascending bool) {
	slices.SortStableFunc(entities, func(a, b EntityInfo) int {
		var c int
		switch column {
		case 1:
			c = strings.Compare(strings.Join(a.Tags, ","), strings.Join(b.Tags, ","))
		case 2:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case 3:
			c = cmp.Compare(a.ComponentCount, b.ComponentCount)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !ascending {
			return -c
		}
		return c
	})
}

// filterEntities keeps the rows whose id, tags or component types contain text,
// case-insensitively.
func filterEntities(entities []EntityInfo, text string) []EntityInfo {
	if text == "" {
		return entities
	}

	filtered := make([]EntityInfo, 0, len(entities))
	filterLower := strings.ToLower(text)

	for _, entity := range entities {
		idStr := fmt.Sprintf("%d", entity.ID)
		tagsStr := strings.ToLower(strings.Join(entity.Tags, " "))
		componentsStr := strings.ToLower(strings.Join(entity.ComponentTypes, " "))

		if strings.Contains(idStr, filterLower) ||
			strings.Contains(tagsStr, filterLower) ||
			strings.Contains(componentsStr, filterLower) {
			filtered = append(filtered, entity)
		}
	}

	return filtered
}

func pageBounds(total, page, pageSize int) (int, int) {
	start := min(page*pageSize, total)
	end := min(start+pageSize, total)
	return start, end
}
