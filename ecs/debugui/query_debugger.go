package debugui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hookworld/ecs"
)

type tokenMode uint8

const (
	tokenIgnored tokenMode = iota
	tokenRequired
	tokenExcluded
)

// QueryDebugger is a system that builds a query from checkboxes over every
// component type and tag in the store, shows what it matches, and lists the
// live queries other systems hold.
func QueryDebugger[E any](w *ecs.World[E]) {
	selected := ecs.UseRef(w, map[string]tokenMode{})
	stats := w.CollectStats()

	tokens := buildTokens(selected.Current)
	matches := w.UseQuery(tokens...)

	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	imgui.Text("Select Component Types and Tags:")
	imgui.Separator()

	if imgui.Button("Clear All") {
		clear(selected.Current)
	}

	names := append(stats.ComponentTypeNames(), stats.TagNames()...)
	slices.Sort(names)
	for _, name := range slices.Compact(names) {
		renderTokenToggle(selected.Current, name)
	}

	imgui.Separator()

	if len(tokens) == 0 {
		imgui.Text("No tokens selected, matching every entity")
	} else {
		imgui.Text(fmt.Sprintf("Query: %s", ecs.Fingerprint(tokens...)))
	}
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Live Queries") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("LiveQueryTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("Tokens")
			imgui.TableSetupColumn("Matches")
			imgui.TableSetupColumn("Holders")
			imgui.TableHeadersRow()

			for _, q := range stats.Queries {
				imgui.TableNextRow()

				imgui.TableSetColumnIndex(0)
				imgui.Text(queryLabel(q.Fingerprint))

				imgui.TableSetColumnIndex(1)
				imgui.Text(fmt.Sprintf("%d", q.Matches))

				imgui.TableSetColumnIndex(2)
				imgui.Text(fmt.Sprintf("%d", q.RefCount))
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}
}

func renderTokenToggle(selected map[string]tokenMode, name string) {
	required := selected[name] == tokenRequired
	excluded := selected[name] == tokenExcluded

	if imgui.Checkbox(name, &required) {
		setTokenMode(selected, name, tokenRequired, required)
	}
	imgui.SameLine()
	if imgui.Checkbox("not##"+name, &excluded) {
		setTokenMode(selected, name, tokenExcluded, excluded)
	}
}

func setTokenMode(selected map[string]tokenMode, name string, mode tokenMode, on bool) {
	switch {
	case on:
		selected[name] = mode
	case selected[name] == mode:
		delete(selected, name)
	}
}

// buildTokens turns the checkbox state into sorted query tokens.
func buildTokens(selected map[string]tokenMode) []string {
	tokens := make([]string, 0, len(selected))
	for _, name := range slices.Sorted(maps.Keys(selected)) {
		switch selected[name] {
		case tokenRequired:
			tokens = append(tokens, name)
		case tokenExcluded:
			tokens = append(tokens, "-"+name)
		}
	}
	return tokens
}

func queryLabel(fingerprint string) string {
	if fingerprint == "" {
		return "(all entities)"
	}
	return strings.ReplaceAll(fingerprint, ",", ", ")
}
