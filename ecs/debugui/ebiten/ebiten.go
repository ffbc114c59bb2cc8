// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/hookworld/ecs"
	"github.com/plus3/hookworld/ecs/debugui"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// It is a component so systems can reach the backend through a query.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

func (*ImguiBackend) ComponentType() string { return "debugui.ebiten-backend" }

// Game implements ebiten.Game by running world groups inside an ImGui frame.
type Game[E any] struct {
	World   *ecs.World[E]
	Backend *ImguiBackend

	// UpdateGroups run in order on every Update, between BeginFrame and EndFrame.
	UpdateGroups []string

	// DrawScene, when set, draws game content beneath the ImGui overlay.
	DrawScene func(screen *ebiten.Image)
}

// NewGame attaches backend to a new entity in w and returns a Game running groups.
func NewGame[E any](w *ecs.World[E], backend *ebitenbackend.EbitenBackend, groups ...string) *Game[E] {
	b := &ImguiBackend{EbitenBackend: backend}
	w.AddEntity([]ecs.Component{b}, debugui.InternalTag)
	return &Game[E]{World: w, Backend: b, UpdateGroups: groups}
}

func (g *Game[E]) Update() error {
	g.Backend.BeginFrame()
	for _, group := range g.UpdateGroups {
		g.World.Run(group)
	}
	g.Backend.EndFrame()
	return nil
}

func (g *Game[E]) Draw(screen *ebiten.Image) {
	if g.DrawScene != nil {
		g.DrawScene(screen)
	}
	g.Backend.Draw(screen)
}

func (g *Game[E]) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.Backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
