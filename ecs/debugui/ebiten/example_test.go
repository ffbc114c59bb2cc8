package ebiten_test

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/hookworld/ecs"
	"github.com/plus3/hookworld/ecs/debugui"
	debugui_ebiten "github.com/plus3/hookworld/ecs/debugui/ebiten"
)

func Example() {
	// Create Ebiten window and ImGui backend
	imguiBackend := ebitenbackend.NewEbitenBackend()
	imguiBackend.CreateWindow("ECS ImGui Example", 1280, 720)
	imgui.CurrentIO().SetIniFilename("") // Disable imgui.ini

	w := ecs.NewWorld(struct{}{})

	// Spawn entities with ImGui render functions
	w.AddEntity([]ecs.Component{&debugui.ImguiItem{
		Render: func() {
			imgui.Begin("Debug Window")
			imgui.Text("Hello from ECS!")
			imgui.End()
		},
	}})

	// Install the ImGui bridge and the debug panels
	debugui.Register(w, "debug", debugui.WithPageSize(50))

	game := debugui_ebiten.NewGame(w, imguiBackend, "debug")

	// Run the game
	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
