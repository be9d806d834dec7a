package testsupport

import (
	"testing"

	"pcbooth/internal/scene/scenetest"
)

// NewPCBEngine seeds a fake engine shaped like a board export: a board
// object named after the project, layer meshes in the Board collection,
// sided components, and the stock backgrounds.
func NewPCBEngine(t testing.TB, project string) *scenetest.Engine {
	t.Helper()

	eng := scenetest.NewEngine()
	eng.AddObject(project)
	eng.AddCollection("Board", project,
		project+"_PCB_layer1", project+"_PCB_layer2",
		project+"_PCB_layer3", project+"_PCB_layer4")

	eng.AddCollection("Components", "J1:conn_02x05", "U1:soic8", "C1:0402", "SW2:tactile")
	eng.SetProperty("J1:conn_02x05", "PCB_Side", "T")
	eng.SetProperty("U1:soic8", "PCB_Side", "T")
	eng.SetProperty("C1:0402", "PCB_Side", "T")
	eng.SetProperty("SW2:tactile", "PCB_Side", "B")

	eng.AddCollection("Backgrounds", "paper_black", "transparent")
	eng.SeedNodeValue("Color_group", "Solder_Switch", 1)
	return eng
}
