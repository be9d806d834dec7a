package studio

// BackgroundsCollection is the scene collection holding pre-authored
// background objects.
const BackgroundsCollection = "Backgrounds"

// BackgroundTransparent is the conventional background transition and
// highlight jobs prefer when it exists.
const BackgroundTransparent = "transparent"

// Background is a named, pre-authored background asset looked up in the
// scene's Backgrounds collection.
type Background struct {
	// Name is the configuration key and filename component.
	Name string
	// ObjectName is the scene object rendered behind the board.
	ObjectName string
}
