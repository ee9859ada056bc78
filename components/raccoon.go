package components

// RaccoonPhase is the stage of a raccoon's raid.
type RaccoonPhase uint8

const (
	PhaseProwling RaccoonPhase = iota // Outside the fence looking for a way in
	PhaseInside                       // Entered through a hole, hunting
	PhaseFleeing                      // Heading for the field edge; cannot capture
)

// String returns the display name for a RaccoonPhase.
func (p RaccoonPhase) String() string {
	names := RaccoonPhaseNames()
	if int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// RaccoonPhaseNames returns the display names for all phases.
// The order matches the RaccoonPhase constants.
func RaccoonPhaseNames() []string {
	return []string{"prowling", "inside", "fleeing"}
}

// NoTarget marks an unset chicken target.
const NoTarget = -1

// Raccoon holds intruder-specific data.
type Raccoon struct {
	ID    uint32
	Phase RaccoonPhase
	Age   float64 // seconds since spawn

	// Chicken targets are recomputed every frame from positions.
	HoleID uint32   // hole used to enter, 0 if none
	Entry  Position // fence point the raccoon came in by

	Carrying int // roster index of a captured chicken, NoTarget if empty-handed
}

// CanCapture reports whether the raccoon may still take a chicken.
func (r *Raccoon) CanCapture() bool {
	return r.Phase != PhaseFleeing
}
