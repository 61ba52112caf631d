package deck

import (
	"fmt"

	"slidedeck/internal/services"
	"slidedeck/internal/ui"
)

// Validate declares def on throwaway pages, once as the deck view and once
// as the notes view, and returns the first construction error
func Validate(def Definition) error {
	store := services.NewMemoryStore()

	p := ui.NewPage("validate-deck", "validate", store)
	defer p.Close()
	if _, err := Mount(p, def); err != nil {
		return fmt.Errorf("deck view: %w", err)
	}

	n := ui.NewPage("validate-notes", "validate", store)
	defer n.Close()
	if _, err := MountNotes(n, def); err != nil {
		return fmt.Errorf("notes view: %w", err)
	}
	return nil
}
