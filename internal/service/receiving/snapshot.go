package receiving

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

// Snapshot is the complete serializable state of a Wizard.
type Snapshot struct {
	ID               string         `json:"id"`
	CurrentStep      Step           `json:"current_step"`
	Steps            []WorkflowStep `json:"steps"`
	Details          Details        `json:"details"`
	Items            []ReceiveItem  `json:"items"`
	SerialsGenerated bool           `json:"serials_generated"`
	CreatedAt        time.Time      `json:"created_at"`
	SubmittedAt      *time.Time     `json:"submitted_at,omitempty"`
	BatchID          string         `json:"batch_id,omitempty"`
}

// Snapshot captures the wizard state.
func (w *Wizard) Snapshot() Snapshot {
	snap := Snapshot{
		ID:               w.id,
		CurrentStep:      w.current,
		Steps:            w.Steps(),
		Details:          w.details,
		Items:            w.items.Items(),
		SerialsGenerated: w.items.serialsGenerated,
		CreatedAt:        w.createdAt,
		BatchID:          w.batchID,
	}
	if !w.submittedAt.IsZero() {
		t := w.submittedAt
		snap.SubmittedAt = &t
	}
	return snap
}

// Restore rebuilds a Wizard from a snapshot after checking its step markers.
func Restore(snap Snapshot, opts ...Option) (*Wizard, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	items := NewItemList(o.generator)
	for _, it := range snap.Items {
		it.Serials = append([]string(nil), it.Serials...)
		it.recompute()
		items.items = append(items.items, it)
	}
	items.serialsGenerated = snap.SerialsGenerated

	w := &Wizard{
		id:        snap.ID,
		steps:     append([]WorkflowStep(nil), snap.Steps...),
		current:   snap.CurrentStep,
		details:   snap.Details,
		items:     items,
		createdAt: snap.CreatedAt,
		batchID:   snap.BatchID,
		now:       o.now,
	}
	if snap.SubmittedAt != nil {
		w.submittedAt = *snap.SubmittedAt
	}
	return w, nil
}

func checkSnapshot(snap Snapshot) error {
	if snap.ID == "" {
		return fmt.Errorf("%w: missing id", ErrCorruptSnapshot)
	}
	if !snap.CurrentStep.Valid() {
		return fmt.Errorf("%w: step %d out of range", ErrCorruptSnapshot, snap.CurrentStep)
	}
	if len(snap.Steps) != int(LastStep) {
		return fmt.Errorf("%w: expected %d steps, got %d", ErrCorruptSnapshot, LastStep, len(snap.Steps))
	}
	active := 0
	for i, s := range snap.Steps {
		if s.ID != Step(i+1) {
			return fmt.Errorf("%w: step %d out of order", ErrCorruptSnapshot, s.ID)
		}
		if s.Active {
			active++
			if s.ID != snap.CurrentStep {
				return fmt.Errorf("%w: active step %d differs from current %d", ErrCorruptSnapshot, s.ID, snap.CurrentStep)
			}
		}
	}
	if active != 1 {
		return fmt.Errorf("%w: %d active steps", ErrCorruptSnapshot, active)
	}
	for _, it := range snap.Items {
		if it.Quantity <= 0 {
			return fmt.Errorf("%w: item %s has quantity %d", ErrCorruptSnapshot, it.ProductID, it.Quantity)
		}
	}
	return nil
}

// EncodeDraft serializes a snapshot for a draft store.
func EncodeDraft(snap Snapshot, updatedAt time.Time) (models.Draft, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return models.Draft{}, fmt.Errorf("encode snapshot %s: %w", snap.ID, err)
	}
	return models.Draft{
		ID:        snap.ID,
		BranchID:  snap.Details.BranchID,
		Step:      int(snap.CurrentStep),
		Payload:   payload,
		UpdatedAt: updatedAt,
	}, nil
}

// DecodeDraft parses a stored draft back into a snapshot.
func DecodeDraft(d models.Draft) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(d.Payload, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("%w: decode draft %s: %v", ErrCorruptSnapshot, d.ID, err)
	}
	return snap, nil
}
