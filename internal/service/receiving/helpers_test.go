package receiving

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KanomTHX/flexi-furnish-hub-sub005/internal/domain/models"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type seqGenerator struct {
	calls int
}

func (g *seqGenerator) GenerateN(code string, n int) []string {
	g.calls++
	out := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s-%d-%03d", code, g.calls, i))
	}
	return out
}

func fixedNow() time.Time { return testNow }

func product(id string, cost int64) models.Product {
	return models.Product{
		ID:           id,
		Code:         "C" + id,
		Name:         "Product " + id,
		BranchID:     "B1",
		CostPrice:    decimal.NewFromInt(cost),
		SellingPrice: decimal.NewFromInt(cost * 2),
		IsActive:     true,
	}
}

func supplier(id string) models.Supplier {
	return models.Supplier{ID: id, Name: "Supplier " + id, BranchID: "B1", PaymentTerms: 30, IsActive: true}
}

func newTestWizard() (*Wizard, *seqGenerator) {
	gen := &seqGenerator{}
	return NewWizard("draft-1", WithClock(fixedNow), WithSerialGenerator(gen)), gen
}

func activeSteps(steps []WorkflowStep) []Step {
	var out []Step
	for _, s := range steps {
		if s.Active {
			out = append(out, s.ID)
		}
	}
	return out
}

func modelsDraft(payload string) models.Draft {
	return models.Draft{ID: "bad", Payload: []byte(payload)}
}
