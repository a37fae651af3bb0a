package receiving

// Step identifies one stage of the goods receipt workflow.
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepProductSelection
	StepQuantityPricing
	StepSerialNumbers
	StepSupplierBinding
	StepDocumentPrinting
)

// FirstStep and LastStep bound the workflow.
const (
	FirstStep = StepBasicInfo
	LastStep  = StepDocumentPrinting
)

var stepTitles = map[Step]string{
	StepBasicInfo:        "ข้อมูลพื้นฐาน",
	StepProductSelection: "เลือกสินค้า",
	StepQuantityPricing:  "จำนวนและราคา",
	StepSerialNumbers:    "สร้าง Serial Number",
	StepSupplierBinding:  "ผูกซัพพลายเออร์",
	StepDocumentPrinting: "พิมพ์เอกสาร",
}

// Title returns the display title of the step.
func (s Step) Title() string {
	return stepTitles[s]
}

// Valid reports whether s is one of the six workflow steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// WorkflowStep is the progress marker rendered for each stage.
type WorkflowStep struct {
	ID        Step   `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

func seedSteps() []WorkflowStep {
	steps := make([]WorkflowStep, 0, int(LastStep))
	for s := FirstStep; s <= LastStep; s++ {
		steps = append(steps, WorkflowStep{ID: s, Title: s.Title(), Active: s == FirstStep})
	}
	return steps
}
