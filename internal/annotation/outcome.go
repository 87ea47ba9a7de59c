package annotation

type OutcomeKind int

const (
	Incorrect OutcomeKind = iota
	Correct
	Missing
	Unannotatable
)

func (k OutcomeKind) String() string {
	switch k {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	case Missing:
		return "missing"
	case Unannotatable:
		return "unannotatable"
	}
	return "unknown"
}

// Outcome is the scoring verdict for one key. Weight is 1 for a full match,
// a fraction for partial credit and 0 otherwise.
type Outcome struct {
	Kind   OutcomeKind
	Weight float64
}

func CorrectOutcome() Outcome          { return Outcome{Kind: Correct, Weight: 1} }
func PartialOutcome(w float64) Outcome { return Outcome{Kind: Correct, Weight: w} }
func IncorrectOutcome() Outcome        { return Outcome{Kind: Incorrect} }
func MissingOutcome() Outcome          { return Outcome{Kind: Missing} }
func UnannotatableOutcome() Outcome    { return Outcome{Kind: Unannotatable} }
func (o Outcome) Partial() bool        { return o.Kind == Correct && o.Weight < 1 }
func (o Outcome) Submitted() bool      { return o.Kind == Correct || o.Kind == Incorrect }
func (o Outcome) Annotatable() bool    { return o.Kind != Unannotatable }
