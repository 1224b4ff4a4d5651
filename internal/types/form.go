package types

const (
	SubmitLabelIdle       = "Submit Feedback"
	SubmitLabelSubmitting = "Submitting..."
	SubmitLabelSent       = "Feedback Sent!"

	StarCount = 5
)

// FormState is the feedback page UI state. It is kept between requests, so
// every field is plain data. The pointer receivers make its parts usable as
// UI bindings for the submitter.
type FormState struct {
	RatingValue int         `json:"rating"`
	Review      string      `json:"review"`
	Stars       []StarState `json:"stars"`
	Button      ButtonState `json:"button"`
	Panel       PanelState  `json:"panel"`
	Alerts      AlertQueue  `json:"alerts,omitempty"`
}

func NewFormState() *FormState {
	stars := make([]StarState, StarCount)
	for i := range stars {
		stars[i] = StarState{StarValue: i + 1}
	}
	return &FormState{
		Stars:  stars,
		Button: ButtonState{Label: SubmitLabelIdle},
	}
}

func (f *FormState) Value() int {
	return f.RatingValue
}

func (f *FormState) SetValue(v int) {
	f.RatingValue = v
}

type StarState struct {
	StarValue int  `json:"value"`
	Active    bool `json:"active"`
}

func (s *StarState) Value() int {
	return s.StarValue
}

func (s *StarState) SetActive(active bool) {
	s.Active = active
}

type ButtonState struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
	Success  bool   `json:"success"`
}

func (b *ButtonState) SetLabel(label string) {
	b.Label = label
}

func (b *ButtonState) SetDisabled(disabled bool) {
	b.Disabled = disabled
}

func (b *ButtonState) IsDisabled() bool {
	return b.Disabled
}

func (b *ButtonState) SetSuccess(success bool) {
	b.Success = success
}

type PanelState struct {
	Visible bool   `json:"visible"`
	Text    string `json:"text"`
}

func (p *PanelState) Show(text string) {
	p.Visible = true
	p.Text = text
}

func (p *PanelState) Hide() {
	p.Visible = false
}

// AlertQueue collects alerts until the page shows them.
type AlertQueue []string

func (q *AlertQueue) Alert(message string) {
	*q = append(*q, message)
}

// Drain returns the pending alerts and clears the queue.
func (q *AlertQueue) Drain() []string {
	alerts := *q
	*q = nil
	return alerts
}
