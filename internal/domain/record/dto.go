package record

type SaveRecordInput struct {
	ID             string `json:"id" binding:"required,max=64"`
	Status         Status `json:"status" binding:"omitempty,oneof=draft submitted"`
	Value          string `json:"value"`
	Unit           string `json:"unit"`
	Frequency      string `json:"frequency"`
	Period         string `json:"period"`
	Responsible    string `json:"responsible"`
	Disaggregation string `json:"disaggregation"`
	Notes          string `json:"notes"`
	Message        string `json:"message"`
}

type TransitionInput struct {
	Note string `json:"note"`
}

type EditFieldsInput struct {
	Value          *string `json:"value"`
	Unit           *string `json:"unit"`
	Frequency      *string `json:"frequency"`
	Period         *string `json:"period"`
	Responsible    *string `json:"responsible"`
	Disaggregation *string `json:"disaggregation"`
	Notes          *string `json:"notes"`
}

// ReconcileInput carries the browser-local tier's records so the server can
// merge them into its own view.
type ReconcileInput struct {
	Records []Record `json:"records"`
}
