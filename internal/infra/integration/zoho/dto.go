package zoho

type Lead struct {
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Email       string `json:"Email,omitempty"`
	Phone       string `json:"Phone,omitempty"`
	LeadSource  string `json:"Lead_Source,omitempty"`
	Description string `json:"Description,omitempty"`
}

type UpsertRequest struct {
	Data                 []Lead   `json:"data"`
	DuplicateCheckFields []string `json:"duplicate_check_fields"`
}

type UpsertResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
		Action  string `json:"action"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
	} `json:"data"`
}
