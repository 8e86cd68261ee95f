package hubspot

type ContactProperties struct {
	Email          string `json:"email,omitempty"`
	Phone          string `json:"phone,omitempty"`
	FirstName      string `json:"firstname,omitempty"`
	LastName       string `json:"lastname,omitempty"`
	LeadSource     string `json:"hs_analytics_source_data_1,omitempty"`
	LifecycleStage string `json:"lifecyclestage,omitempty"`
	Message        string `json:"message,omitempty"`
}

type ContactRequest struct {
	Properties ContactProperties `json:"properties"`
}

type ContactResponse struct {
	ID string `json:"id"`
}

type Filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties"`
	Limit        int           `json:"limit"`
}

type SearchResponse struct {
	Total   int               `json:"total"`
	Results []ContactResponse `json:"results"`
}
