package kommo

type FieldValue struct {
	Value    string `json:"value"`
	EnumCode string `json:"enum_code,omitempty"`
}

type CustomField struct {
	FieldCode string       `json:"field_code"`
	Values    []FieldValue `json:"values"`
}

type ContactRequest struct {
	Name               string        `json:"name"`
	FirstName          string        `json:"first_name,omitempty"`
	LastName           string        `json:"last_name,omitempty"`
	CustomFieldsValues []CustomField `json:"custom_fields_values,omitempty"`
}

type TagRef struct {
	Name string `json:"name"`
}

type ContactRef struct {
	ID int `json:"id"`
}

type LeadEmbedded struct {
	Tags     []TagRef     `json:"tags,omitempty"`
	Contacts []ContactRef `json:"contacts,omitempty"`
}

type LeadRequest struct {
	Name     string       `json:"name"`
	StatusID int          `json:"status_id,omitempty"`
	Embedded LeadEmbedded `json:"_embedded"`
}

type ContactResponse struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type ListResponse struct {
	Embedded struct {
		Contacts []ContactResponse `json:"contacts"`
		Leads    []struct {
			ID int `json:"id"`
		} `json:"leads"`
	} `json:"_embedded"`
}
