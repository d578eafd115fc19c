package pipedrive

type CreatePersonInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	OrgID int    `json:"org_id,omitempty"`
}

type CreateDealInput struct {
	Title    string `json:"title"`
	PersonID int    `json:"person_id"`
	OrgID    int    `json:"org_id,omitempty"`
	Value    int    `json:"value,omitempty"`
	StageID  int    `json:"stage_id,omitempty"`
}

type apiResponse struct {
	Success bool `json:"success"`
	Data    struct {
		ID int `json:"id"`
	} `json:"data"`
}
