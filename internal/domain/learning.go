package domain

type SuggestionRequest struct {
	UserInput string `json:"user_input" validate:"required,max=4000"`
}

type SuggestionResponse struct {
	Suggestion     string   `json:"suggestion"`
	SuggestionHTML string   `json:"suggestion_html"`
	Resources      []string `json:"resources"`
}
