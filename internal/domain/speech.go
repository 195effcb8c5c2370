package domain

const DefaultVoice = "en-US-Standard-A"

type SynthesisRequest struct {
	Text  string `json:"text" validate:"required,max=5000"`
	Voice string `json:"voice" validate:"omitempty,max=100"`
}
