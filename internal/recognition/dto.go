package recognition

import "errors"

// RecognizeDTO is the payload for an image recognition request. APIKey and
// Model optionally override the server-side credential and model choice for
// this one call.
type RecognizeDTO struct {
	ImageBase64 string `json:"imageBase64"`
	APIKey      string `json:"apiKey,omitempty"`
	Model       string `json:"model,omitempty"`
}

func (dto RecognizeDTO) Validate() error {
	if dto.ImageBase64 == "" {
		return errors.New("image is required")
	}
	return nil
}

type RecognitionResponse struct {
	Success      bool       `json:"success"`
	Transactions []Proposal `json:"transactions"`
}
