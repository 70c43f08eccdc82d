package dto

// ExportResponse describes a stored export
type ExportResponse struct {
	Filename  string `json:"filename"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expiresAt"`
}
