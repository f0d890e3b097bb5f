package models

type Registrant struct {
	RegistrantID string `json:"registrant_id"`
	EventID      string `json:"event_id"`
	Name         string `json:"name"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	AltPhone     string `json:"alt_phone,omitempty"`
	WhatsApp     string `json:"whatsapp,omitempty"`
	City         string `json:"city,omitempty"`
}
