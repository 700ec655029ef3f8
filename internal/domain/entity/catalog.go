package entity

import "time"

// QuickService is a preset service with a default amount.
type QuickService struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// QuickServices returns the preset services offered by the service picker
func QuickServices() []QuickService {
	return []QuickService{
		{ID: "boda", Description: "Boda Ride", Amount: "150"},
		{ID: "haircut", Description: "Haircut", Amount: "300"},
		{ID: "photo", Description: "Photo Session", Amount: "5000"},
		{ID: "tailoring", Description: "Tailoring", Amount: "800"},
	}
}

// FindQuickService looks up a preset by id
func FindQuickService(id string) (QuickService, bool) {
	for _, s := range QuickServices() {
		if s.ID == id {
			return s, true
		}
	}
	return QuickService{}, false
}

// BackupRecord is one row of an invoice backup.
type BackupRecord struct {
	InvoiceNumber string    `json:"invoice_number"`
	ClientName    string    `json:"client_name"`
	Total         string    `json:"total"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"`
}
