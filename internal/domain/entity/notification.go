package entity

// Outbound message kinds
const (
	OutboundSMS   = "sms"
	OutboundEmail = "email"
	OutboundMpesa = "mpesa"
)

// SMSMessage is the body sent to the SMS endpoint.
type SMSMessage struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// EmailMessage is the body sent to the email endpoint.
type EmailMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// PaymentRequest is the body sent to the M-Pesa push endpoint.
type PaymentRequest struct {
	PhoneNumber      string `json:"phone"`
	Amount           int64  `json:"amount"`
	AccountReference string `json:"accountReference"`
	TransactionDesc  string `json:"transactionDesc"`
}

// Outbound is a queued fire-and-forget collaborator call.
type Outbound struct {
	Kind          string `json:"kind"`
	SessionID     string `json:"session_id"`
	InvoiceNumber string `json:"invoice_number"`
	Payload       any    `json:"payload"`
}
