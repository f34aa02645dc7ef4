package inbound

type SendEmailRequest struct {
	To        []string `json:"to"`
	FromEmail string   `json:"from_email"`
	Subject   string   `json:"subject"`
	PlainBody string   `json:"plain_body"`
	HTMLBody  string   `json:"html_body"`
}

type SendEmailResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type SMTPHealthResponse struct {
	Status         string   `json:"status"`
	Message        string   `json:"message"`
	SMTPConfigured bool     `json:"smtp_configured"`
	MissingConfig  []string `json:"missing_config,omitempty"`
	SMTPHost       string   `json:"smtp_host,omitempty"`
	SMTPPort       int      `json:"smtp_port,omitempty"`
}
