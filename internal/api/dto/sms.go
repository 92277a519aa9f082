package dto

// Body of POST /send-sms. The HTTP notifier sends the same types.
type SendSMSRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type SendSMSResponse struct {
	Success    bool   `json:"success"`
	MessageSID string `json:"messageSid,omitempty"`
	Error      string `json:"error,omitempty"`
}
