package mail

type LeadNotificationData struct {
	OwnerName string
	LeadName  string
	Source    string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
