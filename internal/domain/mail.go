package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ComplaintFiledMailData struct {
	FullName       string `json:"fullName"` // 收件主管的姓名
	ZoneName       string `json:"zoneName"`
	ClientFullName string `json:"clientFullName"`
	ServiceDay     int32  `json:"serviceDay"`
	ServiceStart   string `json:"serviceStart"`
	ServiceEnd     string `json:"serviceEnd"`
}
