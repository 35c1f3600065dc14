package model

// ================ Config ================
type DetectorConfig struct {
	Signals []string `envconfig:"SCAM_SIGNALS" default:"blocked,verify,urgent,upi,account suspended,send money,click link"`
}

type ExtractorConfig struct {
	Keywords []string `envconfig:"SUSPICIOUS_KEYWORDS" default:"urgent,verify,blocked,suspend"`
}

type EngagementConfig struct {
	ReportThreshold int    `envconfig:"REPORT_THRESHOLD" default:"5"`
	DisengagedReply string `envconfig:"DISENGAGED_REPLY" default:"Okay, thank you."`
}

type PersonaModelConfig struct {
	Model       string  `envconfig:"PERSONA_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"PERSONA_MAX_TOKENS" default:"1000"`
	Temperature float32 `envconfig:"PERSONA_TEMPERATURE" default:"0.8"`
}

type PersonaPromptConfig struct {
	Profile string `envconfig:"PERSONA_PROFILE" default:"a normal Indian user"`
}

type ReportConfig struct {
	CallbackURL    string `envconfig:"REPORT_CALLBACK_URL" default:"https://hackathon.guvi.in/api/updateHoneyPotFinalResult"`
	TimeoutSeconds int    `envconfig:"REPORT_TIMEOUT_SECONDS" default:"5"`
}

type SessionConfig struct {
	Backend     string `envconfig:"SESSION_BACKEND" default:"memory"`
	TTL         string `envconfig:"SESSION_TTL" default:"15m"`
	MaxSessions int    `envconfig:"SESSION_MAX" default:"1024"`
}
