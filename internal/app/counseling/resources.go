package counseling

// CrisisResources is the fixed payload attached to high crisis responses.
type CrisisResources struct {
	EmergencyContacts EmergencyContacts `json:"emergency_contacts"`
	ImmediateActions  []string          `json:"immediate_actions"`
	SafetyPlan        string            `json:"safety_plan"`
}

type EmergencyContacts struct {
	NationalSuicidePrevention string `json:"national_suicide_prevention"`
	CrisisTextLine            string `json:"crisis_text_line"`
	EmergencyServices         string `json:"emergency_services"`
}

// NewCrisisResources returns a fresh copy so callers can't alter the shared list.
func NewCrisisResources() *CrisisResources {
	return &CrisisResources{
		EmergencyContacts: EmergencyContacts{
			NationalSuicidePrevention: "988",
			CrisisTextLine:            "Text HOME to 741741",
			EmergencyServices:         "911",
		},
		ImmediateActions: []string{
			"Remove any means of self-harm from your environment",
			"Contact a trusted friend or family member",
			"Go to the nearest emergency room if you're in immediate danger",
			"Call 988 for immediate crisis support",
		},
		SafetyPlan: "Consider creating a safety plan with a mental health professional",
	}
}
