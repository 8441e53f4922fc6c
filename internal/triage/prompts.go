package triage

// prompts.go holds the fixed texts spoken by the assistant and the prompt
// templates sent to the completion service.  Keeping them in one file makes
// clinical-facing wording easy to review without touching the logic.

const (
	// Disclaimer is appended to the greeting and to terminal guidance.  It
	// must accompany any clinical-sounding advice.
	Disclaimer = "I am an AI assistant, not a medical professional. My advice is for informational " +
		"purposes only and is not a substitute for professional medical diagnosis or treatment. " +
		"Always consult a human doctor for serious symptoms."

	// Greeting opens every new session and asks the first question.
	Greeting = Disclaimer + "\n\n" +
		"Hello! I'm HealthGuide, your AI assistant for the Fever Helpline. " +
		"I'm here to help you understand your symptoms and guide you on what to do next.\n\n" +
		"I understand you're concerned about a fever. Let me ask you a few questions to better understand your situation.\n\n" +
		"First, can you tell me about your symptoms? What are you experiencing right now?"

	askTemperature = "Thank you for that information. To better assess your situation, " +
		"do you know your current body temperature? If you have a thermometer, " +
		"what reading did you get? (Please share the number in Fahrenheit or Celsius)"

	retryTemperature = "I didn't catch your temperature. Could you please share it? " +
		"For example: '101 degrees' or '38.5 Celsius'"

	askDuration = "How long have you been experiencing this fever? " +
		"(For example: a few hours, 1 day, 2 days, etc.)"

	askAgeGroup = "To provide appropriate guidance, may I ask which age group applies to you?\n" +
		"• Infant (under 1 year)\n" +
		"• Child (1-12 years)\n" +
		"• Teenager (13-17 years)\n" +
		"• Adult (18-64 years)\n" +
		"• Senior (65+ years)"

	retryAgeGroup = "I didn't catch your age group. Please select one: " +
		"Infant, Child, Teenager, Adult, or Senior"

	askAdditionalSymptoms = "Are you experiencing any other symptoms? For example:\n" +
		"• Cough\n" +
		"• Sore throat\n" +
		"• Body aches\n" +
		"• Fatigue\n" +
		"• Nausea or vomiting\n" +
		"• Diarrhea\n" +
		"• Chills\n" +
		"• Sweating\n\n" +
		"Please describe any other symptoms you're having."

	// systemPrompt frames the completion service as a cautious triage
	// assistant.  It is sent with every assessment request.
	systemPrompt = "You are HealthGuide, a compassionate and cautious AI assistant for the Fever Helpline.\n\n" +
		"Core Principles:\n" +
		"1. Safety First - always prioritize user safety\n" +
		"2. Empathy - show care and understanding\n" +
		"3. Clarity - use simple, non-medical jargon\n" +
		"4. Action-Oriented - end each response with a clear next step\n\n" +
		"You are NOT a doctor and cannot provide a diagnosis. You only provide triage-level guidance.\n\n" +
		"Always ask one question at a time. Be empathetic and clear."

	// triageInstruction asks the completion service for a structured verdict.
	// The JSON keys must match assessmentPayload.
	triageInstruction = "Based on the conversation history, assess the situation and provide:\n" +
		"1. triage_level: one of EMERGENCY, URGENT, SELF_CARE, or FOLLOW_UP\n" +
		"2. escalate: whether to escalate to emergency care (boolean)\n" +
		"3. summary: a brief summary of the situation\n" +
		"4. recommended_next_steps: a list of recommended next steps\n" +
		"5. next_question: the next question to ask, or null if the conversation is complete\n\n" +
		"Respond with a single JSON object using exactly those keys."
)
