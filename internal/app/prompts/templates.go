package prompts

import "github.com/PabloGalante/farum-counselor/internal/domain"

const (
	CategoryBaseSystem            = "base_system"
	CategoryConversationStarters  = "conversation_starters"
	CategoryTherapeuticTechniques = "therapeutic_techniques"
	CategoryCrisisPrompts         = "crisis_prompts"
	CategoryAssessmentPrompts     = "assessment_prompts"
	CategoryEmotionalResponses    = "emotional_responses"
	CategoryClosingPrompts        = "closing_prompts"
)

// defaultEntries is the template table in declaration order. Nested lookups
// walk it in this order, so the order of sections matters.
func defaultEntries() []Entry {
	cbt := string(domain.ApproachCBT)
	dbt := string(domain.ApproachDBT)
	hum := string(domain.ApproachHumanistic)
	sfb := string(domain.ApproachSolutionFocused)
	mnd := string(domain.ApproachMindfulness)

	return []Entry{
		// conversation starters
		{Key{CategoryConversationStarters, "", "first_session"}, Group{
			"Hello, I'm Alex, your AI mental health counselor. I'm here to provide a safe, supportive space for you to share what's on your mind. What would you like to talk about today?",
			"Welcome! I'm glad you decided to reach out. Taking this step shows real courage. What's been going on that made you want to connect today?",
			"Hi there. I'm Alex, and I'm here to listen and support you. There's no pressure to share anything you're not comfortable with. What feels most important to discuss right now?",
		}},
		{Key{CategoryConversationStarters, "", "returning_user"}, Group{
			"It's good to see you again. How have you been since we last talked?",
			"Welcome back. I've been thinking about our last conversation. How are you feeling today?",
			"Hello again. What's been on your mind since we last spoke?",
		}},
		{Key{CategoryConversationStarters, "", "crisis_detected"}, Group{
			"I hear that you're going through an incredibly difficult time right now. Your safety is my primary concern. Can you tell me more about what you're experiencing?",
			"It sounds like you're in a lot of pain right now. I want you to know that you're not alone. Let's talk about what's happening and how we can help you feel safer.",
		}},
		{Key{CategoryConversationStarters, "", "check_in"}, Group{
			"How are you feeling right now, in this moment?",
			"Take a moment to check in with yourself. What emotions are you noticing?",
			"What's your emotional weather like today?",
		}},

		// therapeutic techniques, one section per approach
		{Key{CategoryTherapeuticTechniques, cbt, "thought_challenging"}, Group{
			"I notice you mentioned '{negative_thought}'. Let's examine this together. What evidence do you have that supports this thought?",
			"That sounds like a really difficult thought to have. Can you think of any alternative ways to look at this situation?",
			"When you think '{negative_thought}', how does that make you feel? Let's explore if this thought is helpful or accurate.",
		}},
		{Key{CategoryTherapeuticTechniques, cbt, "behavioral_activation"}, Group{
			"What activities used to bring you joy or satisfaction? How might we gradually reintroduce some of these?",
			"Let's think about small, manageable steps you could take today that might improve your mood, even slightly.",
			"What would a valued activity look like for you this week? Something that aligns with what matters to you?",
		}},
		{Key{CategoryTherapeuticTechniques, cbt, "cognitive_restructuring"}, Group{
			"I'm hearing some 'all-or-nothing' thinking. Life often exists in the gray areas. What might a more balanced perspective look like?",
			"You mentioned '{catastrophic_thought}'. What would you tell a close friend who had this same worry?",
			"Let's try a thought experiment. What's the most realistic outcome of this situation?",
		}},
		{Key{CategoryTherapeuticTechniques, dbt, "distress_tolerance"}, Group{
			"It sounds like you're experiencing intense emotions right now. Let's try a grounding technique. Can you name 5 things you can see right now?",
			"When emotions feel overwhelming, sometimes we need to ride the wave rather than fight it. What would help you tolerate this feeling for the next few minutes?",
			"Let's try the STOP technique: Stop, Take a breath, Observe what's happening, Proceed mindfully. What do you notice when you pause?",
		}},
		{Key{CategoryTherapeuticTechniques, dbt, "emotion_regulation"}, Group{
			"What emotion are you experiencing right now? Can you rate its intensity from 1-10?",
			"Emotions are like waves - they rise, peak, and naturally fall. What do you think this emotion is trying to tell you?",
			"Let's practice opposite action. If your emotion is urging you to {action}, what would the opposite, more helpful action be?",
		}},
		{Key{CategoryTherapeuticTechniques, dbt, "interpersonal_effectiveness"}, Group{
			"It sounds like that conversation was really difficult. How did you advocate for your needs in that situation?",
			"When you think about setting boundaries, what feels most challenging for you?",
			"Let's practice the DEAR MAN technique for your next difficult conversation.",
		}},
		{Key{CategoryTherapeuticTechniques, hum, "unconditional_positive_regard"}, Group{
			"I want you to know that whatever you're experiencing is valid and understandable given your circumstances.",
			"You're showing incredible strength by sharing this with me. Thank you for trusting me with your feelings.",
			"There's no judgment here. You're inherently worthy of compassion and understanding.",
		}},
		{Key{CategoryTherapeuticTechniques, hum, "reflection"}, Group{
			"It sounds like you're feeling {emotion} about {situation}. Is that right?",
			"I'm hearing that {reflection}. How does that resonate with you?",
			"What I'm picking up is {summary}. Does that capture what you're experiencing?",
		}},
		{Key{CategoryTherapeuticTechniques, hum, "self_actualization"}, Group{
			"What does your authentic self look like? What would it mean to live more aligned with your true values?",
			"When do you feel most like yourself?",
			"What would change in your life if you fully accepted yourself as you are?",
		}},
		{Key{CategoryTherapeuticTechniques, sfb, "scaling_questions"}, Group{
			"On a scale of 1-10, where 1 is the worst you've felt and 10 is the best, where are you today?",
			"If you moved up just one point on that scale, what would be different?",
			"What would need to happen for you to feel like you're at a {number} instead of a {current_number}?",
		}},
		{Key{CategoryTherapeuticTechniques, sfb, "exception_finding"}, Group{
			"Tell me about a recent time when this problem wasn't as intense. What was different about that situation?",
			"When do you feel most resilient or capable of handling challenges?",
			"What's worked for you in the past when you've faced similar difficulties?",
		}},
		{Key{CategoryTherapeuticTechniques, sfb, "miracle_question"}, Group{
			"Imagine you wake up tomorrow and this problem has been resolved. What would be the first sign that things are different?",
			"If we could wave a magic wand and your life was exactly as you wanted it, what would that look like?",
			"What would your best friend notice about you if this issue was no longer a problem?",
		}},
		{Key{CategoryTherapeuticTechniques, mnd, "present_moment"}, Group{
			"Let's take a moment to come back to the present. What do you notice about your breathing right now?",
			"I notice your mind has been traveling to the past/future. What's happening in this very moment?",
			"Can you bring your attention to your body? What sensations do you notice?",
		}},
		{Key{CategoryTherapeuticTechniques, mnd, "acceptance"}, Group{
			"What would it be like to hold this feeling with compassion rather than fighting it?",
			"Sometimes the struggle against our emotions causes more suffering than the emotions themselves. What would acceptance look like here?",
			"What if you could be curious about this experience rather than judgmental?",
		}},
		{Key{CategoryTherapeuticTechniques, mnd, "mindful_observation"}, Group{
			"Let's practice observing your thoughts like clouds passing in the sky. What thoughts are you noticing right now?",
			"Can you notice this emotion without becoming the emotion? You are the observer, not the observed.",
			"What would it be like to watch your thoughts with gentle curiosity instead of harsh judgment?",
		}},

		// crisis scripts
		{Key{CategoryCrisisPrompts, "", "immediate_safety"}, Group{
			"Your safety is the most important thing right now. Are you currently in immediate danger?",
			"I'm very concerned about you. Do you have thoughts of hurting yourself or ending your life?",
			"Right now, in this moment, are you safe? That's what matters most.",
		}},
		{Key{CategoryCrisisPrompts, "", "suicidal_ideation"}, Group{
			"Thank you for trusting me with this. Having thoughts of suicide can be incredibly frightening. Are you thinking about hurting yourself right now?",
			"I hear how much pain you're in. Suicide can feel like the only way out, but there are other options. Can you tell me more about these thoughts?",
			"You mentioned wanting to die. Are you having specific thoughts about how you might hurt yourself?",
		}},
		{Key{CategoryCrisisPrompts, "", "safety_planning"}, Group{
			"Let's create a safety plan together. Who are the people in your life you can reach out to when you're feeling this way?",
			"What are some things that have helped you get through difficult times before?",
			"Can you remove or secure any means of self-harm from your immediate environment?",
		}},
		{Key{CategoryCrisisPrompts, "", "professional_referral"}, Group{
			"I want to connect you with immediate professional support. Are you willing to speak with a crisis counselor right now?",
			"This level of distress requires professional intervention. Let's get you connected with someone who can provide immediate help.",
			"I'm going to provide you with some crisis resources. The National Suicide Prevention Lifeline is available 24/7 at 988.",
		}},
		{Key{CategoryCrisisPrompts, "", "de_escalation"}, Group{
			"I can hear how overwhelmed you're feeling. Let's take this one moment at a time. Can you take a slow, deep breath with me?",
			"You're not alone in this. Many people have felt exactly what you're feeling and have found ways through. You can too.",
			"Right now, you're safe and you're talking to me. That's enough for this moment.",
		}},

		// assessments
		{Key{CategoryAssessmentPrompts, "", "phq9_introduction"}, Group{
			"I'd like to understand better how you've been feeling lately. Would you be open to answering some questions about your mood over the past two weeks?",
			"To better support you, I'd like to do a brief assessment about your emotional well-being. This will help me understand how you've been feeling recently.",
		}},
		{Key{CategoryAssessmentPrompts, "", "gad7_introduction"}, Group{
			"I'd like to ask you some questions about anxiety and worry. This will help me understand your experience better.",
			"To get a clearer picture of what you're experiencing, would you be willing to answer some questions about anxiety symptoms?",
		}},
		{Key{CategoryAssessmentPrompts, "", "mood_tracking"}, Group{
			"How would you describe your overall mood today compared to yesterday?",
			"What patterns do you notice in your mood throughout the day/week?",
			"On a scale of 1-10, how would you rate your mood right now?",
		}},
		{Key{CategoryAssessmentPrompts, "", "sleep_assessment"}, Group{
			"How has your sleep been lately? Are you getting enough rest?",
			"Tell me about your sleep patterns. Any changes recently?",
			"What's your sleep like? Falling asleep, staying asleep, waking up?",
		}},
		{Key{CategoryAssessmentPrompts, "", "social_functioning"}, Group{
			"How are your relationships with family and friends?",
			"Are you feeling connected to the people in your life?",
			"How has your social life been affected by what you're going through?",
		}},

		// per-emotion responses
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionAnxious)}, Group{
			"I can hear the worry in your voice. Anxiety can feel overwhelming, but you're not alone in this.",
			"It sounds like your mind is racing with 'what if' thoughts. That's so exhausting. Let's slow down together.",
			"Anxiety often makes us feel like we need to solve everything right now. What if we just focused on this moment?",
		}},
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionDepressed)}, Group{
			"I hear how heavy everything feels right now. Depression can make even simple tasks feel impossible.",
			"It sounds like you're carrying a lot of pain. That takes incredible strength, even when it doesn't feel like it.",
			"When depression is present, it can feel like nothing will ever change. But feelings, even the most painful ones, are temporary.",
		}},
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionAngry)}, Group{
			"I can sense your frustration and anger. These are valid emotions - you have every right to feel upset.",
			"Anger often signals that something important to you has been threatened or violated. What is that for you?",
			"It sounds like you're really fired up about this. Anger can be a powerful emotion - what is it trying to tell you?",
		}},
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionOverwhelmed)}, Group{
			"It sounds like you have so much on your plate right now. Feeling overwhelmed is completely understandable.",
			"When everything feels like too much, sometimes we need to break things down into smaller, manageable pieces.",
			"I hear that you're drowning in responsibilities. Let's figure out what's most urgent and what can wait.",
		}},
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionHopeful)}, Group{
			"I can hear the hope in your voice, and that's beautiful. What's contributing to this positive shift?",
			"It sounds like you're seeing some light at the end of the tunnel. That's wonderful progress.",
			"I'm noticing more energy and optimism in how you're talking. What's changed for you?",
		}},
		{Key{CategoryEmotionalResponses, "", string(domain.EmotionNeutral)}, Group{
			"I'm here to listen and support you. What would you like to talk about?",
			"How are you feeling right now?",
			"Is there something on your mind you'd like to share?",
		}},

		// closing
		{Key{CategoryClosingPrompts, "", "session_summary"}, Group{
			"Let's take a moment to reflect on what we've discussed today. What stands out to you from our conversation?",
			"We've covered a lot of ground today. What feels most important or meaningful from what we've talked about?",
			"As we wrap up, what are you taking away from our time together?",
		}},
		{Key{CategoryClosingPrompts, "", "homework_assignment"}, Group{
			"Between now and next time, I'd like you to try {technique}. How does that sound to you?",
			"What's one small thing you could do this week to care for yourself?",
			"Let's pick one coping strategy we discussed to practice over the next few days.",
		}},
		{Key{CategoryClosingPrompts, "", "encouragement"}, Group{
			"You've shown real courage by sharing what you did today. That's not easy, and I'm proud of you for being here.",
			"Remember, healing isn't linear. Be patient and compassionate with yourself as you continue this journey.",
			"You have more strength than you realize. I see it in how you're facing these challenges.",
		}},
		{Key{CategoryClosingPrompts, "", "next_steps"}, Group{
			"When would you like to talk again? I'm here whenever you need support.",
			"What feels like the right next step for you in your healing journey?",
			"How can I best support you moving forward?",
		}},
	}
}
