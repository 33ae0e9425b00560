package classifier

import "fmt"

func firstOpinionPrompt(input string) string {
	return fmt.Sprintf(`You are a production error classification expert.

Given the following production error or observation, classify it into:
1. SYMPTOM: The observable problem (what's wrong)
2. CAUSE: The root cause (why it's happening)
3. ACTION: The remediation step (how to fix it)

If any category is not mentioned or unclear, provide your best inference based on the information given.

Input:
%s

Respond with valid JSON in this exact format:
{
  "symptom": "description of the symptom",
  "cause": "description of the cause",
  "action": "description of the action"
}`, input)
}

func secondOpinionPrompt(input string) string {
	return fmt.Sprintf(`You are a production incident analyzer providing an alternative perspective.

Analyze this production error and classify it into:
1. SYMPTOM: What is the observable problem?
2. CAUSE: What is the underlying root cause?
3. ACTION: What remediation should be taken?

Provide your independent analysis, even if you have a different interpretation.

Input:
%s

Respond with valid JSON in this exact format:
{
  "symptom": "description of the symptom",
  "cause": "description of the cause",
  "action": "description of the action"
}`, input)
}

func arbiterPrompt(input string, first, second Opinion) string {
	return fmt.Sprintf(`You are the final arbitrator for production error classification.

You have received two independent opinions on how to classify a production error.
Your task is to review both opinions, resolve any conflicts, and provide the final classification.

Original Input:
%s

First Opinion:
- Symptom: %s
- Cause: %s
- Action: %s

Second Opinion:
- Symptom: %s
- Cause: %s
- Action: %s

Analyze both opinions and provide your final decision. Where they agree, confirm. Where they differ, choose the most accurate classification or synthesize a better one.

Respond with valid JSON in this exact format:
{
  "symptom": "final symptom description",
  "cause": "final cause description",
  "action": "final action description",
  "symptom_confidence": 0.85,
  "cause_confidence": 0.85,
  "action_confidence": 0.85
}`, input, first.Symptom, first.Cause, first.Action,
		second.Symptom, second.Cause, second.Action)
}

const classifierSystemPrompt = "You are a production error classification expert. Always respond with valid JSON."
