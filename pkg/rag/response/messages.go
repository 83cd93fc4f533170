package response

// Fixed user-facing texts. Handlers compose everything else.

// Clarification is returned for unknown intents: a capability overview
// instead of a guess. No tools run and no retrieval happens on this path.
const Clarification = `Hello! I'm your HR assistant. I can help you with:

- Leave management: check your leave balance or submit a leave request
- Payroll: view your recent pay stubs and deductions
- HR policies: leave rules, healthcare benefits, retirement, and more

What would you like to do?`

// NotCovered is the grounded-answer refusal: retrieval found nothing
// relevant, so no answer is synthesized.
const NotCovered = "I don't have specific information about that in our policy documents. Please contact HR directly."

// Apology is the terminal fallback when a turn cannot be processed.
const Apology = "I apologize, but I couldn't process your request. Please try again or contact HR directly."

// SubmitStatusUnknown is used when a leave submission timed out: the
// request may or may not have reached the HR system, and resubmitting
// blindly could create a duplicate.
const SubmitStatusUnknown = "Your leave request may not have gone through - the HR system did not confirm it in time. Please verify with HR before submitting again; I have not retried it to avoid creating a duplicate request."
