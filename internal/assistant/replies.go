package assistant

import (
	"fmt"

	"github.com/omriShneor/schedbot/internal/temporal"
)

// Canned prompts and fallbacks. Confirmations are built by the executors.
const (
	replyAskRescheduleTitle = "📝 Please specify the event name you'd like to reschedule."
	replyAskRescheduleWhen  = "📅 What new date and time should I reschedule it to?"
	replyRescheduleRetry    = "❌ Please provide a valid date and time like 'tomorrow at 3 PM'."

	replyAskDeleteTitle = "📝 Please specify the event name you'd like to delete."
	replyAskDeleteDate  = "📅 Please specify the date of the event you want to delete (e.g., 'tomorrow' or '9 July')."
	replyDeleteRetry    = "❌ I couldn't understand the date. Try something like 'tomorrow' or 'July 10'."

	replyAskBookingDate = "📅 What date should I schedule the meeting?"
	replyAskBookingTime = "⏰ What time should I schedule it?"
	replyTimeRetry      = "❌ I couldn't understand that time. Try an exact time like '2 PM' or '14:00'."
	replyAskTitle       = "📝 What should I title the event?"
	replyAskCheckDate   = "📅 What date should I check?"

	replyGreeting = "👋 Hi there! I can help you manage your calendar — try saying something like 'Book meeting on Friday' or 'Check availability on July 10'."

	replyHelp = "🧠 I'm your calendar assistant! Here's what I can do:\n" +
		"- 📅 Book a meeting (e.g., 'Schedule a call on Friday at 4 PM')\n" +
		"- 🔁 Reschedule an event (e.g., 'Reschedule 'Team Sync' to Monday at 11 AM')\n" +
		"- 🗑️ Delete an event (e.g., 'Delete 'Project Review' from tomorrow')\n" +
		"- 🔍 Check your availability (e.g., 'Check availability on July 15')\n\n" +
		"💬 Just tell me what you'd like to do!"

	replyNoIdea = "Sorry, I didn't catch that. Try asking me to book, reschedule, or delete a meeting."

	replyUnrecognized = "Sorry, I didn't understand what you're asking. Try 'Book meeting on Friday' or \"Reschedule 'Team Sync' to 3 PM\"."
)

// askBookingTime renders the time prompt, hinting at the vague window the
// user mentioned. The window never substitutes for an explicit time.
func askBookingTime(w *temporal.Window) string {
	if w == nil {
		return replyAskBookingTime
	}
	return fmt.Sprintf("⏰ What time should I schedule it? An exact time between %d:00 and %d:00 would work.", w.StartHour, w.EndHour)
}
