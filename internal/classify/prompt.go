package classify

import (
	"fmt"
	"strings"

	"github.com/directauto/lead-intake/internal/leads"
)

const systemPrompt = `You are a lead qualification assistant for an auto brokerage. You read a prospect's answers from a multi-step intake form and classify the lead. Respond with strict JSON only, no prose, using exactly these fields:
{"heat": "HOT" | "WARM" | "BROWSING", "timeline_bucket": "ASAP" | "30_days" | "60_plus_days" | "just_looking", "vehicle_intent": "SUV" | "sedan" | "truck" | "coupe" | "ev_hybrid" | "van" | "unknown", "summary": "<one or two short sentences for the broker>"}`

// buildUserPrompt renders the qualitative submission fields as labeled lines.
// Absent answers are listed as "not provided" so the model sees the full form.
func buildUserPrompt(sub *leads.Submission) string {
	var b strings.Builder
	b.WriteString("Classify this lead:\n")
	writeField(&b, "Goal", sub.Goal)
	writeField(&b, "Timeline", sub.Timeline)
	writeField(&b, "New or used", sub.NewOrUsed)
	writeField(&b, "Vehicle type", sub.VehicleType)
	writeField(&b, "Model preferences", sub.ModelPreferences)
	writeField(&b, "Monthly payment range", sub.PaymentRange)
	writeField(&b, "Down payment", sub.DownPayment)
	writeField(&b, "Credit", sub.Credit)
	writeField(&b, "Preferred contact method", sub.ContactMethod)
	return b.String()
}

func writeField(b *strings.Builder, label string, value *string) {
	v := "not provided"
	if value != nil && strings.TrimSpace(*value) != "" {
		v = strings.TrimSpace(*value)
	}
	fmt.Fprintf(b, "%s: %s\n", label, v)
}
