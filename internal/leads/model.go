package leads

import (
	"encoding/json"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// AdSource captures acquisition context attached to a submission.
type AdSource struct {
	UTMSource   *string `json:"utm_source"`
	UTMCampaign *string `json:"utm_campaign"`
	UTMMedium   *string `json:"utm_medium"`
	Referrer    *string `json:"referrer"`
}

// Submission is the wire payload posted by the lead wizard. All fields are
// optional on the wire; the client guards phone and contact method before
// sending. Immutable once constructed.
type Submission struct {
	Goal             *string `json:"goal"`
	Timeline         *string `json:"timeline"`
	NewOrUsed        *string `json:"newOrUsed"`
	VehicleType      *string `json:"vehicleType"`
	ModelPreferences *string `json:"modelPreferences"`
	PaymentRange     *string `json:"paymentRange"`
	DownPayment      *string `json:"downPayment"`
	Credit           *string `json:"credit"`

	FirstName     *string `json:"firstName"`
	LastName      *string `json:"lastName"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactMethod *string `json:"contactMethod"`

	// Variant one-off fields (deal unlocks, referrals, offer codes) ride
	// through the same pipeline as optional extras.
	LeadType  *string `json:"leadType,omitempty"`
	DealName  *string `json:"dealName,omitempty"`
	OfferCode *string `json:"offerCode,omitempty"`

	AdSource *AdSource `json:"adSource"`
}

// PhoneValue returns the trimmed phone number or the empty string.
func (s *Submission) PhoneValue() string {
	if s.Phone == nil {
		return ""
	}
	return strings.TrimSpace(*s.Phone)
}

// ContactMethodValue returns the trimmed contact method or the empty string.
func (s *Submission) ContactMethodValue() string {
	if s.ContactMethod == nil {
		return ""
	}
	return strings.TrimSpace(*s.ContactMethod)
}

// Heat is the classifier's urgency tier for a lead.
type Heat string

const (
	HeatHot      Heat = "HOT"
	HeatWarm     Heat = "WARM"
	HeatBrowsing Heat = "BROWSING"
)

// Valid reports whether the value is one of the three heat tiers.
func (h Heat) Valid() bool {
	switch h {
	case HeatHot, HeatWarm, HeatBrowsing:
		return true
	}
	return false
}

// TimelineBucket is the classifier's purchase-timeline category.
type TimelineBucket string

const (
	TimelineASAP        TimelineBucket = "ASAP"
	Timeline30Days      TimelineBucket = "30_days"
	Timeline60PlusDays  TimelineBucket = "60_plus_days"
	TimelineJustLooking TimelineBucket = "just_looking"
)

// Valid reports whether the value is one of the four timeline buckets.
func (t TimelineBucket) Valid() bool {
	switch t {
	case TimelineASAP, Timeline30Days, Timeline60PlusDays, TimelineJustLooking:
		return true
	}
	return false
}

// VehicleIntent is the classifier's vehicle-category guess.
type VehicleIntent string

const (
	VehicleSUV      VehicleIntent = "SUV"
	VehicleSedan    VehicleIntent = "sedan"
	VehicleTruck    VehicleIntent = "truck"
	VehicleCoupe    VehicleIntent = "coupe"
	VehicleEVHybrid VehicleIntent = "ev_hybrid"
	VehicleVan      VehicleIntent = "van"
	VehicleUnknown  VehicleIntent = "unknown"
)

// Valid reports whether the value is one of the seven vehicle-intent categories.
func (v VehicleIntent) Valid() bool {
	switch v {
	case VehicleSUV, VehicleSedan, VehicleTruck, VehicleCoupe, VehicleEVHybrid, VehicleVan, VehicleUnknown:
		return true
	}
	return false
}

// Classification holds the four enrichment fields produced by the classifier.
// A nil Classification means enrichment did not run or failed.
type Classification struct {
	Heat           Heat           `json:"heat"`
	TimelineBucket TimelineBucket `json:"timeline_bucket"`
	VehicleIntent  VehicleIntent  `json:"vehicle_intent"`
	Summary        string         `json:"summary"`
}

// Record is the persisted storage shape: submission fields renamed to the
// table's snake_case columns, plus enrichment fields and a verbatim copy of
// the raw request under raw_json. Never mutated after insertion.
type Record struct {
	Goal             *string `json:"goal"`
	Timeline         *string `json:"timeline"`
	NewOrUsed        *string `json:"new_or_used"`
	VehicleType      *string `json:"vehicle_type"`
	ModelPreferences *string `json:"model_preferences"`
	PaymentRange     *string `json:"payment_range"`
	DownPayment      *string `json:"down_payment"`
	Credit           *string `json:"credit"`

	FirstName     *string `json:"first_name"`
	LastName      *string `json:"last_name"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	ContactMethod *string `json:"contact_method"`

	LeadType  *string `json:"lead_type,omitempty"`
	DealName  *string `json:"deal_name,omitempty"`
	OfferCode *string `json:"offer_code,omitempty"`

	Heat           *string `json:"heat"`
	TimelineBucket *string `json:"timeline_bucket"`
	VehicleIntent  *string `json:"vehicle_intent"`
	AISummary      *string `json:"ai_summary"`

	RawJSON json.RawMessage `json:"raw_json"`
}

// NewRecord maps a submission into the storage schema. raw is the verbatim
// request body kept as an audit copy; classification may be nil.
func NewRecord(sub *Submission, raw json.RawMessage, cls *Classification) Record {
	rec := Record{
		Goal:             normalized(sub.Goal),
		Timeline:         normalized(sub.Timeline),
		NewOrUsed:        normalized(sub.NewOrUsed),
		VehicleType:      normalized(sub.VehicleType),
		ModelPreferences: normalized(sub.ModelPreferences),
		PaymentRange:     normalized(sub.PaymentRange),
		DownPayment:      normalized(sub.DownPayment),
		Credit:           normalized(sub.Credit),
		FirstName:        normalized(sub.FirstName),
		LastName:         normalized(sub.LastName),
		Phone:            normalized(sub.Phone),
		Email:            normalized(sub.Email),
		ContactMethod:    normalized(sub.ContactMethod),
		LeadType:         normalized(sub.LeadType),
		DealName:         normalized(sub.DealName),
		OfferCode:        normalized(sub.OfferCode),
		RawJSON:          raw,
	}
	if cls != nil {
		rec.Heat = stringPtr(string(cls.Heat))
		rec.TimelineBucket = stringPtr(string(cls.TimelineBucket))
		rec.VehicleIntent = stringPtr(string(cls.VehicleIntent))
		rec.AISummary = stringPtr(cls.Summary)
	}
	return rec
}

// NormalizePhone formats a phone number to E.164 using the given default
// region. If parsing fails or the number is invalid, the trimmed input is
// returned unchanged.
func NormalizePhone(input, region string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return trimmed
	}
	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// normalized trims the value and collapses empty strings to nil so absent
// fields persist as null.
func normalized(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func stringPtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
