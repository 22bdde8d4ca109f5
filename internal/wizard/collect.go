package wizard

import (
	"net/url"
	"strings"

	"github.com/directauto/lead-intake/internal/leads"
)

// CollectPayload reads every field from the form's current values regardless
// of which step it lives on (hidden steps keep their inputs), trims phone and
// email, and attaches acquisition metadata from the page URL and referrer.
// Absent fields become nil; collection never fails.
func CollectPayload(form url.Values, pageURL, referrer string) *leads.Submission {
	sub := &leads.Submission{
		Goal:             formValue(form, "goal"),
		Timeline:         formValue(form, "timeline"),
		NewOrUsed:        formValue(form, "newOrUsed"),
		VehicleType:      formValue(form, "vehicleType"),
		ModelPreferences: formValue(form, "modelPreferences"),
		PaymentRange:     formValue(form, "paymentRange"),
		DownPayment:      formValue(form, "downPayment"),
		Credit:           formValue(form, "credit"),

		FirstName:     formValue(form, "firstName"),
		LastName:      formValue(form, "lastName"),
		Phone:         trimmedValue(form, "phone"),
		Email:         trimmedValue(form, "email"),
		ContactMethod: formValue(form, "contactMethod"),

		LeadType:  formValue(form, "leadType"),
		DealName:  formValue(form, "dealName"),
		OfferCode: formValue(form, "offerCode"),
	}
	sub.AdSource = adSource(pageURL, referrer)
	return sub
}

// adSource extracts UTM parameters from the page URL's query string. A page
// URL that fails to parse yields all-nil attribution rather than an error.
func adSource(pageURL, referrer string) *leads.AdSource {
	src := &leads.AdSource{}
	if ref := strings.TrimSpace(referrer); ref != "" {
		src.Referrer = &ref
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return src
	}
	query := u.Query()
	src.UTMSource = queryValue(query, "utm_source")
	src.UTMCampaign = queryValue(query, "utm_campaign")
	src.UTMMedium = queryValue(query, "utm_medium")
	return src
}

func formValue(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	v := form.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func trimmedValue(form url.Values, key string) *string {
	if !form.Has(key) {
		return nil
	}
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func queryValue(query url.Values, key string) *string {
	v := query.Get(key)
	if v == "" {
		return nil
	}
	return &v
}
