// Package payloads assembles the ping and post bodies sent to the lead
// marketplace. Builders are pure: they never perform I/O or modify their
// inputs.
package payloads

import (
	"legaluplift/pkg/clients/leadmarket"
	"legaluplift/pkg/models"
	"legaluplift/pkg/usstates"
	"legaluplift/pkg/validators"
)

const (
	DefaultAPIAction = "pingPostConsent"
	DefaultType      = "37"
	DefaultSource    = "AutoLegalUplift_"
)

// Campaign holds the credentials and identifiers shared by every request.
type Campaign struct {
	Key       string
	APIAction string
	Type      string
	Source    string
}

// RequestMeta carries the request-scoped values captured from the browser.
type RequestMeta struct {
	IPAddress   string
	LandingPage string
}

// BuildPingPayload returns the ping body for the accumulated answers.
func BuildPingPayload(form models.FormData, campaign Campaign, meta RequestMeta) leadmarket.PingRequest {
	return leadmarket.PingRequest{Request: pingFields(leadmarket.ModePing, form, campaign, meta)}
}

// BuildPostPayload returns the post body for a lead accepted at ping time.
func BuildPostPayload(
	form models.FormData,
	campaign Campaign,
	meta RequestMeta,
	leadID string,
	bidID string,
	trustedFormCertURL string,
	tcpaLanguage string,
) leadmarket.PostRequest {
	phone := validators.NormalizePhone(form.Phone)
	if phone == "" {
		phone = form.Phone
	}
	return leadmarket.PostRequest{Request: leadmarket.PostFields{
		PingFields:     pingFields(leadmarket.ModePost, form, campaign, meta),
		LandingPage:    meta.LandingPage,
		TrustedFormURL: trustedFormCertURL,
		FirstName:      form.FirstName,
		LastName:       form.LastName,
		PrimaryPhone:   phone,
		Email:          form.Email,
		LeadID:         leadID,
		MatchWithBidID: bidID,
		TCPAConsent:    "Yes",
		TCPALanguage:   tcpaLanguage,
	}}
}

// StateCode resolves the two-letter state for the form, preferring the
// selected state and falling back to the ZIP prefix.
func StateCode(form models.FormData) string {
	if code := usstates.Abbreviation(form.State); code != "" {
		return code
	}
	return usstates.FromZip(form.Zipcode)
}

func pingFields(mode string, form models.FormData, campaign Campaign, meta RequestMeta) leadmarket.PingFields {
	return leadmarket.PingFields{
		Mode:          mode,
		Key:           campaign.Key,
		APIAction:     orDefault(campaign.APIAction, DefaultAPIAction),
		Type:          orDefault(campaign.Type, DefaultType),
		IPAddress:     meta.IPAddress,
		SRC:           orDefault(campaign.Source, DefaultSource),
		State:         StateCode(form),
		Zip:           form.Zipcode,
		HasAttorney:   yesNo(form.HasAttorney),
		AtFault:       yesNo(form.AtFault),
		Injured:       "Yes",
		HasInsurance:  yesNo(form.OtherPartyInsured),
		PrimaryInjury: form.InjuryType(),
		IncidentDate:  form.Timing.IncidentDate(),
		SkipDupeCheck: "1",
		Format:        "JSON",
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
