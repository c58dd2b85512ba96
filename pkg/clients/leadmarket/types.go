package leadmarket

import "strings"

const (
	ModePing = "ping"
	ModePost = "post"
)

// PingFields are the lead attributes a buyer bids on. Field names follow
// the marketplace's casing exactly.
type PingFields struct {
	Mode          string `json:"Mode"`
	Key           string `json:"Key"`
	APIAction     string `json:"API_Action"`
	Type          string `json:"TYPE"`
	IPAddress     string `json:"IP_Address"`
	SRC           string `json:"SRC"`
	State         string `json:"State"`
	Zip           string `json:"Zip"`
	HasAttorney   string `json:"Has_Attorney"`
	AtFault       string `json:"At_Fault"`
	Injured       string `json:"Injured"`
	HasInsurance  string `json:"Has_Insurance"`
	PrimaryInjury string `json:"Primary_Injury"`
	IncidentDate  string `json:"Incident_Date"`
	SkipDupeCheck string `json:"Skip_Dupe_Check"`
	Format        string `json:"Format"`
}

// PostFields extend the ping with contact details and consent evidence.
type PostFields struct {
	PingFields
	LandingPage    string `json:"Landing_Page"`
	TrustedFormURL string `json:"Trusted_Form_URL"`
	FirstName      string `json:"First_Name"`
	LastName       string `json:"Last_Name"`
	PrimaryPhone   string `json:"Primary_Phone"`
	Email          string `json:"Email"`
	LeadID         string `json:"Lead_ID"`
	MatchWithBidID string `json:"Match_With_Bid_ID"`
	TCPAConsent    string `json:"TCPA_Consent"`
	TCPALanguage   string `json:"TCPA_Language"`
}

type PingRequest struct {
	Request PingFields `json:"Request"`
}

type PostRequest struct {
	Request PostFields `json:"Request"`
}

// Bid is one buyer offer returned at ping time.
type Bid struct {
	BidID string  `json:"bid_id"`
	Price float64 `json:"price"`
}

// Result is the body shared by ping and post responses.
type Result struct {
	Status string   `json:"status"`
	LeadID string   `json:"lead_id"`
	Bids   []Bid    `json:"bids"`
	Errors []string `json:"errors"`
}

type Response struct {
	Response Result `json:"response"`
}

// Accepted reports whether the marketplace matched or took the lead.
func (r Result) Accepted() bool {
	switch strings.ToLower(r.Status) {
	case "matched", "success", "accepted":
		return true
	}
	return false
}

// BestBid returns the highest priced bid, or false when there is none.
func (r Result) BestBid() (Bid, bool) {
	var best Bid
	found := false
	for _, b := range r.Bids {
		if b.BidID == "" {
			continue
		}
		if !found || b.Price > best.Price {
			best = b
			found = true
		}
	}
	return best, found
}
