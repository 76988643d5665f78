package crm

// Fields is a partial record payload. Keys absent from the map are left
// untouched by an update; absent is not the same as false or empty.
type Fields map[string]interface{}

// Contact is the mutable reconciliation target in the CRM. Every contact
// with a non-empty AccountId was created through the orchestrator exactly
// once; later syncs only update.
type Contact struct {
	ID                string `json:"Id"`
	AccountID         string `json:"AccountId"`
	PlatformContactID string `json:"PlatformContactId"`
	PaymentCustomerID string `json:"PaymentCustomerId"`

	FirstName  string `json:"FirstName"`
	MiddleName string `json:"MiddleName"`
	LastName   string `json:"LastName"`
	Suffix     string `json:"Suffix"`

	Email         string `json:"Email"`
	PersonalEmail string `json:"PersonalEmail"`
	WorkEmail     string `json:"WorkEmail"`
	Phone         string `json:"Phone"`

	MailingStreet     string `json:"MailingStreet"`
	MailingCity       string `json:"MailingCity"`
	MailingState      string `json:"MailingState"`
	MailingPostalCode string `json:"MailingPostalCode"`
	MailingCountry    string `json:"MailingCountry"`

	IsDonor            bool `json:"IsDonor"`
	HasOptedOutOfEmail bool `json:"HasOptedOutOfEmail"`
	DoNotCall          bool `json:"DoNotCall"`
	PromotionalConsent bool `json:"PromotionalConsent"`
}

// Campaign mirrors a platform campaign 1:1, keyed by PlatformCampaignId
type Campaign struct {
	ID                 string  `json:"Id"`
	PlatformCampaignID string  `json:"PlatformCampaignId"`
	Name               string  `json:"Name"`
	Description        string  `json:"Description"`
	Type               string  `json:"Type"`
	Status             string  `json:"Status"` // Planned | In Progress | Completed
	Goal               float64 `json:"ExpectedRevenue"`
	AmountRaised       float64 `json:"AmountRaised"`
	StartDate          string  `json:"StartDate"`
	EndDate            string  `json:"EndDate"`
	IsActive           bool    `json:"IsActive"`
}

// Opportunity is a single donation record, keyed by PlatformTransactionId.
// At most one opportunity exists per platform transaction id.
type Opportunity struct {
	ID                    string  `json:"Id"`
	PlatformTransactionID string  `json:"PlatformTransactionId"`
	Name                  string  `json:"Name"`
	Amount                float64 `json:"Amount"`
	Fee                   float64 `json:"ProcessingFee"`
	StageName             string  `json:"StageName"`
	CloseDate             string  `json:"CloseDate"`
	PaymentMethod         string  `json:"PaymentMethod"`
	AccountID             string  `json:"AccountId"`
	ContactID             string  `json:"ContactId"`
	CampaignID            string  `json:"CampaignId"`
	RecurringDonationID   string  `json:"RecurringDonationId"`
}

// RecurringDonation mirrors a platform plan, keyed by PlatformPlanId
type RecurringDonation struct {
	ID                string  `json:"Id"`
	PlatformPlanID    string  `json:"PlatformPlanId"`
	Name              string  `json:"Name"`
	Amount            float64 `json:"Amount"`
	InstallmentPeriod string  `json:"InstallmentPeriod"` // Monthly | Quarterly | Yearly
	Status            string  `json:"Status"`            // Active | Lapsed | Closed
	ContactID         string  `json:"ContactId"`
	AccountID         string  `json:"AccountId"`
}

// AsFields flattens the stored record for diffing against synthesized fields
func (c *Contact) AsFields() Fields {
	return Fields{
		"AccountId":          c.AccountID,
		"PlatformContactId":  c.PlatformContactID,
		"PaymentCustomerId":  c.PaymentCustomerID,
		"FirstName":          c.FirstName,
		"MiddleName":         c.MiddleName,
		"LastName":           c.LastName,
		"Suffix":             c.Suffix,
		"Email":              c.Email,
		"PersonalEmail":      c.PersonalEmail,
		"WorkEmail":          c.WorkEmail,
		"Phone":              c.Phone,
		"MailingStreet":      c.MailingStreet,
		"MailingCity":        c.MailingCity,
		"MailingState":       c.MailingState,
		"MailingPostalCode":  c.MailingPostalCode,
		"MailingCountry":     c.MailingCountry,
		"IsDonor":            c.IsDonor,
		"HasOptedOutOfEmail": c.HasOptedOutOfEmail,
		"DoNotCall":          c.DoNotCall,
		"PromotionalConsent": c.PromotionalConsent,
	}
}

func (c *Campaign) AsFields() Fields {
	return Fields{
		"PlatformCampaignId": c.PlatformCampaignID,
		"Name":               c.Name,
		"Description":        c.Description,
		"Type":               c.Type,
		"Status":             c.Status,
		"ExpectedRevenue":    c.Goal,
		"AmountRaised":       c.AmountRaised,
		"StartDate":          c.StartDate,
		"EndDate":            c.EndDate,
		"IsActive":           c.IsActive,
	}
}

func (o *Opportunity) AsFields() Fields {
	return Fields{
		"PlatformTransactionId": o.PlatformTransactionID,
		"Name":                  o.Name,
		"Amount":                o.Amount,
		"ProcessingFee":         o.Fee,
		"StageName":             o.StageName,
		"CloseDate":             o.CloseDate,
		"PaymentMethod":         o.PaymentMethod,
		"AccountId":             o.AccountID,
		"ContactId":             o.ContactID,
		"CampaignId":            o.CampaignID,
		"RecurringDonationId":   o.RecurringDonationID,
	}
}

func (r *RecurringDonation) AsFields() Fields {
	return Fields{
		"PlatformPlanId":    r.PlatformPlanID,
		"Name":              r.Name,
		"Amount":            r.Amount,
		"InstallmentPeriod": r.InstallmentPeriod,
		"Status":            r.Status,
		"ContactId":         r.ContactID,
		"AccountId":         r.AccountID,
	}
}
