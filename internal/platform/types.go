package platform

// Typed shapes for the fundraising platform API. Decoded strictly at the
// boundary; downstream code never touches raw JSON maps.

type PaginationLinks struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

type ContactEmail struct {
	Type  string `json:"type"` // "personal" or "work"
	Value string `json:"value"`
}

type ContactPhone struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Contact is an identity snapshot from the platform. Re-fetched per sync,
// never cached long-term.
type Contact struct {
	ID         int64  `json:"id"`
	Prefix     string `json:"prefix"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	Suffix     string `json:"suffix"`

	Emails       []ContactEmail `json:"emails"`
	Phones       []ContactPhone `json:"phones"`
	PrimaryEmail *string        `json:"primary_email"`
	PrimaryPhone *string        `json:"primary_phone"`
	AddressLine1 string         `json:"address_line_1"`
	AddressLine2 string         `json:"address_line_2"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	Zip          string         `json:"zip"`
	Country      string         `json:"country"`
	TotalDonated int64          `json:"total_donated"` // minor units (cents)

	IsEmailSubscribed   bool `json:"is_email_subscribed"`
	IsPhoneSubscribed   bool `json:"is_phone_subscribed"`
	IsAddressSubscribed bool `json:"is_address_subscribed"`
}

type GivingSpace struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Message string  `json:"message"`
}

type LineItem struct {
	Type        string  `json:"type"` // "donation" or "ticket"
	Subtype     string  `json:"subtype"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

type SubTransaction struct {
	ID            string     `json:"id"`
	PlanID        *string    `json:"plan_id"`
	Amount        float64    `json:"amount"`
	Fee           float64    `json:"fee"`
	FeeCovered    float64    `json:"fee_covered"`
	Payout        float64    `json:"payout"`
	PaymentMethod string     `json:"payment_method"`
	LineItems     []LineItem `json:"line_items"`
}

// Transaction is a donation event. All monetary fields are in major currency
// units (dollars), per the platform API.
type Transaction struct {
	ID            string  `json:"id"`
	CampaignID    int64   `json:"campaign_id"`
	CampaignCode  string  `json:"campaign_code"`
	PlanID        *string `json:"plan_id"` // present when recurring
	ContactID     int64   `json:"contact_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	CompanyName   *string `json:"company_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	AddressLine1  string  `json:"address_line_1"`
	AddressLine2  string  `json:"address_line_2"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	Country       string  `json:"country"`
	Amount        float64 `json:"amount"`
	Fee           float64 `json:"fee"`
	FeeCovered    float64 `json:"fee_covered"`
	Donated       float64 `json:"donated"`
	Payout        float64 `json:"payout"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"` // succeeded|authorized|failed|cancelled
	PaymentMethod string  `json:"method"`
	CreatedAt     string  `json:"created_at"`

	GivingSpace     *GivingSpace     `json:"giving_space"`
	SubTransactions []SubTransaction `json:"transactions"`
}

// Plan is a recurring-donation definition
type Plan struct {
	ID           string  `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Frequency    string  `json:"frequency"` // monthly|quarterly|yearly
	Status       string  `json:"status"`    // active|cancelled|ended|past_due|paused
	Amount       float64 `json:"amount"`
	FeeCovered   float64 `json:"fee_covered"`
	CreatedAt    string  `json:"created_at"`
	StartAt      string  `json:"start_at"`
	NextBillDate string  `json:"next_bill_date"`
}

// Campaign is a fundraising page/event. Goal and raised amounts arrive in
// minor units (cents); dates are zero-padded ISO strings.
type Campaign struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Title       string  `json:"title"`
	Subtitle    *string `json:"subtitle"`
	Description *string `json:"description"`
	Type        string  `json:"type"`   // general|collect|fundraise|event
	Status      string  `json:"status"` // active|inactive|unpublished
	Goal        *int64  `json:"goal"`   // cents
	Raised      int64   `json:"raised"` // cents
	Donors      int     `json:"donors"`
	Currency    string  `json:"currency"`
	StartDate   *string `json:"start_at"` // YYYY-MM-DD
	EndDate     *string `json:"end_at"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// Ticket is an event admission sold through a campaign
type Ticket struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id"`
	CampaignID    int64   `json:"campaign_id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Title         string  `json:"title"`
	Price         float64 `json:"price"`
	CheckedInAt   *string `json:"checked_in_at"`
	CreatedAt     string  `json:"created_at"`
}

type ContactPage struct {
	Data  []Contact       `json:"data"`
	Links PaginationLinks `json:"links"`
}

type TransactionPage struct {
	Data  []Transaction   `json:"data"`
	Links PaginationLinks `json:"links"`
}

type PlanPage struct {
	Data  []Plan          `json:"data"`
	Links PaginationLinks `json:"links"`
}

type CampaignPage struct {
	Data  []Campaign      `json:"data"`
	Links PaginationLinks `json:"links"`
}

type TicketPage struct {
	Data  []Ticket        `json:"data"`
	Links PaginationLinks `json:"links"`
}

type contactEnvelope struct {
	Data Contact `json:"data"`
}

type transactionEnvelope struct {
	Data Transaction `json:"data"`
}

type planEnvelope struct {
	Data Plan `json:"data"`
}

type campaignEnvelope struct {
	Data Campaign `json:"data"`
}
