package model

import "time"

type RegistrationStatus string // review state of a business registration

const (
	RegistrationStatusPending              RegistrationStatus = "pending"               // awaiting review
	RegistrationStatusApproved             RegistrationStatus = "approved"              // live in the marketplace
	RegistrationStatusRejected             RegistrationStatus = "rejected"              // refused
	RegistrationStatusResubmissionRequired RegistrationStatus = "resubmission_required" // vendor must edit and resubmit
)

// RegistrationStatuses lists every status the console understands.
var RegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusApproved,
	RegistrationStatusRejected,
	RegistrationStatusResubmissionRequired,
}

func (s RegistrationStatus) IsValid() bool {
	for _, known := range RegistrationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// BusinessRegistration is a vendor's onboarding submission.
// The upstream server owns it; the console only reads it and sends review/edit commands.
type BusinessRegistration struct {
	ID              string                 `json:"id"`
	BrandName       string                 `json:"brandName"`                 // brand name
	BusinessEmail   string                 `json:"businessEmail"`             // business email
	BusinessMobile  string                 `json:"businessMobile"`            // business mobile
	Location        string                 `json:"location"`                  // operating location
	VendorCategory  VendorCategory         `json:"vendorCategory"`            // catalog category
	ReferID         string                 `json:"referId,omitempty"`         // referral code
	Status          RegistrationStatus     `json:"status"`                    // review state
	RejectionReason string                 `json:"rejectionReason,omitempty"` // set on rejected / resubmission_required
	AdminNotes      string                 `json:"adminNotes,omitempty"`      // internal notes
	Documents       []RegistrationDocument `json:"documents,omitempty"`       // uploaded certificates
	SubmittedAt     *time.Time             `json:"submittedAt,omitempty"`
	ReviewedAt      *time.Time             `json:"reviewedAt,omitempty"`
	CreatedAt       *time.Time             `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time             `json:"updatedAt,omitempty"`
}

// RegistrationDocument references an uploaded file. Key is the object-storage key;
// URL is filled either by the server or by the console's presigner.
type RegistrationDocument struct {
	Type string `json:"type"`          // fssai_license, gst_certificate, ...
	Key  string `json:"key,omitempty"` // storage key
	URL  string `json:"url,omitempty"` // viewable link
}

// RegistrationStats counts registrations per status.
type RegistrationStats struct {
	Total                int `json:"total"`
	Pending              int `json:"pending"`
	Approved             int `json:"approved"`
	Rejected             int `json:"rejected"`
	ResubmissionRequired int `json:"resubmissionRequired"`
}
