package caterbazar

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
)

// VendorSearchResult is the vendor-search response.
type VendorSearchResult struct {
	Vendors    []model.Vendor   `json:"vendors"`
	Pagination model.Pagination `json:"pagination"`
}

// RegistrationListQuery selects a page of the registration queue.
type RegistrationListQuery struct {
	Status model.RegistrationStatus `json:"status,omitempty" form:"status"`
	Search string                   `json:"search,omitempty" form:"search"`
	Page   int                      `json:"page,omitempty" form:"page"`
	Limit  int                      `json:"limit,omitempty" form:"limit"`
}

// Values encodes the query, omitting anything unset.
func (q RegistrationListQuery) Values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// RegistrationList is one page of registrations.
type RegistrationList struct {
	Registrations []model.BusinessRegistration `json:"registrations"`
	Pagination    model.Pagination             `json:"pagination"`
}

// ForgotPasswordRequest starts the password-reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes it.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}

// errorBody is the loosely typed error envelope. Any key may be missing, and
// "error" is sometimes a string and sometimes an object.
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
	Code    json.RawMessage `json:"code"`
}

func (b errorBody) text() string {
	if msg := strings.TrimSpace(b.Message); msg != "" {
		return msg
	}
	var s string
	if json.Unmarshal(b.Error, &s) == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b.Error, &nested) == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func (b errorBody) code() string {
	var s string
	if json.Unmarshal(b.Code, &s) == nil {
		return s
	}
	var nested struct {
		Code string `json:"code"`
	}
	if json.Unmarshal(b.Error, &nested) == nil {
		return nested.Code
	}
	return ""
}
