package dto

import "github.com/google/uuid"

type CompanyContextResponse struct {
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name"`
	CompanySlug string    `json:"company_slug"`
	Role        string    `json:"role"`
	OrgRef      string    `json:"org_ref"`
}

type OrganizationEventRequest struct {
	Type string `json:"type"`
	Data struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"data"`
}

type MembershipEventRequest struct {
	Type string `json:"type"`
	Data struct {
		OrgID     string `json:"org_id"`
		UserID    string `json:"user_id"`
		Role      string `json:"role"`
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"data"`
}

type CompanyResponse struct {
	ID            uuid.UUID `json:"id"`
	ExternalOrgID string    `json:"external_org_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
}

type MembershipResponse struct {
	CompanyID uuid.UUID `json:"company_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
}
