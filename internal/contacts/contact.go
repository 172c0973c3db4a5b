// Package contacts defines the domain model for the contact directory: the
// contact record itself, the per-tenant workspace link, and the paginated
// response envelope shared by the query endpoints.
package contacts

import "time"

// Contact is one directory record. Core attributes live in fixed fields;
// everything else a source sheet carried is kept verbatim in CustomData.
// A contact with an empty OwnerID belongs to the global, ownerless pool.
type Contact struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	CompanyName string            `json:"company_name,omitempty"`
	LinkedInURL string            `json:"linkedin_url,omitempty"`
	OwnerID     string            `json:"owner_id,omitempty"`
	CustomData  map[string]string `json:"custom_data"`
}

// WorkspaceLink ties a tenant to a global contact, optionally overriding the
// display name inside that tenant's workspace. The (TenantID, ContactID)
// pair is unique.
type WorkspaceLink struct {
	ID                string            `json:"id"`
	TenantID          string            `json:"tenant_id"`
	ContactID         string            `json:"contact_id"`
	FirstNameOverride string            `json:"first_name_override,omitempty"`
	LastNameOverride  string            `json:"last_name_override,omitempty"`
	CustomData        map[string]string `json:"custom_data,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	Contact           *Contact          `json:"contact,omitempty"`
}

// Page is the envelope returned by every paginated listing.
type Page[T any] struct {
	Data       []T `json:"data"`
	TotalCount int `json:"total_count"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}
