// Package lead defines the contact-intake domain entity and its repository
// contract.
package lead

import "time"

// Lead is one submitted contact form, normalized, with the attribution
// bundle that accompanied it stored as an opaque JSON blob.
type Lead struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Message        string    `json:"message,omitempty"`
	MarketingOptIn bool      `json:"marketingOptIn"`
	Attribution    string    `json:"attribution,omitempty"`
	SourceIP       string    `json:"sourceIp,omitempty"`
	UserAgent      string    `json:"userAgent,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Repository is the persistence contract for leads.
type Repository interface {
	Store(lead *Lead) error
	FindByID(id string) (*Lead, error)
	List(limit, offset int) ([]*Lead, error)
}
