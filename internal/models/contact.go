// internal/models/contact.go
package models

import "time"

const (
	ContactStatusNew = "NEW"
	DefaultSource    = "website"
)

// Contact is a contact-form submission as stored in the contacts table.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Website   string    `json:"website,omitempty"`
	Message   string    `json:"message,omitempty"`
	Source    string    `json:"source"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactData converts the stored submission into the CRM input shape.
func (c Contact) ContactData() ContactData {
	return ContactData{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.Phone,
		Company: c.Company,
		Website: c.Website,
		Message: c.Message,
		Source:  c.Source,
	}
}
