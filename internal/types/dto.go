package types

// Outward view objects. OwnerDTO.SocialSecurityNumber is a pointer so a
// redacted view serializes as JSON null rather than an empty string.

type CompanyDTO struct {
	ID      uint       `json:"id"`
	Name    string     `json:"name"`
	Country string     `json:"country,omitempty"`
	Email   string     `json:"email,omitempty"`
	Owners  []OwnerDTO `json:"owners"`
}

type OwnerDTO struct {
	ID                   uint    `json:"id"`
	Name                 string  `json:"name"`
	SocialSecurityNumber *string `json:"socialSecurityNumber"`
}
