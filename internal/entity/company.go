package entity

// Company is a single company row. Domain is the stable key used across the
// settings records and public page URLs.
type Company struct {
	Domain      string `json:"domain"`
	Name        string `json:"company"`
	LogoURL     string `json:"logoUrl"`
	Description string `json:"description"` // rich text, sanitized at render time
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Website     string `json:"website"`
	Email       string `json:"email"`
}

// DisplayName returns the company name or the domain when the name is blank.
func (c *Company) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Domain
}
