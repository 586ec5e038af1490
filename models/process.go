package models

// Process is a legal process as returned by GET /api/v1/company/processes
type Process struct {
	ID        ID        `json:"id"`
	Subject   string    `json:"subject"`
	Client    *NamedRef `json:"client,omitempty"`
	Status    string    `json:"status"`
	Priority  string    `json:"priority"`
	CNJNumber string    `json:"cnj_number"`
	CreatedAt Timestamp `json:"created_at"`
}

// ClientName returns the expanded client name, empty when the relation is absent
func (p Process) ClientName() string {
	if p.Client == nil {
		return ""
	}
	return p.Client.Name
}

// Client is a law firm client as returned by GET /api/v1/company/clients
type Client struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Specialty *NamedRef `json:"specialty,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
}

// SpecialtyName returns the expanded specialty name, empty when the relation is absent
func (c Client) SpecialtyName() string {
	if c.Specialty == nil {
		return ""
	}
	return c.Specialty.Name
}
