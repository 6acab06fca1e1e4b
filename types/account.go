package types

// Account is an isolated billing/identity boundary, the unit of credential
// scoping. Rows are created on first sighting and updated only when a field
// changes; this pipeline never deletes them.
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"account_name"`
	Email     string `json:"email"`
	OrgUnit   string `json:"org_unit"`
}

// Columns maps the account onto its persisted column set.
func (a Account) Columns() map[string]string {
	return map[string]string{
		"account_id":   a.AccountID,
		"account_name": a.Name,
		"email":        a.Email,
		"org_unit":     a.OrgUnit,
	}
}
