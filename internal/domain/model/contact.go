package model

// Contact is a CRM contact record referenced by id.
type Contact struct {
	ID    string
	Email string
}
