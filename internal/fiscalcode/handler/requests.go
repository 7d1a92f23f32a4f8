package handler

import (
	"fmt"

	"fiscalcode/pkg/domain"
	dErrors "fiscalcode/pkg/domain-errors"
)

// GenerateRequest is the HTTP request body for POST /fiscal-codes.
type GenerateRequest struct {
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
	Sex          string `json:"sex"`
	BirthDate    string `json:"birth_date"`
	Municipality string `json:"municipality"`

	person domain.Person
}

// Validate parses the raw fields into a domain.Person.
// Implements httputil.Validatable.
func (r *GenerateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	p, err := domain.NewPerson(r.GivenName, r.FamilyName, r.Sex, r.BirthDate, r.Municipality)
	if err != nil {
		return err
	}
	r.person = p
	return nil
}

// Person returns the validated person.
func (r *GenerateRequest) Person() domain.Person {
	return r.person
}

// BatchRequest is the HTTP request body for POST /fiscal-codes/batch. Items
// are validated individually so one bad entry does not reject the batch.
type BatchRequest struct {
	People []GenerateRequest `json:"people"`
}

// Validate checks the envelope only.
func (r *BatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.People) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "people must not be empty")
	}
	return nil
}

func (r *BatchRequest) checkSize(max int) error {
	if max > 0 && len(r.People) > max {
		return dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("people must contain at most %d entries", max))
	}
	return nil
}
