package handler

import (
	"strconv"

	"github.com/deppfellow/people/internal/errs"
	"github.com/deppfellow/people/internal/validation"
)

// Query and path values are bound as strings and parsed in Validate, so a
// malformed number fails validation instead of binding.

// ListPeopleRequest carries the optional age filter of GET /people.
type ListPeopleRequest struct {
	Age string `query:"age"`

	age *int
}

// Validate never fails: an age that is not an integer is ignored.
func (r *ListPeopleRequest) Validate() error {
	r.age = nil
	if r.Age == "" {
		return nil
	}
	if age, err := strconv.Atoi(r.Age); err == nil {
		r.age = &age
	}
	return nil
}

// AgeFilter returns the parsed age, or nil to list everyone.
func (r *ListPeopleRequest) AgeFilter() *int {
	return r.age
}

// CreatePersonRequest carries the query parameters of POST /people.
//
// Both keys must be present; an empty name is a valid name.
type CreatePersonRequest struct {
	Name string `query:"name"`
	Age  string `query:"age" validate:"required"`

	age int
}

func (r *CreatePersonRequest) RequiredQueryKeys() []string {
	return []string{"name", "age"}
}

func (r *CreatePersonRequest) Validate() error {
	if err := validation.Struct(r); err != nil {
		return err
	}

	age, err := strconv.Atoi(r.Age)
	if err != nil {
		return validation.CustomValidationErrors{
			{Field: "age", Message: "must be an integer"},
		}
	}
	r.age = age

	return nil
}

// Reject answers every bad create request with 422 "Bad parameters".
func (r *CreatePersonRequest) Reject(fieldErrors []errs.FieldError) *errs.HTTPError {
	return errs.NewUnprocessableEntityError("Bad parameters", true, fieldErrors).AsPlainText()
}

// GetPersonRequest carries the id path parameter of GET /people/:id.
type GetPersonRequest struct {
	ID string `param:"id"`

	id int64
}

func (r *GetPersonRequest) Validate() error {
	id, err := strconv.ParseInt(r.ID, 10, 64)
	if err != nil {
		return validation.CustomValidationErrors{
			{Field: "id", Message: "must be an integer"},
		}
	}
	r.id = id
	return nil
}

// Reject answers an unusable id with 404 "Not found".
func (r *GetPersonRequest) Reject([]errs.FieldError) *errs.HTTPError {
	return errs.NewNotFoundError("Not found", true, nil).AsPlainText()
}
