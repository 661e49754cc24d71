package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPeopleRequestAgeFilter(t *testing.T) {
	tests := []struct {
		age  string
		want *int
	}{
		{"", nil},
		{"40", intPtr(40)},
		{"-3", intPtr(-3)},
		{"forty", nil},
		{"4.5", nil},
	}

	for _, tt := range tests {
		req := &ListPeopleRequest{Age: tt.age}
		require.NoError(t, req.Validate())
		assert.Equal(t, tt.want, req.AgeFilter(), "age %q", tt.age)
	}
}

func TestCreatePersonRequestValidate(t *testing.T) {
	req := &CreatePersonRequest{Name: "Pat", Age: "40"}
	require.NoError(t, req.Validate())
	assert.Equal(t, 40, req.age)

	// Presence of the name key is checked at bind time; Validate accepts "".
	assert.NoError(t, (&CreatePersonRequest{Age: "40"}).Validate())
	assert.Error(t, (&CreatePersonRequest{Name: "Pat"}).Validate())
	assert.Error(t, (&CreatePersonRequest{Name: "Pat", Age: "old"}).Validate())
}

func TestCreatePersonRequestRequiredQueryKeys(t *testing.T) {
	assert.Equal(t, []string{"name", "age"}, (&CreatePersonRequest{}).RequiredQueryKeys())
}

func TestCreatePersonRequestReject(t *testing.T) {
	httpErr := (&CreatePersonRequest{}).Reject(nil)

	assert.Equal(t, http.StatusUnprocessableEntity, httpErr.Status)
	assert.Equal(t, "Bad parameters", httpErr.Message)
	assert.True(t, httpErr.PlainText)
}

func TestGetPersonRequestValidate(t *testing.T) {
	req := &GetPersonRequest{ID: "12"}
	require.NoError(t, req.Validate())
	assert.Equal(t, int64(12), req.id)

	assert.Error(t, (&GetPersonRequest{ID: "abc"}).Validate())
	assert.Error(t, (&GetPersonRequest{}).Validate())

	httpErr := (&GetPersonRequest{}).Reject(nil)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Not found", httpErr.Message)
	assert.True(t, httpErr.PlainText)
}

func intPtr(v int) *int {
	return &v
}
