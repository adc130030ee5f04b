package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerService() (CustomerService, *memCustomerRepo) {
	repo := newMemCustomerRepo()
	return NewCustomerService(repo, &memTxManager{}), repo
}

func validCustomerRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		FirstName: "Kamal",
		LastName:  "Silva",
		Email:     "kamal@example.com",
		Phones:    []string{"0712345678"},
	}
}

func TestCreateCustomerDefaultsToRegular(t *testing.T) {
	svc, repo := newCustomerService()

	resp, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)
	assert.Equal(t, "REGULAR", resp.Type)
	assert.Equal(t, []string{"0712345678"}, resp.Phones)

	_, err = repo.FindByPhone(context.Background(), "0712345678")
	assert.NoError(t, err)
}

func TestCreateCustomerRejectsBadPayload(t *testing.T) {
	svc, _ := newCustomerService()

	req := validCustomerRequest()
	req.Email = "kamal@"
	req.Phones = []string{"94712345678"}

	_, err := svc.Create(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestCreateCustomerRejectsDuplicatePhone(t *testing.T) {
	svc, _ := newCustomerService()
	_, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)

	other := validCustomerRequest()
	other.Email = "sunil@example.com"

	_, err = svc.Create(context.Background(), other)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phones", verr.Fields[0].Field)
}

func TestUpdateCustomerKeepsUnsetFields(t *testing.T) {
	svc, _ := newCustomerService()
	created, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Type: "NORMAL"})
	require.NoError(t, err)
	assert.Equal(t, "NORMAL", updated.Type)
	assert.Equal(t, "Kamal", updated.FirstName)
	assert.Equal(t, "kamal@example.com", updated.Email)
}

func TestCustomerAddPhoneValidatesFormat(t *testing.T) {
	svc, _ := newCustomerService()
	created, err := svc.Create(context.Background(), validCustomerRequest())
	require.NoError(t, err)

	_, err = svc.AddPhone(context.Background(), created.ID, "12345")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	resp, err := svc.AddPhone(context.Background(), created.ID, "0778889990")
	require.NoError(t, err)
	assert.Contains(t, resp.Phones, "0778889990")
}

func TestCustomerLookupsFailCleanly(t *testing.T) {
	svc, _ := newCustomerService()

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(context.Background(), "2f0c1fde-25a1-4087-9c44-7d9b00000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
