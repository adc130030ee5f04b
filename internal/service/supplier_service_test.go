package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSupplierService() (SupplierService, *memSupplierRepo) {
	repo := newMemSupplierRepo()
	return NewSupplierService(repo, &memTxManager{}), repo
}

func validSupplierRequest() CreateSupplierRequest {
	return CreateSupplierRequest{
		Name:    "Tech Parts Lanka",
		Email:   "sales@techparts.lk",
		Address: "42 Galle Road, Colombo",
		Phones:  []string{"0112223344"},
	}
}

func TestCreateSupplierStoresPhones(t *testing.T) {
	svc, repo := newSupplierService()

	supplier, err := svc.Create(context.Background(), validSupplierRequest())
	require.NoError(t, err)
	require.Len(t, supplier.Phones, 1)
	assert.Equal(t, supplier.ID, supplier.Phones[0].SupplierID)

	_, err = repo.FindByEmail(context.Background(), "sales@techparts.lk")
	assert.NoError(t, err)
}

func TestCreateSupplierRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newSupplierService()
	_, err := svc.Create(context.Background(), validSupplierRequest())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validSupplierRequest())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email", verr.Fields[0].Field)
}

func TestUpdateSupplierAllowsKeepingOwnEmail(t *testing.T) {
	svc, _ := newSupplierService()
	created, err := svc.Create(context.Background(), validSupplierRequest())
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID.String(), UpdateSupplierRequest{
		Name:    "Tech Parts Lanka (Pvt) Ltd",
		Email:   "sales@techparts.lk",
		Address: "42 Galle Road, Colombo 03",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tech Parts Lanka (Pvt) Ltd", updated.Name)
}

func TestUpdateSupplierRejectsTakenEmail(t *testing.T) {
	svc, _ := newSupplierService()
	first, err := svc.Create(context.Background(), validSupplierRequest())
	require.NoError(t, err)

	other := validSupplierRequest()
	other.Email = "orders@microspare.lk"
	other.Phones = []string{"0115556677"}
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), first.ID.String(), UpdateSupplierRequest{
		Name:  "Tech Parts Lanka",
		Email: "orders@microspare.lk",
	})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSupplierAddPhoneValidatesFormat(t *testing.T) {
	svc, _ := newSupplierService()
	created, err := svc.Create(context.Background(), validSupplierRequest())
	require.NoError(t, err)

	_, err = svc.AddPhone(context.Background(), created.ID.String(), "011222")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	supplier, err := svc.AddPhone(context.Background(), created.ID.String(), "0719990001")
	require.NoError(t, err)
	assert.Len(t, supplier.Phones, 2)
}

func TestSupplierDeleteUnknownID(t *testing.T) {
	svc, _ := newSupplierService()
	err := svc.Delete(context.Background(), "8d5c2c6e-3f1a-4a40-9a58-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}
