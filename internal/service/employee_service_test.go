package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type employeeFixture struct {
	repo *memEmployeeRepo
	svc  EmployeeService
}

func newEmployeeFixture() *employeeFixture {
	repo := newMemEmployeeRepo()
	return &employeeFixture{
		repo: repo,
		svc:  NewEmployeeService(repo, &memTxManager{}),
	}
}

func validEmployeeRequest() CreateEmployeeRequest {
	return CreateEmployeeRequest{
		FirstName: "Nimal",
		LastName:  "Perera",
		Email:     "nimal@repairshop.lk",
		NIC:       "902345678V",
		Role:      "employee",
		Password:  "secret123",
		Phones:    []string{"0771234567"},
	}
}

func TestRegisterEmployeeHashesPasswordAndStoresPhones(t *testing.T) {
	f := newEmployeeFixture()

	resp, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsActive)
	assert.Equal(t, []string{"0771234567"}, resp.Phones)

	stored, err := f.repo.FindByEmail(context.Background(), "nimal@repairshop.lk")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))

	phone, err := f.repo.FindPhone(context.Background(), "0771234567")
	require.NoError(t, err)
	assert.Equal(t, stored.ID, phone.EmployeeID)
}

func TestRegisterEmployeeRejectsMalformedFields(t *testing.T) {
	f := newEmployeeFixture()

	req := validEmployeeRequest()
	req.Email = "not-an-email"
	req.NIC = "12345"
	req.Phones = []string{"071123"}

	_, err := f.svc.Register(context.Background(), req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := map[string]bool{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["nic"])
	assert.True(t, fields["phones"])
}

func TestRegisterEmployeeAccumulatesDuplicateErrors(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	dup := validEmployeeRequest()
	_, err = f.svc.Register(context.Background(), dup)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 3)
}

func TestRegisterEmployeeAcceptsTwelveDigitNIC(t *testing.T) {
	f := newEmployeeFixture()

	req := validEmployeeRequest()
	req.NIC = "200012345678"

	_, err := f.svc.Register(context.Background(), req)
	assert.NoError(t, err)
}

func TestLoginReturnsTokenPair(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	pair, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "nimal@repairshop.lk",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	_, err = f.repo.FindRefreshToken(context.Background(), pair.RefreshToken)
	assert.NoError(t, err)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Email:    "nimal@repairshop.lk",
		Password: "wrong",
	})
	assert.EqualError(t, err, "invalid email or password")
}

func TestLoginRejectsDeactivatedAccount(t *testing.T) {
	f := newEmployeeFixture()
	resp, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Deactivate(context.Background(), resp.ID))

	_, err = f.svc.Login(context.Background(), LoginRequest{
		Email:    "nimal@repairshop.lk",
		Password: "secret123",
	})
	assert.EqualError(t, err, "account is deactivated")
}

func TestRefreshRotatesToken(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	pair, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "nimal@repairshop.lk",
		Password: "secret123",
	})
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The spent token must not work a second time
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.EqualError(t, err, "invalid refresh token")

	_, err = f.svc.Refresh(context.Background(), rotated.RefreshToken)
	assert.NoError(t, err)
}

func TestLogoutDeletesRefreshToken(t *testing.T) {
	f := newEmployeeFixture()
	_, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	pair, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "nimal@repairshop.lk",
		Password: "secret123",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), pair.RefreshToken))
	_, err = f.svc.Refresh(context.Background(), pair.RefreshToken)
	assert.EqualError(t, err, "invalid refresh token")
}

func TestDeactivateKeepsRecord(t *testing.T) {
	f := newEmployeeFixture()
	resp, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.Deactivate(context.Background(), resp.ID))

	after, err := f.svc.GetByID(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.False(t, after.IsActive)

	_, total, err := f.svc.List(context.Background(), 1, 20, true)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUpdateEmployeeRejectsTakenEmail(t *testing.T) {
	f := newEmployeeFixture()
	first, err := f.svc.Register(context.Background(), validEmployeeRequest())
	require.NoError(t, err)

	other := validEmployeeRequest()
	other.Email = "kasun@repairshop.lk"
	other.NIC = "853456789V"
	other.Phones = []string{"0712345678"}
	_, err = f.svc.Register(context.Background(), other)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), first.ID, UpdateEmployeeRequest{Email: "kasun@repairshop.lk"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	updated, err := f.svc.Update(context.Background(), first.ID, UpdateEmployeeRequest{Role: "owner"})
	require.NoError(t, err)
	assert.Equal(t, "owner", updated.Role)
}
