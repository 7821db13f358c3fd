package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

func newVehicleService(t *testing.T) (*VehicleService, *gorm.DB) {
	t.Helper()
	database := newTestDB(t)
	svc := NewVehicleService(
		repository.NewVehicleRepository(database),
		repository.NewStaffRepository(database),
		newTestStore(t),
		nopLogger(),
	)
	return svc, database
}

func createTestVehicle(t *testing.T, svc *VehicleService, plate string) {
	t.Helper()
	_, err := svc.Create(context.Background(), VehicleCreateInput{
		RegistrationPlate: plate,
		Make:              "Toyota",
		Model:             "Hilux",
		Year:              2022,
		VehicleType:       "Bakkie",
		PrimaryUse:        "Site visits",
	})
	require.NoError(t, err)
}

func TestVehicleCreateDuplicatePlate(t *testing.T) {
	svc, _ := newVehicleService(t)

	createTestVehicle(t, svc, "KSA 001 MP")

	_, err := svc.Create(context.Background(), VehicleCreateInput{
		RegistrationPlate: "KSA 001 MP",
		Make:              "Ford",
		Model:             "Ranger",
		Year:              2023,
		VehicleType:       "Bakkie",
		PrimaryUse:        "Deliveries",
	})
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestVehicleGetIsExactMatch(t *testing.T) {
	svc, _ := newVehicleService(t)
	ctx := context.Background()

	createTestVehicle(t, svc, "KSA 002 MP")

	got, err := svc.Get(ctx, "KSA 002 MP")
	require.NoError(t, err)
	assert.Equal(t, "KSA 002 MP", got.RegistrationPlate)

	_, err = svc.Get(ctx, "ksa 002 mp")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestVehicleGetJoinsAssignedStaff(t *testing.T) {
	svc, database := newVehicleService(t)
	ctx := context.Background()

	member := createTestStaff(t, database, "Driver")
	_, err := svc.Create(ctx, VehicleCreateInput{
		RegistrationPlate: "KSA 003 MP",
		Make:              "Isuzu",
		Model:             "D-Max",
		Year:              2021,
		VehicleType:       "Bakkie",
		PrimaryUse:        "Maintenance",
		AssignedStaffID:   &member.ID,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, "KSA 003 MP")
	require.NoError(t, err)
	assert.Equal(t, "Driver", got.AssignedStaffName)
	assert.Equal(t, "Tester", got.AssignedStaffSurname)
}

func TestVehicleCreateUnknownStaff(t *testing.T) {
	svc, _ := newVehicleService(t)

	unknown := uint(404)
	_, err := svc.Create(context.Background(), VehicleCreateInput{
		RegistrationPlate: "KSA 004 MP",
		Make:              "Nissan",
		Model:             "NP200",
		Year:              2020,
		VehicleType:       "LDV",
		PrimaryUse:        "Parts runs",
		AssignedStaffID:   &unknown,
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestVehicleUpdatePartial(t *testing.T) {
	svc, _ := newVehicleService(t)
	ctx := context.Background()

	createTestVehicle(t, svc, "KSA 005 MP")

	colour := "White"
	updated, err := svc.Update(ctx, "KSA 005 MP", VehicleUpdateInput{Colour: &colour})
	require.NoError(t, err)
	assert.Equal(t, "White", updated.Colour)
	assert.Equal(t, "Toyota", updated.Make)
}

func TestVehicleNatisRoundtrip(t *testing.T) {
	svc, _ := newVehicleService(t)
	ctx := context.Background()

	createTestVehicle(t, svc, "KSA 006 MP")

	_, _, err := svc.UploadDocument(ctx, "KSA 006 MP", "natis.zip", []byte("zip"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	vehicle, storedName, err := svc.UploadDocument(ctx, "KSA 006 MP", "natis.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "natis.pdf", vehicle.NatisFilename)
	assert.NotContains(t, storedName, " ")

	path, filename, err := svc.Document(ctx, "KSA 006 MP")
	require.NoError(t, err)
	assert.Equal(t, "natis.pdf", filename)
	assert.NotEmpty(t, path)

	require.NoError(t, svc.DeleteDocument(ctx, "KSA 006 MP"))
	_, _, err = svc.Document(ctx, "KSA 006 MP")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestVehicleDeleteRemovesRecord(t *testing.T) {
	svc, _ := newVehicleService(t)
	ctx := context.Background()

	createTestVehicle(t, svc, "KSA 007 MP")
	require.NoError(t, svc.Delete(ctx, "KSA 007 MP"))

	_, err := svc.Get(ctx, "KSA 007 MP")
	assert.True(t, errors.Is(err, ErrNotFound))
}
