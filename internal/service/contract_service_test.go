package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/armandusbasson/KSA-PSMS/internal/model"
	"github.com/armandusbasson/KSA-PSMS/internal/repository"
)

type fakeRegister struct {
	calls int
}

func (f *fakeRegister) Generate(contracts []model.Contract, summary model.ContractSummary) ([]byte, error) {
	f.calls++
	return []byte("xlsx"), nil
}

func newContractService(t *testing.T) (*ContractService, *fakeRegister, *gorm.DB) {
	t.Helper()
	database := newTestDB(t)
	register := &fakeRegister{}
	svc := NewContractService(
		repository.NewContractRepository(database),
		repository.NewSiteRepository(database),
		repository.NewStaffRepository(database),
		newTestStore(t),
		register,
		nopLogger(),
	)
	return svc, register, database
}

func createTestContract(t *testing.T, svc *ContractService, database *gorm.DB, start, end time.Time) *model.Contract {
	t.Helper()
	site := createTestSite(t, database, "Site-"+start.Format("20060102150405.000000000"))
	member := createTestStaff(t, database, "Responsible")

	contract, err := svc.Create(context.Background(), ContractCreateInput{
		ContractType:       model.ContractTypeSupply,
		StartDate:          start,
		EndDate:            end,
		SiteID:             site.ID,
		ResponsibleStaffID: member.ID,
	})
	require.NoError(t, err)
	return contract
}

func TestContractCreateRejectsInvertedDates(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	site := createTestSite(t, database, "Arnot")
	member := createTestStaff(t, database, "Lindiwe")

	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	for _, end := range []time.Time{start, start.AddDate(0, -1, 0)} {
		_, err := svc.Create(ctx, ContractCreateInput{
			ContractType:       model.ContractTypeService,
			StartDate:          start,
			EndDate:            end,
			SiteID:             site.ID,
			ResponsibleStaffID: member.ID,
		})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	}
}

func TestContractCreateUnknownSite(t *testing.T) {
	svc, _, database := newContractService(t)
	member := createTestStaff(t, database, "Solo")

	_, err := svc.Create(context.Background(), ContractCreateInput{
		ContractType:       model.ContractTypeSupply,
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
		SiteID:             999,
		ResponsibleStaffID: member.ID,
	})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContractExpirySweepOnRead(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	past := createTestContract(t, svc, database,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))
	require.Equal(t, model.ContractStatusActive, past.Status)

	got, err := svc.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusExpired, got.Status)

	// Second read is a no-op sweep; status stays Expired.
	again, err := svc.Get(ctx, past.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusExpired, again.Status)

	repo := repository.NewContractRepository(database)
	affected, err := repo.ExpireOverdue(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestContractSweepLeavesTerminalStatuses(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	contract := createTestContract(t, svc, database,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))

	completed := model.ContractStatusCompleted
	_, err := svc.Update(ctx, contract.ID, ContractUpdateInput{Status: &completed})
	require.NoError(t, err)

	got, err := svc.Get(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ContractStatusCompleted, got.Status)
}

func TestContractSummaryCounts(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	now := time.Now().UTC()
	createTestContract(t, svc, database, now.AddDate(0, -1, 0), now.AddDate(1, 0, 0))
	createTestContract(t, svc, database, now.AddDate(-1, 0, 0), now.AddDate(0, -6, 0))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalContracts)
	assert.Equal(t, int64(1), summary.ActiveCount)
	assert.Equal(t, int64(1), summary.ExpiredCount)
}

func TestContractSummaryByTypeRejectsUnknown(t *testing.T) {
	svc, _, _ := newContractService(t)
	_, err := svc.SummaryByType(context.Background(), "Lease")
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestContractNestedSections(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	site := createTestSite(t, database, "Grootvlei")
	member := createTestStaff(t, database, "Pieter")

	contract, err := svc.Create(ctx, ContractCreateInput{
		ContractType:       model.ContractTypeService,
		StartDate:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:            time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		SiteID:             site.ID,
		ResponsibleStaffID: member.ID,
		Sections: []SectionInput{
			{Name: "Labour", SortOrder: 2, Items: []LineItemInput{{Description: "Callout", Value: 1500}}},
			{Name: "Parts", SortOrder: 1},
		},
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, contract.ID)
	require.NoError(t, err)
	require.Len(t, got.Sections, 2)
	// Sections come back ordered by sort_order.
	assert.Equal(t, "Parts", got.Sections[0].Name)
	assert.Equal(t, "Labour", got.Sections[1].Name)
	require.Len(t, got.Sections[1].Items, 1)
	assert.Equal(t, "Callout", got.Sections[1].Items[0].Description)
}

func TestContractSectionAndItemCRUD(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	contract := createTestContract(t, svc, database,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	section, err := svc.CreateSection(ctx, contract.ID, SectionInput{Name: "Scope"})
	require.NoError(t, err)

	item, err := svc.CreateItem(ctx, section.ID, LineItemInput{Description: "Inspection", Value: 500})
	require.NoError(t, err)

	newValue := 750.0
	updated, err := svc.UpdateItem(ctx, item.ID, nil, &newValue, nil)
	require.NoError(t, err)
	assert.Equal(t, newValue, updated.Value)

	require.NoError(t, svc.DeleteSection(ctx, section.ID))

	_, err = svc.ListItems(ctx, section.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContractUploadDocumentValidation(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	contract := createTestContract(t, svc, database,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	_, _, err := svc.UploadDocument(ctx, contract.ID, "malware.exe", []byte("data"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	updated, storedName, err := svc.UploadDocument(ctx, contract.ID, "agreement.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "agreement.pdf", updated.DocumentFilename)
	assert.NotEmpty(t, storedName)

	path, filename, err := svc.Document(ctx, contract.ID)
	require.NoError(t, err)
	assert.Equal(t, "agreement.pdf", filename)
	assert.NotEmpty(t, path)

	require.NoError(t, svc.DeleteDocument(ctx, contract.ID))
	_, _, err = svc.Document(ctx, contract.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestContractExportRegister(t *testing.T) {
	svc, register, database := newContractService(t)

	createTestContract(t, svc, database,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	content, filename, err := svc.ExportRegister(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), content)
	assert.Contains(t, filename, "contract-register-")
	assert.Equal(t, 1, register.calls)
}

func TestContractListFilters(t *testing.T) {
	svc, _, database := newContractService(t)
	ctx := context.Background()

	contract := createTestContract(t, svc, database,
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))

	bySite, err := svc.List(ctx, &contract.SiteID, nil, 0, 0)
	require.NoError(t, err)
	assert.Len(t, bySite, 1)

	bad := "Draft"
	_, err = svc.List(ctx, nil, &bad, 0, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
