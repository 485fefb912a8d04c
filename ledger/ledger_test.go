package ledger_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"bikeshop-backend/ledger"
	"bikeshop-backend/models"
	"bikeshop-backend/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testClock = time.Date(2024, 12, 21, 10, 30, 0, 0, time.UTC)

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.New(context.Background(), store.NewMemory(), ledger.WithClock(func() time.Time { return testClock }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return l
}

func addJohnDoe(t *testing.T, l *ledger.Ledger) models.Customer {
	t.Helper()
	customer, err := l.AddCustomer(context.Background(), ledger.CustomerInput{
		Name:        "John Doe",
		PhoneNumber: "0501234567",
	})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}
	return customer
}

func addTrek(t *testing.T, l *ledger.Ledger, customerID uuid.UUID) models.Bicycle {
	t.Helper()
	bicycle, err := l.AddBicycle(context.Background(), ledger.BicycleInput{Brand: "Trek", Color: "Red", Type: "Mountain"}, customerID)
	if err != nil {
		t.Fatalf("AddBicycle: %v", err)
	}
	return bicycle
}

func brakeAndChain() models.RepairList {
	return models.RepairList{
		{Description: "Brake Adjustment", Price: decimal.NewFromInt(50)},
		{Description: "Chain Replacement", Price: decimal.NewFromInt(80)},
	}
}

func TestAddCustomer_MergesByPhoneNumber(t *testing.T) {
	l := newTestLedger(t)

	first := addJohnDoe(t, l)
	second, err := l.AddCustomer(context.Background(), ledger.CustomerInput{
		Name:        "Johnny D",
		PhoneNumber: "0501234567",
	})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("expected merge by phone to return the same customer, got %s and %s", first.ID, second.ID)
	}
	if second.Name != "John Doe" {
		t.Errorf("existing customer must be returned unchanged, got name %q", second.Name)
	}
	if got := len(l.Customers()); got != 1 {
		t.Errorf("expected 1 customer, got %d", got)
	}
}

func TestAddCustomer_Validation(t *testing.T) {
	l := newTestLedger(t)

	tests := []struct {
		name  string
		input ledger.CustomerInput
		field string
	}{
		{"missing name", ledger.CustomerInput{PhoneNumber: "0501234567"}, "name"},
		{"blank name", ledger.CustomerInput{Name: "   ", PhoneNumber: "0501234567"}, "name"},
		{"missing phone", ledger.CustomerInput{Name: "John Doe"}, "phoneNumber"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.AddCustomer(context.Background(), tt.input)
			var verr *ledger.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, verr.Field)
			}
		})
	}
}

func TestUpdateCustomer_DuplicatePhone(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	jane, err := l.AddCustomer(context.Background(), ledger.CustomerInput{Name: "Jane Roe", PhoneNumber: "0529999999"})
	if err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}

	phone := john.PhoneNumber
	_, err = l.UpdateCustomer(context.Background(), jane.ID, ledger.CustomerUpdate{PhoneNumber: &phone})
	var dup *ledger.DuplicatePhoneError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicatePhoneError, got %v", err)
	}
	if dup.ExistingID != john.ID {
		t.Errorf("expected existing id %s, got %s", john.ID, dup.ExistingID)
	}

	// Writing a customer's own number back is not a conflict.
	own := jane.PhoneNumber
	if _, err := l.UpdateCustomer(context.Background(), jane.ID, ledger.CustomerUpdate{PhoneNumber: &own}); err != nil {
		t.Errorf("updating to own phone number should succeed, got %v", err)
	}
}

func TestAddBicycle_UnknownCustomer(t *testing.T) {
	l := newTestLedger(t)

	_, err := l.AddBicycle(context.Background(), ledger.BicycleInput{Brand: "Trek"}, uuid.New())
	var nf *ledger.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if nf.Entity != "customer" {
		t.Errorf("expected entity customer, got %q", nf.Entity)
	}
}

func TestCreateJobOffer_ScenarioA(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)

	job, err := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{
		CustomerID: john.ID,
		BicycleID:  trek.ID,
		Repairs:    brakeAndChain(),
	})
	if err != nil {
		t.Fatalf("CreateJobOffer: %v", err)
	}

	if !job.TotalAmount.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected totalAmount 130, got %s", job.TotalAmount)
	}
	if job.TicketID != "JD-4567-241221-01" {
		t.Errorf("expected ticket JD-4567-241221-01, got %s", job.TicketID)
	}
	if job.Status != models.StatusPending {
		t.Errorf("expected status pending, got %s", job.Status)
	}
	if job.CompletedAt != nil {
		t.Errorf("expected nil completedAt on creation")
	}
}

func TestCreateJobOffer_ScenarioB_SameDaySequence(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)

	input := ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()}
	if _, err := l.CreateJobOffer(context.Background(), input); err != nil {
		t.Fatalf("CreateJobOffer: %v", err)
	}
	second, err := l.CreateJobOffer(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateJobOffer: %v", err)
	}

	if second.TicketID != "JD-4567-241221-02" {
		t.Errorf("expected second same-day ticket to end in 02, got %s", second.TicketID)
	}
}

func TestCreateJobOffer_UnknownReferences(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)

	var nf *ledger.NotFoundError

	_, err := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: uuid.New(), BicycleID: trek.ID, Repairs: brakeAndChain()})
	if !errors.As(err, &nf) || nf.Entity != "customer" {
		t.Errorf("expected customer NotFoundError, got %v", err)
	}

	_, err = l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: uuid.New(), Repairs: brakeAndChain()})
	if !errors.As(err, &nf) || nf.Entity != "bicycle" {
		t.Errorf("expected bicycle NotFoundError, got %v", err)
	}
}

func TestCompleteJob_ScenarioC(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, err := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})
	if err != nil {
		t.Fatalf("CreateJobOffer: %v", err)
	}

	record, err := l.CompleteJob(context.Background(), job.ID)
	if err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	if record.JobOfferID != job.ID {
		t.Errorf("record must reference the job offer")
	}
	if !record.TotalAmount.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected record totalAmount 130, got %s", record.TotalAmount)
	}
	if !record.CompletedAt.Equal(testClock) {
		t.Errorf("expected completedAt %v, got %v", testClock, record.CompletedAt)
	}

	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != 1 {
		t.Errorf("expected totalVisits 1, got %d", customer.TotalVisits)
	}
	if !customer.TotalSpent.Equal(decimal.NewFromInt(130)) {
		t.Errorf("expected totalSpent 130, got %s", customer.TotalSpent)
	}

	bicycle, _ := l.GetBicycle(trek.ID)
	if bicycle.TotalRepairs != 1 {
		t.Errorf("expected totalRepairs 1, got %d", bicycle.TotalRepairs)
	}
	if bicycle.LastServiceDate == nil || !bicycle.LastServiceDate.Equal(testClock) {
		t.Errorf("expected lastServiceDate %v, got %v", testClock, bicycle.LastServiceDate)
	}

	if got := len(l.RepairHistory()); got != 1 {
		t.Errorf("expected 1 repair record, got %d", got)
	}

	updated, _ := l.GetJobOffer(job.ID)
	if updated.Status != models.StatusCompleted {
		t.Errorf("expected status completed, got %s", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Errorf("expected completedAt to be set")
	}
}

func TestCompleteJob_AlreadyCompleted(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})

	if _, err := l.CompleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	_, err := l.CompleteJob(context.Background(), job.ID)
	var inv *ledger.InvalidStateError
	if !errors.As(err, &inv) {
		t.Fatalf("expected InvalidStateError on double completion, got %v", err)
	}

	// Stats were not double counted.
	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != 1 {
		t.Errorf("expected totalVisits to stay 1, got %d", customer.TotalVisits)
	}
}

func TestDeleteJobOffer_ScenarioD_ReversesStats(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})
	if _, err := l.CompleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	if err := l.DeleteJobOffer(context.Background(), job.ID); err != nil {
		t.Fatalf("DeleteJobOffer: %v", err)
	}

	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != 0 {
		t.Errorf("expected totalVisits 0, got %d", customer.TotalVisits)
	}
	if !customer.TotalSpent.Equal(decimal.Zero) {
		t.Errorf("expected totalSpent 0, got %s", customer.TotalSpent)
	}

	bicycle, _ := l.GetBicycle(trek.ID)
	if bicycle.TotalRepairs != 0 {
		t.Errorf("expected totalRepairs 0, got %d", bicycle.TotalRepairs)
	}
	// The last service date intentionally survives the reversal.
	if bicycle.LastServiceDate == nil {
		t.Errorf("lastServiceDate must not be reverted on delete")
	}

	if got := len(l.RepairHistory()); got != 0 {
		t.Errorf("expected repair record to be removed, got %d", got)
	}
	if got := len(l.JobOffers()); got != 0 {
		t.Errorf("expected job offer to be removed, got %d", got)
	}
}

func TestDeleteJobOffer_PendingDoesNotTouchStats(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})

	if err := l.DeleteJobOffer(context.Background(), job.ID); err != nil {
		t.Fatalf("DeleteJobOffer: %v", err)
	}

	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != 0 || !customer.TotalSpent.Equal(decimal.Zero) {
		t.Errorf("pending delete must not touch stats, got visits=%d spent=%s", customer.TotalVisits, customer.TotalSpent)
	}
}

func TestDeleteBicycle_ScenarioE_Cascades(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)

	input := ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()}
	pending, _ := l.CreateJobOffer(context.Background(), input)
	completed, _ := l.CreateJobOffer(context.Background(), input)
	if _, err := l.CompleteJob(context.Background(), completed.ID); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}
	_ = pending

	if err := l.DeleteBicycle(context.Background(), trek.ID); err != nil {
		t.Fatalf("DeleteBicycle: %v", err)
	}

	if got := len(l.JobOffers()); got != 0 {
		t.Errorf("expected both job offers removed, got %d", got)
	}
	if got := len(l.RepairHistory()); got != 0 {
		t.Errorf("expected repair history removed, got %d", got)
	}
	if got := len(l.Bicycles()); got != 0 {
		t.Errorf("expected bicycle removed, got %d", got)
	}

	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != 0 || !customer.TotalSpent.Equal(decimal.Zero) {
		t.Errorf("expected stats reversed by cascade, got visits=%d spent=%s", customer.TotalVisits, customer.TotalSpent)
	}
}

func TestStatsConsistency_MixedSequence(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)

	input := ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()}
	var jobs []models.JobOffer
	for i := 0; i < 4; i++ {
		job, err := l.CreateJobOffer(context.Background(), input)
		if err != nil {
			t.Fatalf("CreateJobOffer: %v", err)
		}
		jobs = append(jobs, job)
	}

	// Complete three, delete one completed and one pending.
	for _, job := range jobs[:3] {
		if _, err := l.CompleteJob(context.Background(), job.ID); err != nil {
			t.Fatalf("CompleteJob: %v", err)
		}
	}
	if err := l.DeleteJobOffer(context.Background(), jobs[0].ID); err != nil {
		t.Fatalf("DeleteJobOffer: %v", err)
	}
	if err := l.DeleteJobOffer(context.Background(), jobs[3].ID); err != nil {
		t.Fatalf("DeleteJobOffer: %v", err)
	}

	// Invariant: stats mirror the completed job offers that still exist.
	wantVisits := 0
	wantSpent := decimal.Zero
	for _, job := range l.JobOffers() {
		if job.Status == models.StatusCompleted {
			wantVisits++
			wantSpent = wantSpent.Add(job.TotalAmount)
		}
	}

	customer, _ := l.GetCustomer(john.ID)
	if customer.TotalVisits != wantVisits {
		t.Errorf("totalVisits=%d, want %d", customer.TotalVisits, wantVisits)
	}
	if !customer.TotalSpent.Equal(wantSpent) {
		t.Errorf("totalSpent=%s, want %s", customer.TotalSpent, wantSpent)
	}
	bicycle, _ := l.GetBicycle(trek.ID)
	if bicycle.TotalRepairs != wantVisits {
		t.Errorf("totalRepairs=%d, want %d", bicycle.TotalRepairs, wantVisits)
	}
	if got := len(l.RepairHistory()); got != wantVisits {
		t.Errorf("repair history length=%d, want %d", got, wantVisits)
	}
}

func TestUpdateJobOffer_RecomputesTotal(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})

	newRepairs := models.RepairList{
		{Description: "Full Service", Price: decimal.NewFromInt(200)},
		{Description: "Tire Replacement", Price: decimal.NewFromInt(120)},
	}
	updated, err := l.UpdateJobOffer(context.Background(), job.ID, ledger.JobOfferUpdate{Repairs: &newRepairs})
	if err != nil {
		t.Fatalf("UpdateJobOffer: %v", err)
	}
	if !updated.TotalAmount.Equal(decimal.NewFromInt(320)) {
		t.Errorf("expected recomputed total 320, got %s", updated.TotalAmount)
	}

	// A manual override replaces the computed total.
	override := decimal.NewFromInt(300)
	updated, err = l.UpdateJobOffer(context.Background(), job.ID, ledger.JobOfferUpdate{TotalAmountOverride: &override})
	if err != nil {
		t.Fatalf("UpdateJobOffer: %v", err)
	}
	if !updated.TotalAmount.Equal(override) {
		t.Errorf("expected override 300, got %s", updated.TotalAmount)
	}
}

func TestUpdateJobOffer_StatusValidation(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})

	cancelled := models.StatusCancelled
	if _, err := l.UpdateJobOffer(context.Background(), job.ID, ledger.JobOfferUpdate{Status: &cancelled}); err != nil {
		t.Fatalf("setting cancelled should succeed, got %v", err)
	}

	bogus := "paused"
	_, err := l.UpdateJobOffer(context.Background(), job.ID, ledger.JobOfferUpdate{Status: &bogus})
	var verr *ledger.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for unknown status, got %v", err)
	}
}

func TestSearchCustomers(t *testing.T) {
	l := newTestLedger(t)
	addJohnDoe(t, l)
	if _, err := l.AddCustomer(context.Background(), ledger.CustomerInput{Name: "Jane Roe", PhoneNumber: "0529876543"}); err != nil {
		t.Fatalf("AddCustomer: %v", err)
	}

	tests := []struct {
		term string
		want []string
	}{
		{"john", []string{"John Doe"}},
		{"DOE", []string{"John Doe"}},
		{"0529", []string{"Jane Roe"}},
		{"o", []string{"John Doe", "Jane Roe"}}, // insertion order
		{"zzz", nil},
	}
	for _, tt := range tests {
		var got []string
		for _, c := range l.SearchCustomers(tt.term) {
			got = append(got, c.Name)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SearchCustomers(%q) = %v, want %v", tt.term, got, tt.want)
		}
	}
}

func TestGetCustomerProfile(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})

	profile, err := l.GetCustomerProfile(john.ID)
	if err != nil {
		t.Fatalf("GetCustomerProfile: %v", err)
	}
	if len(profile.Bicycles) != 1 || len(profile.JobOffers) != 1 || len(profile.RepairHistory) != 0 {
		t.Errorf("unexpected profile shape: %d bicycles, %d jobs, %d history",
			len(profile.Bicycles), len(profile.JobOffers), len(profile.RepairHistory))
	}
	if profile.JobOffers[0].ID != job.ID {
		t.Errorf("profile job offer mismatch")
	}

	// Unknown customer is not-found, distinct from found-but-empty.
	_, err = l.GetCustomerProfile(uuid.New())
	var nf *ledger.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestExportImport_RoundTrip(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	job, _ := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()})
	if _, err := l.CompleteJob(context.Background(), job.ID); err != nil {
		t.Fatalf("CompleteJob: %v", err)
	}

	data := l.ExportDatabase()

	fresh := newTestLedger(t)
	if err := fresh.ImportDatabase(context.Background(), data.Snapshot); err != nil {
		t.Fatalf("ImportDatabase: %v", err)
	}

	if !reflect.DeepEqual(fresh.Snapshot(), l.Snapshot()) {
		t.Errorf("import of an export must reproduce the database exactly")
	}
}

// failingStore accepts loads but rejects every save.
type failingStore struct {
	err error
}

func (s *failingStore) LoadAll(ctx context.Context) (models.Snapshot, error) {
	return models.Snapshot{}, nil
}

func (s *failingStore) SaveAll(ctx context.Context, snap models.Snapshot) error {
	return s.err
}

func TestPersistFailure_SurfacesAndKeepsMemory(t *testing.T) {
	cause := errors.New("connection reset")
	l, err := ledger.New(context.Background(), &failingStore{err: cause},
		ledger.WithClock(func() time.Time { return testClock }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	customer, err := l.AddCustomer(context.Background(), ledger.CustomerInput{Name: "John Doe", PhoneNumber: "0501234567"})
	var perr *ledger.PersistError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PersistError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("PersistError must wrap the storage cause")
	}

	// The in-memory change is kept; the caller decides what to do next.
	if _, err := l.GetCustomer(customer.ID); err != nil {
		t.Errorf("customer should remain in memory after persist failure, got %v", err)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	l := newTestLedger(t)
	john := addJohnDoe(t, l)
	trek := addTrek(t, l, john.ID)
	if _, err := l.CreateJobOffer(context.Background(), ledger.JobOfferInput{CustomerID: john.ID, BicycleID: trek.ID, Repairs: brakeAndChain()}); err != nil {
		t.Fatalf("CreateJobOffer: %v", err)
	}

	snap := l.Snapshot()
	snap.Customers[0].Name = "Mallory"
	snap.JobOffers[0].Repairs[0].Description = "tampered"

	customer, _ := l.GetCustomer(john.ID)
	if customer.Name != "John Doe" {
		t.Errorf("mutating a snapshot must not affect the ledger")
	}
	job := l.JobOffers()[0]
	if job.Repairs[0].Description != "Brake Adjustment" {
		t.Errorf("mutating snapshot repairs must not affect the ledger")
	}
}
