package ledger

import (
	"context"
	"strings"
	"sync"
	"time"

	"bikeshop-backend/models"
	"bikeshop-backend/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ledger holds the workshop's four collections (customers, bicycles, job
// offers and repair history) and applies mutations that keep the
// cross-entity statistics consistent. Every mutation is atomic under the
// ledger's lock and written through to the injected store before returning.
//
// If the store write fails the in-memory change is kept and the error is
// returned as a *PersistError, so the caller knows memory may be ahead of
// storage and can retry or reload.
type Ledger struct {
	mu    sync.RWMutex
	store store.Store

	customers     []models.Customer
	bicycles      []models.Bicycle
	jobOffers     []models.JobOffer
	repairHistory []models.RepairRecord

	tickets TicketAllocator
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source, for both record timestamps and
// ticket IDs.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
		l.tickets.Now = now
	}
}

// New loads the collections from st and returns a ready ledger.
func New(ctx context.Context, st store.Store, opts ...Option) (*Ledger, error) {
	snap, err := st.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	l := &Ledger{
		store:         st,
		customers:     snap.Customers,
		bicycles:      snap.Bicycles,
		jobOffers:     snap.JobOffers,
		repairHistory: snap.RepairHistory,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// CustomerInput carries the caller-supplied fields for a new customer.
type CustomerInput struct {
	Name        string `json:"name" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// CustomerUpdate carries optional field changes; nil means leave unchanged.
type CustomerUpdate struct {
	Name        *string `json:"name"`
	PhoneNumber *string `json:"phoneNumber"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// BicycleInput carries the caller-supplied fields for a new bicycle.
type BicycleInput struct {
	Brand           string `json:"brand" binding:"required"`
	Model           string `json:"model"`
	Color           string `json:"color"`
	Type            string `json:"type"`
	AdditionalSpecs string `json:"additionalSpecs"`
}

// JobOfferInput carries the caller-supplied fields for a new job offer.
type JobOfferInput struct {
	CustomerID uuid.UUID         `json:"customerId" binding:"required"`
	BicycleID  uuid.UUID         `json:"bicycleId" binding:"required"`
	Repairs    models.RepairList `json:"repairs" binding:"required,min=1"`
	Notes      string            `json:"notes"`
}

// JobOfferUpdate carries optional field changes for a job offer. Changing
// Repairs recomputes TotalAmount; TotalAmountOverride then replaces the
// computed total and becomes the new source of truth.
type JobOfferUpdate struct {
	Repairs             *models.RepairList `json:"repairs"`
	Notes               *string            `json:"notes"`
	Status              *string            `json:"status"`
	TotalAmountOverride *decimal.Decimal   `json:"totalAmountOverride"`
}

// Profile is a customer together with everything that references them.
type Profile struct {
	Customer      models.Customer       `json:"customer"`
	Bicycles      []models.Bicycle      `json:"bicycles"`
	JobOffers     []models.JobOffer     `json:"jobOffers"`
	RepairHistory []models.RepairRecord `json:"repairHistory"`
}

// AddCustomer creates a customer, or returns the existing one unchanged when
// the phone number is already registered. Phone number is the natural dedup
// key for walk-in intake: the same person coming back should not become a
// second record.
func (l *Ledger) AddCustomer(ctx context.Context, input CustomerInput) (models.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Customer{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if strings.TrimSpace(input.PhoneNumber) == "" {
		return models.Customer{}, &ValidationError{Field: "phoneNumber", Reason: "required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, existing := range l.customers {
		if existing.PhoneNumber == input.PhoneNumber {
			return existing, nil
		}
	}

	customer := models.Customer{
		ID:          uuid.New(),
		Name:        input.Name,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		Address:     input.Address,
		TotalVisits: 0,
		TotalSpent:  decimal.Zero,
		CreatedAt:   l.now(),
	}
	l.customers = append(l.customers, customer)

	if err := l.persist(ctx); err != nil {
		return customer, err
	}
	return customer, nil
}

// UpdateCustomer applies the provided field changes. Moving the phone number
// onto one already used by another customer fails with DuplicatePhoneError.
func (l *Ledger) UpdateCustomer(ctx context.Context, customerID uuid.UUID, update CustomerUpdate) (models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.customerIndex(customerID)
	if idx < 0 {
		return models.Customer{}, &NotFoundError{Entity: "customer", ID: customerID.String()}
	}

	if update.PhoneNumber != nil {
		if strings.TrimSpace(*update.PhoneNumber) == "" {
			return models.Customer{}, &ValidationError{Field: "phoneNumber", Reason: "required"}
		}
		for _, other := range l.customers {
			if other.ID != customerID && other.PhoneNumber == *update.PhoneNumber {
				return models.Customer{}, &DuplicatePhoneError{PhoneNumber: *update.PhoneNumber, ExistingID: other.ID}
			}
		}
	}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return models.Customer{}, &ValidationError{Field: "name", Reason: "required"}
		}
	}

	customer := &l.customers[idx]
	if update.Name != nil {
		customer.Name = *update.Name
	}
	if update.PhoneNumber != nil {
		customer.PhoneNumber = *update.PhoneNumber
	}
	if update.Email != nil {
		customer.Email = *update.Email
	}
	if update.Address != nil {
		customer.Address = *update.Address
	}

	if err := l.persist(ctx); err != nil {
		return *customer, err
	}
	return *customer, nil
}

// AddBicycle registers a bicycle for an existing customer. An unknown
// customer is rejected; orphaned bicycles would break the profile and
// cascade paths.
func (l *Ledger) AddBicycle(ctx context.Context, input BicycleInput, customerID uuid.UUID) (models.Bicycle, error) {
	if strings.TrimSpace(input.Brand) == "" {
		return models.Bicycle{}, &ValidationError{Field: "brand", Reason: "required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.customerIndex(customerID) < 0 {
		return models.Bicycle{}, &NotFoundError{Entity: "customer", ID: customerID.String()}
	}

	bicycle := models.Bicycle{
		ID:              uuid.New(),
		CustomerID:      customerID,
		Brand:           input.Brand,
		Model:           input.Model,
		Color:           input.Color,
		Type:            input.Type,
		AdditionalSpecs: input.AdditionalSpecs,
		TotalRepairs:    0,
		LastServiceDate: nil,
		RegisteredAt:    l.now(),
	}
	l.bicycles = append(l.bicycles, bicycle)

	if err := l.persist(ctx); err != nil {
		return bicycle, err
	}
	return bicycle, nil
}

// CreateJobOffer opens a pending ticket. TotalAmount is computed from the
// repair lines and a ticket ID is minted for the customer.
func (l *Ledger) CreateJobOffer(ctx context.Context, input JobOfferInput) (models.JobOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	customerIdx := l.customerIndex(input.CustomerID)
	if customerIdx < 0 {
		return models.JobOffer{}, &NotFoundError{Entity: "customer", ID: input.CustomerID.String()}
	}
	if l.bicycleIndex(input.BicycleID) < 0 {
		return models.JobOffer{}, &NotFoundError{Entity: "bicycle", ID: input.BicycleID.String()}
	}

	customer := l.customers[customerIdx]
	job := models.JobOffer{
		ID:          uuid.New(),
		TicketID:    l.tickets.Generate(&customer, l.jobOffers),
		CustomerID:  input.CustomerID,
		BicycleID:   input.BicycleID,
		Repairs:     input.Repairs.Copy(),
		TotalAmount: input.Repairs.Total(),
		Notes:       input.Notes,
		Status:      models.StatusPending,
		CreatedAt:   l.now(),
		CompletedAt: nil,
	}
	l.jobOffers = append(l.jobOffers, job)

	if err := l.persist(ctx); err != nil {
		return job, err
	}
	return job, nil
}

// UpdateJobOffer edits a ticket. There is no state machine on Status: staff
// move tickets to in-progress or cancelled and back as the work dictates.
// Completion bookkeeping only happens through CompleteJob.
func (l *Ledger) UpdateJobOffer(ctx context.Context, jobOfferID uuid.UUID, update JobOfferUpdate) (models.JobOffer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.jobOfferIndex(jobOfferID)
	if idx < 0 {
		return models.JobOffer{}, &NotFoundError{Entity: "job offer", ID: jobOfferID.String()}
	}

	if update.Status != nil {
		switch *update.Status {
		case models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled:
		default:
			return models.JobOffer{}, &ValidationError{Field: "status", Reason: "unknown status " + *update.Status}
		}
	}

	job := &l.jobOffers[idx]
	if update.Repairs != nil {
		job.Repairs = update.Repairs.Copy()
		job.TotalAmount = job.Repairs.Total()
	}
	if update.TotalAmountOverride != nil {
		job.TotalAmount = *update.TotalAmountOverride
	}
	if update.Notes != nil {
		job.Notes = *update.Notes
	}
	if update.Status != nil {
		job.Status = *update.Status
	}

	if err := l.persist(ctx); err != nil {
		return *job, err
	}
	return *job, nil
}

// CompleteJob marks a job offer completed, writes the repair history record
// and bumps the owning customer's and bicycle's statistics. The four writes
// are applied together under the lock: no reader observes a partial update.
func (l *Ledger) CompleteJob(ctx context.Context, jobOfferID uuid.UUID) (models.RepairRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.jobOfferIndex(jobOfferID)
	if idx < 0 {
		return models.RepairRecord{}, &NotFoundError{Entity: "job offer", ID: jobOfferID.String()}
	}
	job := &l.jobOffers[idx]
	if job.Status == models.StatusCompleted {
		return models.RepairRecord{}, &InvalidStateError{Entity: "job offer", ID: jobOfferID, State: "already completed"}
	}

	completedAt := l.now()
	job.Status = models.StatusCompleted
	job.CompletedAt = &completedAt

	record := models.RepairRecord{
		ID:          uuid.New(),
		CustomerID:  job.CustomerID,
		BicycleID:   job.BicycleID,
		JobOfferID:  job.ID,
		Repairs:     job.Repairs.Copy(),
		TotalAmount: job.TotalAmount,
		Notes:       job.Notes,
		CompletedAt: completedAt,
	}
	l.repairHistory = append(l.repairHistory, record)

	if ci := l.customerIndex(job.CustomerID); ci >= 0 {
		customer := &l.customers[ci]
		customer.TotalVisits++
		customer.TotalSpent = customer.TotalSpent.Add(job.TotalAmount)
	}
	if bi := l.bicycleIndex(job.BicycleID); bi >= 0 {
		bicycle := &l.bicycles[bi]
		bicycle.TotalRepairs++
		bicycle.LastServiceDate = &completedAt
	}

	if err := l.persist(ctx); err != nil {
		return record, err
	}
	return record, nil
}

// DeleteJobOffer removes a ticket. If it was completed, its repair history
// record is removed and the customer and bicycle statistics are reversed,
// clamped at zero. The bicycle's lastServiceDate is left as-is: the prior
// service date is not recoverable without a history scan.
func (l *Ledger) DeleteJobOffer(ctx context.Context, jobOfferID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.deleteJobOfferLocked(jobOfferID); err != nil {
		return err
	}
	return l.persist(ctx)
}

func (l *Ledger) deleteJobOfferLocked(jobOfferID uuid.UUID) error {
	idx := l.jobOfferIndex(jobOfferID)
	if idx < 0 {
		return &NotFoundError{Entity: "job offer", ID: jobOfferID.String()}
	}
	job := l.jobOffers[idx]

	if job.Status == models.StatusCompleted {
		for i, rec := range l.repairHistory {
			if rec.JobOfferID == jobOfferID {
				l.repairHistory = append(l.repairHistory[:i], l.repairHistory[i+1:]...)
				break
			}
		}

		if ci := l.customerIndex(job.CustomerID); ci >= 0 {
			customer := &l.customers[ci]
			if customer.TotalVisits > 0 {
				customer.TotalVisits--
			}
			customer.TotalSpent = customer.TotalSpent.Sub(job.TotalAmount)
			if customer.TotalSpent.IsNegative() {
				customer.TotalSpent = decimal.Zero
			}
		}
		if bi := l.bicycleIndex(job.BicycleID); bi >= 0 {
			bicycle := &l.bicycles[bi]
			if bicycle.TotalRepairs > 0 {
				bicycle.TotalRepairs--
			}
		}
	}

	l.jobOffers = append(l.jobOffers[:idx], l.jobOffers[idx+1:]...)
	return nil
}

// DeleteBicycle removes a bicycle and cascades: every job offer on it goes
// through the job-offer delete path so completed ones reverse their stats,
// then any repair history rows still referencing the bicycle are swept as
// defensive cleanup.
func (l *Ledger) DeleteBicycle(ctx context.Context, bicycleID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.bicycleIndex(bicycleID)
	if idx < 0 {
		return &NotFoundError{Entity: "bicycle", ID: bicycleID.String()}
	}

	var related []uuid.UUID
	for _, job := range l.jobOffers {
		if job.BicycleID == bicycleID {
			related = append(related, job.ID)
		}
	}
	for _, jobID := range related {
		if err := l.deleteJobOfferLocked(jobID); err != nil {
			return err
		}
	}

	remaining := l.repairHistory[:0]
	for _, rec := range l.repairHistory {
		if rec.BicycleID != bicycleID {
			remaining = append(remaining, rec)
		}
	}
	l.repairHistory = remaining

	// Index is still valid: the cascade above never touches l.bicycles.
	l.bicycles = append(l.bicycles[:idx], l.bicycles[idx+1:]...)

	return l.persist(ctx)
}

// SearchCustomers matches the term case-insensitively against names and as a
// plain substring against phone numbers, returning matches in insertion
// order.
func (l *Ledger) SearchCustomers(term string) []models.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()

	needle := strings.ToLower(term)
	var matches []models.Customer
	for _, customer := range l.customers {
		if strings.Contains(strings.ToLower(customer.Name), needle) ||
			strings.Contains(customer.PhoneNumber, needle) {
			matches = append(matches, customer)
		}
	}
	return matches
}

// GetCustomerProfile returns the customer with all bicycles, job offers and
// repair history referencing them. An unknown customer is a NotFoundError,
// distinct from a customer with empty collections.
func (l *Ledger) GetCustomerProfile(customerID uuid.UUID) (Profile, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.customerIndex(customerID)
	if idx < 0 {
		return Profile{}, &NotFoundError{Entity: "customer", ID: customerID.String()}
	}

	profile := Profile{
		Customer:      l.customers[idx],
		Bicycles:      []models.Bicycle{},
		JobOffers:     []models.JobOffer{},
		RepairHistory: []models.RepairRecord{},
	}
	for _, bicycle := range l.bicycles {
		if bicycle.CustomerID == customerID {
			profile.Bicycles = append(profile.Bicycles, bicycle)
		}
	}
	for _, job := range l.jobOffers {
		if job.CustomerID == customerID {
			job.Repairs = job.Repairs.Copy()
			profile.JobOffers = append(profile.JobOffers, job)
		}
	}
	for _, rec := range l.repairHistory {
		if rec.CustomerID == customerID {
			rec.Repairs = rec.Repairs.Copy()
			profile.RepairHistory = append(profile.RepairHistory, rec)
		}
	}
	return profile, nil
}

// GetJobOffer returns a single job offer by id.
func (l *Ledger) GetJobOffer(jobOfferID uuid.UUID) (models.JobOffer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.jobOfferIndex(jobOfferID)
	if idx < 0 {
		return models.JobOffer{}, &NotFoundError{Entity: "job offer", ID: jobOfferID.String()}
	}
	job := l.jobOffers[idx]
	job.Repairs = job.Repairs.Copy()
	return job, nil
}

// GetCustomer returns a single customer by id.
func (l *Ledger) GetCustomer(customerID uuid.UUID) (models.Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.customerIndex(customerID)
	if idx < 0 {
		return models.Customer{}, &NotFoundError{Entity: "customer", ID: customerID.String()}
	}
	return l.customers[idx], nil
}

// GetBicycle returns a single bicycle by id.
func (l *Ledger) GetBicycle(bicycleID uuid.UUID) (models.Bicycle, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	idx := l.bicycleIndex(bicycleID)
	if idx < 0 {
		return models.Bicycle{}, &NotFoundError{Entity: "bicycle", ID: bicycleID.String()}
	}
	return l.bicycles[idx], nil
}

// Customers returns a copy of the customer collection in insertion order.
func (l *Ledger) Customers() []models.Customer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Customer, len(l.customers))
	copy(out, l.customers)
	return out
}

// Bicycles returns a copy of the bicycle collection.
func (l *Ledger) Bicycles() []models.Bicycle {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Bicycle, len(l.bicycles))
	copy(out, l.bicycles)
	return out
}

// JobOffers returns a copy of the job offer collection.
func (l *Ledger) JobOffers() []models.JobOffer {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.JobOffer, len(l.jobOffers))
	for i, job := range l.jobOffers {
		job.Repairs = job.Repairs.Copy()
		out[i] = job
	}
	return out
}

// RepairHistory returns a copy of the repair history collection.
func (l *Ledger) RepairHistory() []models.RepairRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.RepairRecord, len(l.repairHistory))
	for i, rec := range l.repairHistory {
		rec.Repairs = rec.Repairs.Copy()
		out[i] = rec
	}
	return out
}

// Snapshot returns a copy of all four collections.
func (l *Ledger) Snapshot() models.Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked().Copy()
}

// ExportDatabase returns a timestamped copy of the full database.
func (l *Ledger) ExportDatabase() models.Export {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.Export{
		Snapshot:   l.snapshotLocked().Copy(),
		ExportedAt: l.now(),
	}
}

// ImportDatabase replaces each collection present in data (nil collections
// are left untouched) and persists the result. An export fed back in
// reproduces the database id-for-id.
func (l *Ledger) ImportDatabase(ctx context.Context, data models.Snapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if data.Customers != nil {
		l.customers = data.Customers
	}
	if data.Bicycles != nil {
		l.bicycles = data.Bicycles
	}
	if data.JobOffers != nil {
		l.jobOffers = data.JobOffers
	}
	if data.RepairHistory != nil {
		l.repairHistory = data.RepairHistory
	}
	return l.persist(ctx)
}

// ClearAll wipes all four collections and persists the empty state.
func (l *Ledger) ClearAll(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.customers = nil
	l.bicycles = nil
	l.jobOffers = nil
	l.repairHistory = nil
	return l.persist(ctx)
}

func (l *Ledger) snapshotLocked() models.Snapshot {
	return models.Snapshot{
		Customers:     l.customers,
		Bicycles:      l.bicycles,
		JobOffers:     l.jobOffers,
		RepairHistory: l.repairHistory,
	}
}

func (l *Ledger) persist(ctx context.Context) error {
	if err := l.store.SaveAll(ctx, l.snapshotLocked().Copy()); err != nil {
		return &PersistError{Err: err}
	}
	return nil
}

func (l *Ledger) customerIndex(id uuid.UUID) int {
	for i, c := range l.customers {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) bicycleIndex(id uuid.UUID) int {
	for i, b := range l.bicycles {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) jobOfferIndex(id uuid.UUID) int {
	for i, j := range l.jobOffers {
		if j.ID == id {
			return i
		}
	}
	return -1
}
