package service

import (
	"context"
	"time"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repository fakes. Each stores rows in a map and hands out copies
// so tests observe only what a service explicitly persisted.

type memTxManager struct{}

func (m *memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type memAuditRepo struct {
	entries []model.AuditLog
}

func (m *memAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memAuditRepo) List(_ context.Context, page, limit int) ([]model.AuditLog, int64, error) {
	return m.entries, int64(len(m.entries)), nil
}

// --- customers ---

type memCustomerRepo struct {
	customers map[uuid.UUID]*model.Customer
	phones    map[uuid.UUID]*model.CustomerPhone
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{
		customers: map[uuid.UUID]*model.Customer{},
		phones:    map[uuid.UUID]*model.CustomerPhone{},
	}
}

func (m *memCustomerRepo) Create(_ context.Context, customer *model.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	cp := *customer
	m.customers[customer.ID] = &cp
	return nil
}

func (m *memCustomerRepo) Update(_ context.Context, customer *model.Customer) error {
	cp := *customer
	m.customers[customer.ID] = &cp
	return nil
}

func (m *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.customers, id)
	return nil
}

func (m *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	cp.Phones = nil
	for _, p := range m.phones {
		if p.CustomerID == id {
			cp.Phones = append(cp.Phones, *p)
		}
	}
	return &cp, nil
}

func (m *memCustomerRepo) FindByEmail(_ context.Context, email string) (*model.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCustomerRepo) FindByPhone(_ context.Context, number string) (*model.Customer, error) {
	for _, p := range m.phones {
		if p.Number == number {
			return m.FindByID(context.Background(), p.CustomerID)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memCustomerRepo) List(_ context.Context, page, limit int, search string) ([]model.Customer, int64, error) {
	out := make([]model.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *memCustomerRepo) AddPhone(_ context.Context, phone *model.CustomerPhone) error {
	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	cp := *phone
	m.phones[phone.ID] = &cp
	return nil
}

func (m *memCustomerRepo) DeletePhone(_ context.Context, id uuid.UUID) error {
	delete(m.phones, id)
	return nil
}

// --- employees ---

type memEmployeeRepo struct {
	employees map[uuid.UUID]*model.Employee
	phones    map[uuid.UUID]*model.EmployeePhone
	tokens    map[string]*model.RefreshToken
}

func newMemEmployeeRepo() *memEmployeeRepo {
	return &memEmployeeRepo{
		employees: map[uuid.UUID]*model.Employee{},
		phones:    map[uuid.UUID]*model.EmployeePhone{},
		tokens:    map[string]*model.RefreshToken{},
	}
}

func (m *memEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	cp := *employee
	m.employees[employee.ID] = &cp
	return nil
}

func (m *memEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	cp := *employee
	m.employees[employee.ID] = &cp
	return nil
}

func (m *memEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEmployeeRepo) FindByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEmployeeRepo) FindByNIC(_ context.Context, nic string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.NIC == nic {
			cp := *e
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEmployeeRepo) List(_ context.Context, page, limit int, activeOnly bool) ([]model.Employee, int64, error) {
	out := []model.Employee{}
	for _, e := range m.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (m *memEmployeeRepo) AddPhone(_ context.Context, phone *model.EmployeePhone) error {
	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	cp := *phone
	m.phones[phone.ID] = &cp
	return nil
}

func (m *memEmployeeRepo) FindPhone(_ context.Context, number string) (*model.EmployeePhone, error) {
	for _, p := range m.phones {
		if p.Number == number {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memEmployeeRepo) StoreRefreshToken(_ context.Context, token *model.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	cp := *token
	m.tokens[token.Token] = &cp
	return nil
}

func (m *memEmployeeRepo) FindRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	t, ok := m.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memEmployeeRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(m.tokens, token)
	return nil
}

func (m *memEmployeeRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	for k, t := range m.tokens {
		if t.ExpiresAt.Before(time.Now()) {
			delete(m.tokens, k)
		}
	}
	return nil
}

// --- products ---

type memProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[uuid.UUID]*model.Product{}}
}

func (m *memProductRepo) Create(_ context.Context, product *model.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memProductRepo) Update(_ context.Context, product *model.Product) error {
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func (m *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProductRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Product, error) {
	out := []model.Product{}
	for _, p := range m.products {
		if p.CustomerID == customerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProductRepo) List(_ context.Context, page, limit int, search string) ([]model.Product, int64, error) {
	out := make([]model.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// --- jobs ---

type memJobRepo struct {
	jobs map[uuid.UUID]*model.Job
	used map[uuid.UUID]*model.JobUsedInventory
}

func newMemJobRepo() *memJobRepo {
	return &memJobRepo{
		jobs: map[uuid.UUID]*model.Job{},
		used: map[uuid.UUID]*model.JobUsedInventory{},
	}
}

func (m *memJobRepo) Create(_ context.Context, job *model.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobRepo) Update(_ context.Context, job *model.Job) error {
	cp := *job
	m.jobs[job.ID] = &cp
	return nil
}

func (m *memJobRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Job, error) {
	j, ok := m.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *j
	return &cp, nil
}

func (m *memJobRepo) List(_ context.Context, page, limit int, status string) ([]model.Job, int64, error) {
	out := []model.Job{}
	for _, j := range m.jobs {
		if status != "" && j.Status != status {
			continue
		}
		out = append(out, *j)
	}
	return out, int64(len(out)), nil
}

func (m *memJobRepo) HasActiveJobForProduct(_ context.Context, productID uuid.UUID) (bool, error) {
	for _, j := range m.jobs {
		if j.ProductID == productID &&
			(j.Status == model.JobStatusPending || j.Status == model.JobStatusOnProgress) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memJobRepo) CreateUsedInventory(_ context.Context, row *model.JobUsedInventory) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	cp := *row
	m.used[row.ID] = &cp
	return nil
}

func (m *memJobRepo) UpdateUsedInventory(_ context.Context, row *model.JobUsedInventory) error {
	cp := *row
	m.used[row.ID] = &cp
	return nil
}

func (m *memJobRepo) DeleteUsedInventory(_ context.Context, id uuid.UUID) error {
	delete(m.used, id)
	return nil
}

func (m *memJobRepo) FindUsedInventory(_ context.Context, id uuid.UUID) (*model.JobUsedInventory, error) {
	r, ok := m.used[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memJobRepo) FindUsedInventoryByKey(_ context.Context, jobID, itemID, batchID uuid.UUID) (*model.JobUsedInventory, error) {
	for _, r := range m.used {
		if r.JobID == jobID && r.ItemID == itemID && r.BatchID == batchID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memJobRepo) ListUsedInventoryByJob(_ context.Context, jobID uuid.UUID) ([]model.JobUsedInventory, error) {
	out := []model.JobUsedInventory{}
	for _, r := range m.used {
		if r.JobID == jobID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// --- inventory items and batches ---

type memBatchRepo struct {
	batches   map[uuid.UUID]*model.InventoryBatch
	purchases []model.InventoryPurchase
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: map[uuid.UUID]*model.InventoryBatch{}}
}

func (m *memBatchRepo) Create(_ context.Context, batch *model.InventoryBatch) error {
	if batch.ID == uuid.Nil {
		batch.ID = uuid.New()
	}
	cp := *batch
	m.batches[batch.ID] = &cp
	return nil
}

func (m *memBatchRepo) Update(_ context.Context, batch *model.InventoryBatch) error {
	cp := *batch
	m.batches[batch.ID] = &cp
	return nil
}

func (m *memBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.batches, id)
	return nil
}

func (m *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	b, ok := m.batches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memBatchRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.InventoryBatch, error) {
	return m.FindByID(ctx, id)
}

func (m *memBatchRepo) UpdateQuantity(_ context.Context, id uuid.UUID, quantity int) error {
	b, ok := m.batches[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.Quantity = quantity
	return nil
}

func (m *memBatchRepo) List(_ context.Context, page, limit int, itemID *uuid.UUID) ([]model.InventoryBatch, int64, error) {
	out := []model.InventoryBatch{}
	for _, b := range m.batches {
		if itemID != nil && b.ItemID != *itemID {
			continue
		}
		out = append(out, *b)
	}
	return out, int64(len(out)), nil
}

func (m *memBatchRepo) CreatePurchase(_ context.Context, purchase *model.InventoryPurchase) error {
	if purchase.ID == uuid.Nil {
		purchase.ID = uuid.New()
	}
	m.purchases = append(m.purchases, *purchase)
	return nil
}

func (m *memBatchRepo) ListPurchases(_ context.Context, page, limit int, from, to *time.Time) ([]model.InventoryPurchase, int64, error) {
	out := []model.InventoryPurchase{}
	for _, p := range m.purchases {
		if from != nil && p.PurchaseDate.Before(*from) {
			continue
		}
		if to != nil && p.PurchaseDate.After(*to) {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

type memItemRepo struct {
	items map[uuid.UUID]*model.InventoryItem
	// shared so TotalRemaining reflects the batch fake's state
	batches *memBatchRepo
}

func newMemItemRepo(batches *memBatchRepo) *memItemRepo {
	return &memItemRepo{items: map[uuid.UUID]*model.InventoryItem{}, batches: batches}
}

func (m *memItemRepo) Create(_ context.Context, item *model.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memItemRepo) Update(_ context.Context, item *model.InventoryItem) error {
	cp := *item
	m.items[item.ID] = &cp
	return nil
}

func (m *memItemRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func (m *memItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryItem, error) {
	i, ok := m.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *i
	return &cp, nil
}

func (m *memItemRepo) List(_ context.Context, page, limit int, search string) ([]model.InventoryItem, int64, error) {
	out := make([]model.InventoryItem, 0, len(m.items))
	for _, i := range m.items {
		out = append(out, *i)
	}
	return out, int64(len(out)), nil
}

func (m *memItemRepo) TotalRemaining(_ context.Context, itemID uuid.UUID) (int, error) {
	total := 0
	if m.batches != nil {
		for _, b := range m.batches.batches {
			if b.ItemID == itemID {
				total += b.Quantity
			}
		}
	}
	return total, nil
}

// --- suppliers ---

type memSupplierRepo struct {
	suppliers map[uuid.UUID]*model.Supplier
	phones    map[uuid.UUID]*model.SupplierPhone
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{
		suppliers: map[uuid.UUID]*model.Supplier{},
		phones:    map[uuid.UUID]*model.SupplierPhone{},
	}
}

func (m *memSupplierRepo) Create(_ context.Context, supplier *model.Supplier) error {
	if supplier.ID == uuid.Nil {
		supplier.ID = uuid.New()
	}
	cp := *supplier
	m.suppliers[supplier.ID] = &cp
	return nil
}

func (m *memSupplierRepo) Update(_ context.Context, supplier *model.Supplier) error {
	cp := *supplier
	m.suppliers[supplier.ID] = &cp
	return nil
}

func (m *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.suppliers, id)
	return nil
}

func (m *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := m.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	cp.Phones = nil
	for _, p := range m.phones {
		if p.SupplierID == id {
			cp.Phones = append(cp.Phones, *p)
		}
	}
	return &cp, nil
}

func (m *memSupplierRepo) FindByEmail(_ context.Context, email string) (*model.Supplier, error) {
	for _, s := range m.suppliers {
		if s.Email == email {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memSupplierRepo) List(_ context.Context, page, limit int, search string) ([]model.Supplier, int64, error) {
	out := make([]model.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

func (m *memSupplierRepo) AddPhone(_ context.Context, phone *model.SupplierPhone) error {
	if phone.ID == uuid.Nil {
		phone.ID = uuid.New()
	}
	cp := *phone
	m.phones[phone.ID] = &cp
	return nil
}

func (m *memSupplierRepo) DeletePhone(_ context.Context, id uuid.UUID) error {
	delete(m.phones, id)
	return nil
}

// --- quotations and orders ---

type memQuotationRepo struct {
	quotations map[uuid.UUID]*model.SupplierQuotation
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{quotations: map[uuid.UUID]*model.SupplierQuotation{}}
}

func (m *memQuotationRepo) Create(_ context.Context, quotation *model.SupplierQuotation) error {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	cp := *quotation
	m.quotations[quotation.ID] = &cp
	return nil
}

func (m *memQuotationRepo) Update(_ context.Context, quotation *model.SupplierQuotation) error {
	cp := *quotation
	m.quotations[quotation.ID] = &cp
	return nil
}

func (m *memQuotationRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.quotations, id)
	return nil
}

func (m *memQuotationRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SupplierQuotation, error) {
	q, ok := m.quotations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *q
	return &cp, nil
}

func (m *memQuotationRepo) List(_ context.Context, page, limit int, status string, supplierID *uuid.UUID) ([]model.SupplierQuotation, int64, error) {
	out := []model.SupplierQuotation{}
	for _, q := range m.quotations {
		if status != "" && q.Status != status {
			continue
		}
		if supplierID != nil && q.SupplierID != *supplierID {
			continue
		}
		out = append(out, *q)
	}
	return out, int64(len(out)), nil
}

type memOrderRepo struct {
	orders map[uuid.UUID]*model.InventoryOrder
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[uuid.UUID]*model.InventoryOrder{}}
}

func (m *memOrderRepo) Create(_ context.Context, order *model.InventoryOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepo) Update(_ context.Context, order *model.InventoryOrder) error {
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryOrder, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) FindByQuotationID(_ context.Context, quotationID uuid.UUID) (*model.InventoryOrder, error) {
	for _, o := range m.orders {
		if o.QuotationID == quotationID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memOrderRepo) List(_ context.Context, page, limit int, status string) ([]model.InventoryOrder, int64, error) {
	out := []model.InventoryOrder{}
	for _, o := range m.orders {
		if status != "" && o.Status != status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

// --- invoices ---

type memInvoiceRepo struct {
	invoices map[uuid.UUID]*model.Invoice
	advances map[uuid.UUID]*model.AdvanceInvoice

	// createErrs is consumed one per Create call, mimicking index violations
	createErrs []error
}

func newMemInvoiceRepo() *memInvoiceRepo {
	return &memInvoiceRepo{
		invoices: map[uuid.UUID]*model.Invoice{},
		advances: map[uuid.UUID]*model.AdvanceInvoice{},
	}
}

func (m *memInvoiceRepo) Create(_ context.Context, invoice *model.Invoice) error {
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if invoice.ID == uuid.Nil {
		invoice.ID = uuid.New()
	}
	invoice.CreatedAt = time.Now()
	cp := *invoice
	m.invoices[invoice.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoiceRepo) FindByJobID(_ context.Context, jobID uuid.UUID) (*model.Invoice, error) {
	for _, inv := range m.invoices {
		if inv.JobID == jobID {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memInvoiceRepo) List(_ context.Context, page, limit int) ([]model.Invoice, int64, error) {
	out := make([]model.Invoice, 0, len(m.invoices))
	for _, inv := range m.invoices {
		out = append(out, *inv)
	}
	return out, int64(len(out)), nil
}

func (m *memInvoiceRepo) CountByPrefix(_ context.Context, prefix string) (int64, error) {
	var count int64
	for _, inv := range m.invoices {
		if len(inv.InvoiceNo) >= len(prefix) && inv.InvoiceNo[:len(prefix)] == prefix {
			count++
		}
	}
	return count, nil
}

func (m *memInvoiceRepo) CreateAdvance(_ context.Context, advance *model.AdvanceInvoice) error {
	if advance.ID == uuid.Nil {
		advance.ID = uuid.New()
	}
	advance.CreatedAt = time.Now()
	cp := *advance
	m.advances[advance.ID] = &cp
	return nil
}

func (m *memInvoiceRepo) FindAdvanceByJobID(_ context.Context, jobID uuid.UUID) (*model.AdvanceInvoice, error) {
	for _, a := range m.advances {
		if a.JobID == jobID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memInvoiceRepo) ListAdvances(_ context.Context, page, limit int) ([]model.AdvanceInvoice, int64, error) {
	out := make([]model.AdvanceInvoice, 0, len(m.advances))
	for _, a := range m.advances {
		out = append(out, *a)
	}
	return out, int64(len(out)), nil
}
