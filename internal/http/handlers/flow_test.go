package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm/logger"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/calendar"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/http/middleware"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/repo"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/services"
	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/worker"
)

// movableClock lets a test advance the business date between requests.
type movableClock struct{ t time.Time }

func (c *movableClock) Now() time.Time { return c.t }

// realHandlers wires every handler to the real services over a throwaway
// SQLite file.
func realHandlers(t *testing.T, clock calendar.Clock) *Handlers {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Logger = logger.Default.LogMode(logger.Silent)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return New(Services{
		Rooms:        &services.RoomService{DB: db},
		Tenants:      &services.TenantService{DB: db},
		Leases:       services.NewLeaseService(db, clock),
		Invoices:     services.NewInvoiceService(db, clock),
		Messages:     &services.MessageService{DB: db, MaxContentRunes: 2000},
		Expenses:     &services.ExpenseService{DB: db},
		Overdue:      &worker.OverdueJob{DB: db, Clock: clock},
		WorkerSecret: "s3cret",
		Today:        func() time.Time { return calendar.Today(clock) },
	})
}

func TestRentalFlow(t *testing.T) {
	clock := &movableClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	r := testRouter(realHandlers(t, clock))
	l1 := asLandlord("landlord-1")
	const rent = 45000

	// Setup: tenant and two rooms.
	w := do(r, http.MethodPost, "/tenants", `{"user_id":"u-1","display_name":"Lucía","phone":"+34600111222","whatsapp_opt_in":true}`, l1...)
	if w.Code != http.StatusCreated {
		t.Fatalf("tenant -> %d %s", w.Code, w.Body.String())
	}
	tenant := decode[domain.TenantProfile](t, w)

	if w := do(r, http.MethodPost, "/tenants", `{"user_id":"u-2","display_name":"Bad","phone":"600111222"}`, l1...); w.Code != http.StatusBadRequest {
		t.Fatalf("non-E.164 phone -> %d", w.Code)
	}

	var roomIDs []string
	for _, name := range []string{"Room 1", "Room 2"} {
		w := do(r, http.MethodPost, "/rooms", fmt.Sprintf(`{"name":%q}`, name), l1...)
		if w.Code != http.StatusCreated {
			t.Fatalf("room -> %d %s", w.Code, w.Body.String())
		}
		roomIDs = append(roomIDs, decode[domain.Room](t, w).ID)
	}

	// Lease creation with replay.
	body := fmt.Sprintf(`{"tenant_id":%q,"room_ids":[%q,%q],"start_date":"2025-01-15","rent_amount":%d,"billing_day":5}`,
		tenant.ID, roomIDs[0], roomIDs[1], rent)
	withKey := append(append([]string{}, l1...), middleware.HeaderIdempotencyKey, "lease-create-1")
	w = do(r, http.MethodPost, "/leases", body, withKey...)
	if w.Code != http.StatusCreated {
		t.Fatalf("lease -> %d %s", w.Code, w.Body.String())
	}
	lease := decode[domain.Lease](t, w)

	w = do(r, http.MethodPost, "/leases", body, withKey...)
	if w.Code != http.StatusOK || w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" || decode[domain.Lease](t, w).ID != lease.ID {
		t.Fatalf("replay -> %d %s", w.Code, w.Body.String())
	}

	// Rooms are now occupied.
	w = do(r, http.MethodPost, "/leases", body, l1...)
	if w.Code != http.StatusConflict || decode[ErrorResponse](t, w).Code != ErrCodeRoomUnavailable {
		t.Fatalf("double booking -> %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodDelete, "/rooms/"+roomIDs[0], "", l1...); w.Code != http.StatusConflict {
		t.Fatalf("delete occupied room -> %d", w.Code)
	}

	// Other landlords see nothing.
	if w := do(r, http.MethodGet, "/leases/"+lease.ID, "", asLandlord("landlord-2")...); w.Code != http.StatusNotFound {
		t.Fatalf("cross-landlord get -> %d", w.Code)
	}

	// Feb 5 and Mar 5 were already due on Mar 10.
	w = do(r, http.MethodGet, "/invoices?status=OVERDUE", "", l1...)
	overdue := decode[ListInvoicesResponse](t, w)
	if overdue.Pagination.Total != 2 || len(overdue.Invoices) != 2 {
		t.Fatalf("overdue invoices: %+v", overdue.Pagination)
	}
	feb := overdue.Invoices[0]
	if calendar.Format(feb.DueDate) != "2025-02-05" {
		t.Fatalf("first overdue due %s", calendar.Format(feb.DueDate))
	}
	if w := do(r, http.MethodGet, "/invoices", "", l1...); decode[ListInvoicesResponse](t, w).Pagination.Total != 12 {
		t.Fatalf("schedule size: %s", w.Body.String())
	}

	// Tenant declares, landlord approves.
	tn := asTenant(tenant.ID)
	w = do(r, http.MethodPost, "/tenant/invoices/"+feb.ID+"/declare", `{"method":"bizum","notes":"ref 42"}`, tn...)
	if w.Code != http.StatusOK || decode[domain.Invoice](t, w).Status != domain.InvoicePaymentProcessing {
		t.Fatalf("declare -> %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/tenant/invoices/"+feb.ID+"/declare", `{"method":"BIZUM"}`, tn...); w.Code != http.StatusConflict {
		t.Fatalf("second declare -> %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/tenant/invoices/"+feb.ID+"/declare", `{"method":"BIZUM"}`, asTenant("someone-else")...); w.Code != http.StatusNotFound {
		t.Fatalf("foreign declare -> %d", w.Code)
	}
	w = do(r, http.MethodPost, "/invoices/"+feb.ID+"/approve", "", l1...)
	if w.Code != http.StatusOK || decode[domain.Invoice](t, w).Status != domain.InvoicePaid {
		t.Fatalf("approve -> %d %s", w.Code, w.Body.String())
	}

	w = do(r, http.MethodGet, "/tenant/balance", "", tn...)
	bal := decode[services.Balance](t, w)
	if bal.Paid != rent || bal.Overdue != rent || bal.Outstanding != 11*rent || bal.OpenCount != 11 {
		t.Fatalf("balance: %+v", bal)
	}

	// Next month: the sweep promotes April.
	clock.t = time.Date(2025, 4, 6, 7, 0, 0, 0, time.UTC)
	w = do(r, http.MethodPost, "/worker/recompute-overdue", "", worker.SecretHeader, "s3cret")
	res := decode[worker.RecomputeResponse](t, w)
	if !res.Success || res.Updated != 1 || res.DateUsed != "2025-04-06" {
		t.Fatalf("recompute: %+v", res)
	}
	w = do(r, http.MethodPost, "/worker/recompute-overdue", "", worker.SecretHeader, "s3cret")
	if res := decode[worker.RecomputeResponse](t, w); res.Updated != 0 {
		t.Fatalf("second sweep updated %d", res.Updated)
	}

	// Incidents.
	w = do(r, http.MethodPost, "/tenant/leases/"+lease.ID+"/messages", `{"content":"Heating is off"}`, tn...)
	if w.Code != http.StatusCreated {
		t.Fatalf("open incident -> %d %s", w.Code, w.Body.String())
	}
	msg := decode[domain.Message](t, w)
	if w := do(r, http.MethodPost, "/tenant/leases/"+lease.ID+"/messages", `{"content":"   "}`, tn...); w.Code != http.StatusBadRequest {
		t.Fatalf("blank incident -> %d", w.Code)
	}
	w = do(r, http.MethodPost, "/messages/"+msg.ID+"/reply", `{"reply":"Technician tomorrow"}`, l1...)
	if w.Code != http.StatusOK || decode[domain.Message](t, w).RepliedAt == nil {
		t.Fatalf("reply -> %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, "/messages/"+msg.ID+"/close", "", l1...); w.Code != http.StatusNoContent {
		t.Fatalf("close -> %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/messages/"+msg.ID+"/close", "", l1...); w.Code != http.StatusConflict {
		t.Fatalf("close twice -> %d", w.Code)
	}

	// Expenses.
	w = do(r, http.MethodPost, "/expenses", fmt.Sprintf(`{"room_id":%q,"description":"New tap","amount":8950,"category":"repairs"}`, roomIDs[1]), l1...)
	if w.Code != http.StatusCreated {
		t.Fatalf("expense -> %d %s", w.Code, w.Body.String())
	}
	exp := decode[domain.Expense](t, w)
	if !exp.Date.Equal(time.Date(2025, 4, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expense date default = %v", exp.Date)
	}
	if w := do(r, http.MethodPost, "/expenses/"+exp.ID+"/approve", "", l1...); w.Code != http.StatusOK {
		t.Fatalf("approve expense -> %d", w.Code)
	}
	if w := do(r, http.MethodPost, "/expenses/"+exp.ID+"/reject", "", l1...); w.Code != http.StatusConflict {
		t.Fatalf("reject approved expense -> %d", w.Code)
	}

	// Ending the lease frees the rooms.
	w = do(r, http.MethodPost, "/leases/"+lease.ID+"/end", "", l1...)
	if w.Code != http.StatusOK || decode[domain.Lease](t, w).Status != domain.LeaseEnded {
		t.Fatalf("end -> %d %s", w.Code, w.Body.String())
	}
	w = do(r, http.MethodGet, "/rooms", "", l1...)
	for _, room := range decode[ListRoomsResponse](t, w).Rooms {
		if room.Status != domain.RoomAvailable {
			t.Fatalf("room %s still %s", room.Name, room.Status)
		}
	}
	// Historical reference still blocks deletion.
	if w := do(r, http.MethodDelete, "/rooms/"+roomIDs[0], "", l1...); w.Code != http.StatusConflict {
		t.Fatalf("delete referenced room -> %d", w.Code)
	}
}
