package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/juanmanuelcanocamacho/Rent-Manager-sub000/internal/domain"
)

func TestRoomService_CreateValidation(t *testing.T) {
	svc := &RoomService{DB: newSvcDB(t)}
	ctx := context.Background()

	if _, err := svc.Create(ctx, "l1", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, "l1", strings.Repeat("x", 256)); !errors.Is(err, ErrTooLong) {
		t.Fatalf("expected ErrTooLong, got %v", err)
	}
	r, err := svc.Create(ctx, "l1", "  Attic ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Name != "Attic" || r.Status != domain.RoomAvailable {
		t.Fatalf("room = %+v", r)
	}
}

func TestRoomService_Delete_InUseGuard(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	svc := &RoomService{DB: db}
	clock := clockAt(2025, time.June, 1)
	l, _ := seedActiveLease(t, db, clock, "l1", date(2025, time.June, 1), 1, 1)
	free := seedRooms(t, db, "l1", "Spare")

	if err := svc.Delete(ctx, "l1", l.Rooms[0].ID); !errors.Is(err, ErrRoomInUse) {
		t.Fatalf("expected ErrRoomInUse, got %v", err)
	}
	// Ended leases still reference the room.
	if _, err := NewLeaseService(db, clock).End(ctx, "l1", l.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := svc.Delete(ctx, "l1", l.Rooms[0].ID); !errors.Is(err, ErrRoomInUse) {
		t.Fatalf("ended lease: expected ErrRoomInUse, got %v", err)
	}

	if err := svc.Delete(ctx, "l2", free[0]); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("foreign: expected ErrRoomNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, "l1", free[0]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	rooms, _ := svc.List(ctx, "l1")
	if len(rooms) != 1 {
		t.Fatalf("rooms left = %d, want 1", len(rooms))
	}
}

func TestTenantService_Balance(t *testing.T) {
	db := newSvcDB(t)
	ctx := context.Background()
	clock := clockAt(2025, time.June, 1)
	_, tp := seedActiveLease(t, db, clock, "l1", date(2025, time.March, 1), 1, 4)

	// Apr 1 and May 1 are OVERDUE, Jun 1 and Jul 1 PENDING.
	inv := NewInvoiceService(db, clock)
	invs, _ := inv.ListForTenant(ctx, tp.ID)
	if len(invs) != 4 {
		t.Fatalf("invoices = %d", len(invs))
	}
	if _, err := inv.MarkPaid(ctx, "l1", invs[0].ID, MarkPaidInput{Method: "cash"}); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if _, err := inv.DeclarePayment(ctx, tp.ID, invs[1].ID, DeclareInput{Method: "cash"}); err != nil {
		t.Fatalf("Declare: %v", err)
	}

	b, err := (&TenantService{DB: db}).Balance(ctx, tp.ID)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if b.Paid != 35000 || b.Processing != 35000 || b.Overdue != 0 || b.Outstanding != 3*35000 || b.OpenCount != 3 {
		t.Fatalf("balance = %+v", b)
	}
	if b.NextDueDate == nil || !b.NextDueDate.Equal(date(2025, time.June, 1)) {
		t.Fatalf("next due = %v", b.NextDueDate)
	}
}

func TestTenantService_CreateProfile_DuplicateUser(t *testing.T) {
	svc := &TenantService{DB: newSvcDB(t)}
	ctx := context.Background()
	in := CreateProfileInput{LandlordID: "l1", UserID: "u1", DisplayName: "Ana"}

	if _, err := svc.CreateProfile(ctx, in); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := svc.CreateProfile(ctx, in); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if _, err := svc.CreateProfile(ctx, CreateProfileInput{LandlordID: "l1", UserID: "u2"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
