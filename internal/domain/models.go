// Package domain defines the persistence models for rooms, tenants, leases,
// invoices, payments and the records that hang off them. These types are
// mapped with GORM and shared by the repository, service and worker layers.
//
// Identifiers are UUID strings (char(36)). Money is stored as integer minor
// currency units. Calendar dates (due dates, send dates) are midnight UTC
// values produced by the calendar package.
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RoomStatus is the occupancy state of a room.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomOccupied  RoomStatus = "OCCUPIED"
)

// Room is a rentable unit owned by a landlord. It is OCCUPIED exactly while
// an ACTIVE lease references it.
type Room struct {
	ID         string     `json:"id"          gorm:"type:char(36);primaryKey"`
	LandlordID string     `json:"landlord_id" gorm:"type:varchar(64);not null;index:idx_rooms_landlord"`
	Name       string     `json:"name"        gorm:"type:varchar(255);not null"`
	Status     RoomStatus `json:"status"      gorm:"type:varchar(16);not null;default:'AVAILABLE';check:status IN ('AVAILABLE','OCCUPIED')"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Room.
func (Room) TableName() string { return "rooms" }

// TenantProfile is the tenant-facing identity linked to a login account.
// Phone is E.164. WhatsAppOptIn gates every reminder rule.
type TenantProfile struct {
	ID            string    `json:"id"              gorm:"type:char(36);primaryKey"`
	LandlordID    string    `json:"landlord_id"     gorm:"type:varchar(64);not null;index"`
	UserID        string    `json:"user_id"         gorm:"type:varchar(64);not null;uniqueIndex"`
	DisplayName   string    `json:"display_name"    gorm:"type:varchar(255);not null"`
	Phone         string    `json:"phone"           gorm:"type:varchar(32)"`
	Email         string    `json:"email,omitempty" gorm:"type:varchar(255)"`
	WhatsAppOptIn bool      `json:"whatsapp_opt_in" gorm:"column:whatsapp_opt_in;not null;default:false"`
	Notes         string    `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for TenantProfile.
func (TenantProfile) TableName() string { return "tenant_profiles" }

// LeaseStatus is the lifecycle state of a lease.
type LeaseStatus string

const (
	LeaseActive LeaseStatus = "ACTIVE"
	LeaseEnded  LeaseStatus = "ENDED"
)

// Lease binds a tenant to one or more rooms for a monthly rent. RentAmount
// and BillingDay are copied into invoices at generation time; editing them
// later does not touch invoices that already exist.
type Lease struct {
	ID         string      `json:"id"                 gorm:"type:char(36);primaryKey"`
	LandlordID string      `json:"landlord_id"        gorm:"type:varchar(64);not null;index:idx_leases_landlord"`
	TenantID   string      `json:"tenant_id"          gorm:"type:char(36);not null;index"`
	StartDate  time.Time   `json:"start_date"         gorm:"not null"`
	EndDate    *time.Time  `json:"end_date,omitempty"`
	RentAmount int64       `json:"rent_amount"        gorm:"not null;check:rent_amount >= 0"`
	BillingDay int         `json:"billing_day"        gorm:"not null;check:billing_day BETWEEN 1 AND 31"`
	Status     LeaseStatus `json:"status"             gorm:"type:varchar(16);not null;default:'ACTIVE';index;check:status IN ('ACTIVE','ENDED')"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Rooms is loaded through lease_rooms by the repository.
	Rooms []Room `json:"rooms,omitempty" gorm:"-"`

	Tenant *TenantProfile `json:"-" gorm:"foreignKey:TenantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

// TableName returns the database table name for Lease.
func (Lease) TableName() string { return "leases" }

// LeaseRoom is the many-to-many link between leases and rooms. A room that
// is referenced by any lease, current or historical, cannot be deleted.
type LeaseRoom struct {
	LeaseID string `gorm:"type:char(36);primaryKey"`
	RoomID  string `gorm:"type:char(36);primaryKey;index"`

	Lease *Lease `gorm:"foreignKey:LeaseID;references:ID;constraint:OnDelete:CASCADE"`
	Room  *Room  `gorm:"foreignKey:RoomID;references:ID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the database table name for LeaseRoom.
func (LeaseRoom) TableName() string { return "lease_rooms" }

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	InvoicePending           InvoiceStatus = "PENDING"
	InvoiceOverdue           InvoiceStatus = "OVERDUE"
	InvoicePaymentProcessing InvoiceStatus = "PAYMENT_PROCESSING"
	InvoicePaid              InvoiceStatus = "PAID"
)

// Invoice is one month of rent owed under a lease. LandlordID is copied from
// the lease so list queries can scope without a join.
type Invoice struct {
	ID         string        `json:"id"                gorm:"type:char(36);primaryKey"`
	LeaseID    string        `json:"lease_id"          gorm:"type:char(36);not null;index:idx_invoices_lease_due,priority:1"`
	LandlordID string        `json:"landlord_id"       gorm:"type:varchar(64);not null;index"`
	DueDate    time.Time     `json:"due_date"          gorm:"not null;index:idx_invoices_lease_due,priority:2;index:idx_invoices_status_due,priority:2"`
	Amount     int64         `json:"amount"            gorm:"not null;check:amount >= 0"`
	Status     InvoiceStatus `json:"status"            gorm:"type:varchar(24);not null;default:'PENDING';index:idx_invoices_status_due,priority:1"`
	PaidAt     *time.Time    `json:"paid_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`

	Lease *Lease `json:"-" gorm:"foreignKey:LeaseID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Invoice.
func (Invoice) TableName() string { return "invoices" }

// Payment records the settlement of a PAID invoice. It exists iff the
// invoice is PAID.
type Payment struct {
	ID        string    `json:"id"             gorm:"type:char(36);primaryKey"`
	InvoiceID string    `json:"invoice_id"     gorm:"type:char(36);not null;uniqueIndex"`
	Amount    int64     `json:"amount"         gorm:"not null"`
	PaidDate  time.Time `json:"paid_date"      gorm:"not null"`
	Method    string    `json:"method"         gorm:"type:varchar(32);not null"`
	Note      *string   `json:"note,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	Invoice *Invoice `json:"-" gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Payment.
func (Payment) TableName() string { return "payments" }

// PaymentProof is a tenant's payment declaration awaiting review. It exists
// iff the invoice is PAYMENT_PROCESSING.
type PaymentProof struct {
	ID        string    `json:"id"              gorm:"type:char(36);primaryKey"`
	InvoiceID string    `json:"invoice_id"      gorm:"type:char(36);not null;uniqueIndex"`
	Method    string    `json:"method"          gorm:"type:varchar(32);not null"`
	Notes     *string   `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`

	Invoice *Invoice `json:"-" gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for PaymentProof.
func (PaymentProof) TableName() string { return "payment_proofs" }

// ExpenseStatus is the review state of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// Expense is a landlord cost, optionally attributed to a room.
type Expense struct {
	ID          string        `json:"id"                gorm:"type:char(36);primaryKey"`
	LandlordID  string        `json:"landlord_id"       gorm:"type:varchar(64);not null;index"`
	RoomID      *string       `json:"room_id,omitempty" gorm:"type:char(36);index"`
	Description string        `json:"description"       gorm:"type:text;not null"`
	Amount      int64         `json:"amount"            gorm:"not null;check:amount >= 0"`
	Date        time.Time     `json:"date"              gorm:"not null"`
	Category    string        `json:"category"          gorm:"type:varchar(64);not null"`
	Status      ExpenseStatus `json:"status"            gorm:"type:varchar(16);not null;default:'PENDING'"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Expense.
func (Expense) TableName() string { return "expenses" }

// MessageStatus is the state of an incident ticket.
type MessageStatus string

const (
	MessageOpen   MessageStatus = "OPEN"
	MessageClosed MessageStatus = "CLOSED"
)

// Message is an incident ticket opened by a tenant on a lease. The landlord
// may reply once; replying again overwrites the reply.
type Message struct {
	ID        string        `json:"id"                   gorm:"type:char(36);primaryKey"`
	LeaseID   string        `json:"lease_id"             gorm:"type:char(36);not null;index:idx_lease_msgs,priority:1"`
	TenantID  string        `json:"tenant_id"            gorm:"type:char(36);not null;index"`
	Content   string        `json:"content"              gorm:"type:text;not null"`
	Status    MessageStatus `json:"status"               gorm:"type:varchar(16);not null;default:'OPEN';check:status IN ('OPEN','CLOSED')"`
	Reply     *string       `json:"reply,omitempty"      gorm:"type:text"`
	RepliedAt *time.Time    `json:"replied_at,omitempty"`
	CreatedAt time.Time     `json:"created_at"           gorm:"index:idx_lease_msgs,priority:2"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// NotificationType identifies a reminder rule.
type NotificationType string

const (
	NotifyThreeDaysBefore      NotificationType = "THREE_DAYS_BEFORE"
	NotifyDueToday             NotificationType = "DUE_TODAY"
	NotifyWeeklyOverdueSummary NotificationType = "WEEKLY_OVERDUE_SUMMARY"
)

// DeliveryStatus is the outcome of one delivery attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "SENT"
	DeliveryFailed DeliveryStatus = "FAILED"
)

// NotificationLog is the durable record of a reminder delivery attempt.
//
// (SubjectKey, Type, SendDate) is unique. SubjectKey is "invoice:<id>" for
// invoice-scoped rules and "lease:<id>" for lease-scoped rules, so the key is
// never NULL and the index holds on every driver.
type NotificationLog struct {
	ID                string           `json:"id"                            gorm:"type:char(36);primaryKey"`
	InvoiceID         *string          `json:"invoice_id,omitempty"          gorm:"type:char(36);index"`
	LeaseID           *string          `json:"lease_id,omitempty"            gorm:"type:char(36);index"`
	SubjectKey        string           `json:"subject_key"                   gorm:"type:varchar(80);not null;uniqueIndex:ux_notification_key,priority:1"`
	Type              NotificationType `json:"type"                          gorm:"type:varchar(32);not null;uniqueIndex:ux_notification_key,priority:2"`
	SendDate          time.Time        `json:"send_date"                     gorm:"not null;uniqueIndex:ux_notification_key,priority:3"`
	Channel           string           `json:"channel"                       gorm:"type:varchar(16);not null"`
	To                string           `json:"to_phone"                      gorm:"column:to_phone;type:varchar(255);not null"`
	Payload           datatypes.JSON   `json:"payload"`
	Status            DeliveryStatus   `json:"status"                        gorm:"type:varchar(16);not null;check:status IN ('SENT','FAILED')"`
	Error             *string          `json:"error,omitempty"               gorm:"type:text"`
	ProviderMessageID *string          `json:"provider_message_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt         time.Time        `json:"created_at"`
}

// TableName returns the database table name for NotificationLog.
func (NotificationLog) TableName() string { return "notification_logs" }

// InvoiceSubject returns the idempotency subject for an invoice-scoped rule.
func InvoiceSubject(invoiceID string) string { return "invoice:" + invoiceID }

// LeaseSubject returns the idempotency subject for a lease-scoped rule.
func LeaseSubject(leaseID string) string { return "lease:" + leaseID }
