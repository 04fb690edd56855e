package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// BookingRecord is the durable trace of one confirmed booking.  It is
// written after the operator accepted the submission, so the operator's
// booking id and PNR are always present.
//
// Fields:
//  BookingID   – operator-issued booking identifier.
//  PNR         – passenger name record code printed on the ticket.
//  SessionID   – the wizard session that produced the booking.
//  BusID       – the bus booked.
//  SeatNumbers – display labels of the booked seats.
//  TotalFare   – fare charged for the whole booking.
//  Contact     – phone number of the booking contact.
//  CreatedAt   – confirmation timestamp (set by the database).
type BookingRecord struct {
	BookingID   string
	PNR         string
	SessionID   string
	BusID       string
	SeatNumbers []string
	TotalFare   float64
	Contact     string
	CreatedAt   time.Time
}

// BookingRepo records confirmed bookings.  Expected schema:
//
//   CREATE TABLE bookings (
//     booking_id  VARCHAR(64) PRIMARY KEY,
//     pnr         VARCHAR(32) NOT NULL,
//     session_id  VARCHAR(64) NOT NULL,
//     bus_id      VARCHAR(64) NOT NULL,
//     seat_numbers VARCHAR(255) NOT NULL,
//     total_fare  DECIMAL(10,2) NOT NULL,
//     contact     VARCHAR(20) NOT NULL,
//     created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
//   );
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the provided database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a booking record.  Re-inserting the same booking id is a
// no-op so a crash between submit and insert retried by the caller cannot
// duplicate rows.
func (r *BookingRepo) Create(ctx context.Context, rec BookingRecord) error {
	const q = `INSERT IGNORE INTO bookings
               (booking_id, pnr, session_id, bus_id, seat_numbers, total_fare, contact)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		rec.BookingID, rec.PNR, rec.SessionID, rec.BusID,
		strings.Join(rec.SeatNumbers, ","), rec.TotalFare, rec.Contact)
	return err
}

// GetByPNR loads a booking record by its PNR code.
func (r *BookingRepo) GetByPNR(ctx context.Context, pnr string) (BookingRecord, error) {
	const q = `SELECT booking_id, pnr, session_id, bus_id, seat_numbers, total_fare, contact, created_at
               FROM bookings WHERE pnr = ?`
	var rec BookingRecord
	var seats string
	err := r.db.QueryRowContext(ctx, q, pnr).Scan(
		&rec.BookingID, &rec.PNR, &rec.SessionID, &rec.BusID,
		&seats, &rec.TotalFare, &rec.Contact, &rec.CreatedAt)
	if err != nil {
		return BookingRecord{}, err
	}
	if seats != "" {
		rec.SeatNumbers = strings.Split(seats, ",")
	}
	return rec, nil
}
