package repository

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"tourbook/internal/logger"
	"tourbook/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var tourColumns = []string{
	"id", "name", "destination_id", "location", "price", "date", "max_people", "duration",
	"description", "services", "created_at", "dest_id", "dest_name", "dest_image_url", "dest_created_at",
}

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

func TestTourFindAllWithDestinationFilter(t *testing.T) {
	db, mock := newMock(t)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	goaID, tourID, orphanID := uuid.New(), uuid.New(), uuid.New()

	rows := sqlmock.NewRows(tourColumns).
		AddRow(tourID.String(), "Goa Beach Escape", goaID.String(), "Calangute", "₹1,200", now, int64(5), int64(3),
			"Sun and sand", "{Guide,Breakfast}", now, goaID.String(), "Goa", "goa.jpg", now).
		AddRow(orphanID.String(), "Manali Trek", nil, "", "4500.00", now, int64(8), int64(0),
			"", nil, now.Add(-time.Hour), nil, nil, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN destinations d ON d.id = t.destination_id AND d.name ILIKE $1 ORDER BY t.created_at DESC")).
		WithArgs("%goa%").
		WillReturnRows(rows)

	tours, err := NewTourRepository(db).FindAll(context.Background(), "Goa")
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(tours) != 2 {
		t.Fatalf("got %d tours, want 2", len(tours))
	}
	goa := tours[0]
	if goa.ID != tourID || goa.DestinationName() != "Goa" || goa.Price != "₹1,200" || goa.MaxPeople != 5 {
		t.Fatalf("unexpected first tour %+v", goa)
	}
	if len(goa.Services) != 2 || goa.Services[1] != "Breakfast" {
		t.Fatalf("services = %v", goa.Services)
	}
	if tours[1].Destination != nil || tours[1].DestinationID != nil {
		t.Fatalf("orphan tour should have no destination: %+v", tours[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTourFindAllWithoutFilter(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN destinations d ON d.id = t.destination_id ORDER BY t.created_at DESC")).
		WithArgs().
		WillReturnRows(sqlmock.NewRows(tourColumns))

	tours, err := NewTourRepository(db).FindAll(context.Background(), "")
	if err != nil || len(tours) != 0 {
		t.Fatalf("FindAll = %v, %v", tours, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTourFindAllError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery("FROM tours t").WillReturnError(boom)

	if _, err := NewTourRepository(db).FindAll(context.Background(), ""); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}

func TestTourGetByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE t.id=$1")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows(tourColumns))

	if _, err := NewTourRepository(db).GetByID(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDestinationFindAll(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM destinations ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "image_url", "created_at"}).
			AddRow(uuid.NewString(), "Goa", "goa.jpg", now).
			AddRow(uuid.NewString(), "Kerala", "", now))

	dests, err := NewDestinationRepository(db).FindAll(context.Background())
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(dests) != 2 || dests[1].Name != "Kerala" {
		t.Fatalf("got %+v", dests)
	}
}

func TestStoreCreateBooking(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	b := &model.Booking{
		TourID:         uuid.New(),
		UserID:         uuid.New(),
		LeaderName:     "Asha",
		Email:          "asha@example.com",
		Phone:          "98200",
		NumberOfPeople: 3,
		TotalCost:      3600,
		Status:         model.StatusPending,
		CreatedAt:      time.Now(),
	}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "Asha", "asha@example.com", "98200", 3, 3600.0, "pending", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))

	if err := NewStore(db).CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.ID != id {
		t.Fatalf("id = %s, want %s", b.ID, id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestStoreCreateBookingFailure(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(errors.New(`violates foreign key constraint "bookings_tour_id_fkey"`))

	err := NewStore(db).CreateBooking(context.Background(), &model.Booking{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBookingGetByID(t *testing.T) {
	db, mock := newMock(t)
	id := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id=$1")).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tour_id", "user_id", "leader_name", "email", "phone",
			"number_of_people", "total_cost", "status", "created_at"}).
			AddRow(id.String(), uuid.NewString(), uuid.NewString(), "Asha", "a@b.c", "1", int64(2), 2400.0, "pending", time.Now()))

	b, err := NewBookingRepository(db).GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if b.ID != id || b.NumberOfPeople != 2 || b.TotalCost != 2400 {
		t.Fatalf("got %+v", b)
	}
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("CREATE TABLE a (id int);"), 0o644)
	os.WriteFile(filepath.Join(dir, "002_broken.sql"), []byte("CREATE TABLE b (;"), 0o644)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE a")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	if n := Migrate(db, dir, logger.Discard()); n != 1 {
		t.Fatalf("applied %d migrations, want 1", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestMigrateReportsRollbackFailure(t *testing.T) {
	db, mock := newMock(t)
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "001_broken.sql"), []byte("CREATE TABLE b (;"), 0o644)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE b")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback().WillReturnError(errors.New("connection reset"))

	var buf bytes.Buffer
	if n := Migrate(db, dir, logger.NewWithWriter(&buf, "info")); n != 0 {
		t.Fatalf("applied %d migrations, want 0", n)
	}
	out := buf.String()
	if !strings.Contains(out, "syntax error") || !strings.Contains(out, "connection reset") {
		t.Fatalf("log should carry both errors: %s", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
