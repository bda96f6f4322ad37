package service

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "legacy_backend/internals/features/registrations/model"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

// expectStatusWrite: satu siklus update registrasi + payment log di dalam
// transaksi, pola yang sama untuk semua jalur applyGatewayStatus.
func expectStatusWrite(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "registrations"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "payment_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"payment_log_id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()
}

/* =======================================================================
   Replay / idempotensi status terminal
======================================================================= */

// Settlement datang dua kali: registrasi sudah paid, status dan paid_at
// tidak boleh berubah, tapi referensi gateway tetap di-refresh dan payment
// log tetap bertambah.
func TestNotifikasiUlangStatusTerminal(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &RegistrationService{DB: db, ServerKey: testServerKey}

	paidAt := time.Date(2025, 8, 28, 10, 0, 0, 0, time.UTC)
	orderID := "ORDER-a1b2c3d4-1756382400000"
	reg := &model.Registration{
		RegistrationID:            uuid.New(),
		RegistrationCode:          "REG-1756382400000-a1b2c3d4",
		RegistrationProgramID:     uuid.New(),
		RegistrationPaymentStatus: model.PaymentStatusPaid,
		RegistrationOrderID:       &orderID,
		RegistrationPaidAt:        &paidAt,
	}

	expectStatusWrite(mock)

	n := validNotification() // settlement
	res, err := svc.applyGatewayStatus(context.Background(), reg, MapPaymentStatus(n.TransactionStatus, n.FraudStatus), n, "notification")
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, model.PaymentStatusPaid, res.FromStatus)
	assert.Equal(t, model.PaymentStatusPaid, res.ToStatus)
	assert.Equal(t, model.PaymentStatusPaid, reg.RegistrationPaymentStatus)
	require.NotNil(t, reg.RegistrationPaidAt)
	assert.Equal(t, paidAt, *reg.RegistrationPaidAt) // tidak ditimpa
	require.NotNil(t, reg.RegistrationTransactionID)
	assert.Equal(t, "trx-123", *reg.RegistrationTransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Settlement terlambat setelah registrasi gagal: failed itu terminal,
// tidak boleh "dihidupkan" jadi paid.
func TestNotifikasiSettlementSetelahGagal(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &RegistrationService{DB: db, ServerKey: testServerKey}

	orderID := "ORDER-a1b2c3d4-1756382400000"
	reg := &model.Registration{
		RegistrationID:            uuid.New(),
		RegistrationCode:          "REG-1756382400000-a1b2c3d4",
		RegistrationProgramID:     uuid.New(),
		RegistrationPaymentStatus: model.PaymentStatusFailed,
		RegistrationOrderID:       &orderID,
	}

	expectStatusWrite(mock)

	n := validNotification()
	res, err := svc.applyGatewayStatus(context.Background(), reg, MapPaymentStatus(n.TransactionStatus, n.FraudStatus), n, "notification")
	require.NoError(t, err)

	assert.False(t, res.Changed)
	assert.Equal(t, model.PaymentStatusFailed, reg.RegistrationPaymentStatus)
	assert.Nil(t, reg.RegistrationPaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Jalur transisi biasa pending → failed (expire): state pindah dan
// tercatat di hasil.
func TestNotifikasiExpireDariPending(t *testing.T) {
	db, mock := newMockDB(t)
	svc := &RegistrationService{DB: db, ServerKey: testServerKey}

	orderID := "ORDER-a1b2c3d4-1756382400000"
	reg := &model.Registration{
		RegistrationID:            uuid.New(),
		RegistrationCode:          "REG-1756382400000-a1b2c3d4",
		RegistrationProgramID:     uuid.New(),
		RegistrationPaymentStatus: model.PaymentStatusPending,
		RegistrationOrderID:       &orderID,
	}

	expectStatusWrite(mock)

	n := validNotification()
	n.TransactionStatus = "expire"
	n.SignatureKey = ComputeSignature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)

	res, err := svc.applyGatewayStatus(context.Background(), reg, MapPaymentStatus(n.TransactionStatus, n.FraudStatus), n, "notification")
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.Equal(t, model.PaymentStatusPending, res.FromStatus)
	assert.Equal(t, model.PaymentStatusFailed, res.ToStatus)
	assert.Nil(t, reg.RegistrationPaidAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
