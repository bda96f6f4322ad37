package service

import (
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "legacy_backend/internals/features/referrals/model"
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

/* =======================================================================
   ApplyTx — guarded UPDATE + riwayat
======================================================================= */

func TestApplyTxMencatatRiwayat(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReferralService(db)

	rc := &model.ReferralCode{
		ReferralCodeID:   uuid.New(),
		ReferralCodeCode: "WELCOME10",
	}
	regID := uuid.New()

	mock.ExpectExec(`UPDATE referral_codes`).
		WithArgs(rc.ReferralCodeID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "referral_usage_histories"`).
		WillReturnRows(sqlmock.NewRows([]string{"referral_usage_id"}).AddRow(uuid.NewString()))

	assert.NoError(t, svc.ApplyTx(db, rc, regID, 100_000))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Request lain keburu memakai slot terakhir: guarded UPDATE tidak mengenai
// baris apa pun, dan riwayat TIDAK boleh ditulis.
func TestApplyTxKuotaHabis(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReferralService(db)

	rc := &model.ReferralCode{
		ReferralCodeID:   uuid.New(),
		ReferralCodeCode: "WELCOME10",
	}

	mock.ExpectExec(`UPDATE referral_codes`).
		WithArgs(rc.ReferralCodeID.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := svc.ApplyTx(db, rc, uuid.New(), 100_000)
	assert.ErrorIs(t, err, ErrUsageLimitExceeded)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/* =======================================================================
   ReverseTx — kompensasi pembatalan
======================================================================= */

func TestReverseTxKompensasi(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReferralService(db)

	codeID := uuid.New()
	regID := uuid.New()

	histories := sqlmock.NewRows([]string{
		"referral_usage_id", "referral_usage_code_id", "referral_usage_code",
		"referral_usage_registration_id", "referral_usage_discount_idr", "referral_usage_created_at",
	}).
		AddRow(uuid.NewString(), codeID.String(), "WELCOME10", regID.String(), 100_000, time.Now()).
		AddRow(uuid.NewString(), codeID.String(), "WELCOME10", regID.String(), 100_000, time.Now())

	mock.ExpectQuery(`SELECT \* FROM "referral_usage_histories"`).
		WithArgs(regID.String()).
		WillReturnRows(histories)
	// dua pemakaian kode yang sama → used_count turun 2 dalam satu UPDATE
	mock.ExpectExec(`UPDATE referral_codes`).
		WithArgs(2, codeID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "referral_usage_histories"`).
		WithArgs(regID.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, svc.ReverseTx(db, regID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Registrasi tanpa riwayat referral: tidak ada UPDATE/DELETE susulan.
func TestReverseTxTanpaRiwayat(t *testing.T) {
	db, mock := newMockDB(t)
	svc := NewReferralService(db)

	regID := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "referral_usage_histories"`).
		WithArgs(regID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"referral_usage_id"}))

	assert.NoError(t, svc.ReverseTx(db, regID))
	assert.NoError(t, mock.ExpectationsWereMet())
}
