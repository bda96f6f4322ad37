// file: internals/features/registrations/service/reconcile.go
package service

import (
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	model "legacy_backend/internals/features/registrations/model"
)

/* =======================================================================
   Notification payload (vocabulary Midtrans)
======================================================================= */

type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, failure
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"` // accept / challenge / deny
	TransactionID     string `json:"transaction_id"`
	SettlementTime    string `json:"settlement_time"`
	// field lain aman diabaikan
}

var ErrInvalidSignature = errors.New("invalid signature")

/* =======================================================================
   Signature — SHA512(order_id + status_code + gross_amount + server_key)
======================================================================= */

func ComputeSignature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

// VerifySignature membandingkan signature kiriman gateway dengan hasil
// hitung ulang, constant-time. Case-sensitive exact match.
func VerifySignature(n *Notification, serverKey string) bool {
	if n.SignatureKey == "" {
		return false
	}
	want := ComputeSignature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) == 1
}

/* =======================================================================
   Status mapping — tabel tetap, vocabulary gateway → status internal
======================================================================= */

func MapPaymentStatus(transactionStatus, fraudStatus string) string {
	ts := strings.ToLower(transactionStatus)
	fraud := strings.ToLower(fraudStatus)

	switch ts {
	case "capture":
		if fraud == "accept" {
			return model.PaymentStatusPaid
		}
		return model.PaymentStatusPending // challenge dkk: tunggu notifikasi berikutnya

	case "settlement":
		return model.PaymentStatusPaid

	case "pending":
		return model.PaymentStatusPending

	case "deny", "cancel", "expire", "failure":
		return model.PaymentStatusFailed
	}

	// status tak dikenal: jangan pindahkan state
	return model.PaymentStatusPending
}

/* =======================================================================
   Webhook handler
======================================================================= */

type ReconcileResult struct {
	RegistrationCode string `json:"registration_code,omitempty"`
	OrderID          string `json:"order_id"`
	FromStatus       string `json:"from_status,omitempty"`
	ToStatus         string `json:"to_status,omitempty"`
	Changed          bool   `json:"changed"`
}

// HandleNotification memproses satu notifikasi gateway:
// verifikasi signature → map status → update idempotent → payment log →
// email konfirmasi async saat transisi ke paid.
//
// ErrInvalidSignature = tolak tanpa menulis apa pun. Error lain tetap
// dicatat di payment log supaya bisa di-replay saat investigasi.
func (s *RegistrationService) HandleNotification(ctx context.Context, n *Notification) (*ReconcileResult, error) {
	if !VerifySignature(n, s.ServerKey) {
		return nil, ErrInvalidSignature
	}

	newStatus := MapPaymentStatus(n.TransactionStatus, n.FraudStatus)

	var reg model.Registration
	if err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_order_id = ?", n.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Bug integrasi atau replay order asing: catat, jangan diam-diam drop
			s.logOrphanNotification(ctx, n)
			return nil, fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("registrasi untuk order %s tidak ditemukan", n.OrderID))
		}
		return nil, err
	}

	return s.applyGatewayStatus(ctx, &reg, newStatus, n, "notification")
}

// SyncPaymentStatus: jalur manual — tanya gateway, lalu lewati pipeline
// update yang sama dengan webhook.
func (s *RegistrationService) SyncPaymentStatus(ctx context.Context, registrationCode string) (*ReconcileResult, error) {
	var reg model.Registration
	if err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_code = ?", registrationCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "registrasi tidak ditemukan")
		}
		return nil, err
	}
	if reg.RegistrationOrderID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "registrasi belum punya sesi pembayaran")
	}

	status, err := s.Gateway.QueryStatus(*reg.RegistrationOrderID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadGateway, "payment gateway error: "+err.Error())
	}

	newStatus := MapPaymentStatus(status.TransactionStatus, status.FraudStatus)
	n := &Notification{
		OrderID:           status.OrderID,
		TransactionStatus: status.TransactionStatus,
		FraudStatus:       status.FraudStatus,
		TransactionID:     status.TransactionID,
		PaymentType:       status.PaymentType,
		StatusCode:        status.StatusCode,
		GrossAmount:       status.GrossAmount,
	}
	return s.applyGatewayStatus(ctx, &reg, newStatus, n, "manual_sync")
}

/* =======================================================================
   Core transition
======================================================================= */

// applyGatewayStatus menerapkan status baru secara idempotent:
// - status terminal tidak pernah ditransisikan lagi (replay = no-op write)
// - paid_at hanya di-set saat transisi pending → paid
// - ledger referral TIDAK pernah disentuh di sini
// - payment log selalu ditulis, berubah ataupun tidak
func (s *RegistrationService) applyGatewayStatus(ctx context.Context, reg *model.Registration, newStatus string, n *Notification, event string) (*ReconcileResult, error) {
	from := reg.RegistrationPaymentStatus
	transitioned := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !model.IsTerminalStatus(from) && newStatus != from {
			reg.RegistrationPaymentStatus = newStatus
			transitioned = true

			if newStatus == model.PaymentStatusPaid && reg.RegistrationPaidAt == nil {
				now := time.Now()
				reg.RegistrationPaidAt = &now
			}
		}

		// referensi gateway selalu diperbarui
		if n.TransactionID != "" {
			reg.RegistrationTransactionID = &n.TransactionID
		}
		if n.PaymentType != "" {
			reg.RegistrationPaymentType = &n.PaymentType
		}

		if err := tx.Save(reg).Error; err != nil {
			return err
		}

		to := reg.RegistrationPaymentStatus
		logEntry := &model.PaymentLog{
			PaymentLogRegistrationID:    &reg.RegistrationID,
			PaymentLogOrderID:           n.OrderID,
			PaymentLogEvent:             event,
			PaymentLogFromStatus:        &from,
			PaymentLogToStatus:          &to,
			PaymentLogTransactionStatus: nonEmptyPtr(n.TransactionStatus),
			PaymentLogFraudStatus:       nonEmptyPtr(n.FraudStatus),
			PaymentLogPaymentType:       nonEmptyPtr(n.PaymentType),
		}
		if raw := marshalNotification(n); raw != nil {
			logEntry.PaymentLogPayload = raw
		}
		return tx.Create(logEntry).Error
	})
	if err != nil {
		return nil, err
	}

	// Email konfirmasi hanya pada transisi ke paid, async, tidak pernah
	// menggagalkan update pembayaran.
	if transitioned && reg.RegistrationPaymentStatus == model.PaymentStatusPaid {
		regCopy := *reg
		go s.sendConfirmationEmails(&regCopy)
	}

	return &ReconcileResult{
		RegistrationCode: reg.RegistrationCode,
		OrderID:          n.OrderID,
		FromStatus:       from,
		ToStatus:         reg.RegistrationPaymentStatus,
		Changed:          transitioned,
	}, nil
}

// logOrphanNotification mencatat notifikasi valid-signature yang tidak
// punya registrasi pasangan.
func (s *RegistrationService) logOrphanNotification(ctx context.Context, n *Notification) {
	note := "registrasi untuk order id ini tidak ditemukan"
	entry := model.PaymentLog{
		PaymentLogOrderID:           n.OrderID,
		PaymentLogEvent:             "notification",
		PaymentLogTransactionStatus: nonEmptyPtr(n.TransactionStatus),
		PaymentLogFraudStatus:       nonEmptyPtr(n.FraudStatus),
		PaymentLogPaymentType:       nonEmptyPtr(n.PaymentType),
		PaymentLogNote:              &note,
	}
	if raw := marshalNotification(n); raw != nil {
		entry.PaymentLogPayload = raw
	}
	if err := s.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		// best effort; jangan ganggu response webhook
		_ = err
	}
}

func marshalNotification(n *Notification) datatypes.JSON {
	raw, err := json.Marshal(n)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func nonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
