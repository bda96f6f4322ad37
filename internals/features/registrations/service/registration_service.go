// file: internals/features/registrations/service/registration_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	programModel "legacy_backend/internals/features/programs/model"
	referralSvc "legacy_backend/internals/features/referrals/service"
	dto "legacy_backend/internals/features/registrations/dto"
	model "legacy_backend/internals/features/registrations/model"
)

const (
	TaxRatePercent       = 11 // PPN
	SessionExpiryMinutes = 60
	registrationCodePfx  = "REG"
	orderIDPfx           = "ORDER"
)

/* =======================================================================
   Service
======================================================================= */

type RegistrationService struct {
	DB          *gorm.DB
	Gateway     Gateway
	Mailer      Mailer
	Referrals   *referralSvc.ReferralService
	ServerKey   string
	FrontendURL string
}

func NewRegistrationService(db *gorm.DB, gw Gateway, mailer Mailer, serverKey, frontendURL string) *RegistrationService {
	return &RegistrationService{
		DB:          db,
		Gateway:     gw,
		Mailer:      mailer,
		Referrals:   referralSvc.NewReferralService(db),
		ServerKey:   serverKey,
		FrontendURL: frontendURL,
	}
}

/* =======================================================================
   Money math — pure, dipakai juga oleh test
======================================================================= */

// ComputeTax: PPN dibulatkan ke rupiah terdekat (round half away from zero).
func ComputeTax(subtotalIDR int) int {
	return int(math.Round(float64(subtotalIDR) * float64(TaxRatePercent) / 100))
}

// ComputeTotals: subtotal = Σ(harga satuan − diskon per peserta),
// tax = round(11% × subtotal), total = subtotal + tax.
func ComputeTotals(unitPriceIDR int, discounts []int) (subtotal, tax, total int) {
	for _, d := range discounts {
		line := unitPriceIDR - d
		if line < 0 {
			line = 0
		}
		subtotal += line
	}
	tax = ComputeTax(subtotal)
	return subtotal, tax, subtotal + tax
}

/* =======================================================================
   ID generators — format dipertahankan untuk kompatibilitas frontend lama
======================================================================= */

func GenerateRegistrationCode(now time.Time) string {
	return fmt.Sprintf("%s-%d-%s", registrationCodePfx, now.UnixMilli(), uuid.New().String()[:8])
}

func GenerateOrderID(registrationID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("%s-%s-%d", orderIDPfx, registrationID.String()[:8], now.UnixMilli())
}

/* =======================================================================
   Create — satu transaksi atomik: registrasi, peserta, ledger referral,
   sesi pembayaran, payment log. Gagal di mana pun = rollback semuanya.
======================================================================= */

func (s *RegistrationService) CreateRegistration(ctx context.Context, req *dto.CreateRegistrationRequest) (*dto.CreateRegistrationResponse, error) {
	now := time.Now()
	var resp dto.CreateRegistrationResponse

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1) Load program
		var program programModel.Program
		if err := tx.First(&program, "program_id = ? AND program_is_active = ?", req.ProgramID, true).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "program tidak ditemukan")
			}
			return err
		}

		// 2) Kunci harga efektif saat submit
		pricing := program.Pricing(now)
		unitPrice := pricing.EffectivePriceIDR

		// 3) Buat registrasi pending dengan total placeholder
		reg := model.Registration{
			RegistrationCode:             GenerateRegistrationCode(now),
			RegistrationProgramID:        program.ProgramID,
			RegistrationContactName:      req.ContactName,
			RegistrationContactEmail:     req.ContactEmail,
			RegistrationContactPhone:     req.ContactPhone,
			RegistrationParticipantCount: len(req.Participants),
			RegistrationUnitPriceIDR:     unitPrice,
			RegistrationUsedPromo:        pricing.IsPromoActive,
			RegistrationPaymentStatus:    model.PaymentStatusPending,
			RegistrationPaymentMethod:    req.PaymentMethod,
		}
		if err := tx.Create(&reg).Error; err != nil {
			return err
		}

		// 4) Peserta: override diskon > kode referral > tanpa diskon
		discounts := make([]int, 0, len(req.Participants))
		for i := range req.Participants {
			in := &req.Participants[i]

			discount := 0
			switch {
			case in.DiscountIDR != nil:
				discount = *in.DiscountIDR
				if discount > unitPrice {
					discount = unitPrice
				}
			case in.ReferralCode != nil:
				rc, d, err := s.Referrals.Validate(tx, *in.ReferralCode, program.ProgramID, unitPrice, now)
				if err != nil {
					if referralSvc.IsBusinessRejection(err) {
						return fiber.NewError(fiber.StatusBadRequest,
							fmt.Sprintf("peserta %q: %s", in.Name, err.Error()))
					}
					return err
				}
				// 5) Catat pemakaian di ledger, atomik terhadap kuota
				if err := s.Referrals.ApplyTx(tx, rc, reg.RegistrationID, d); err != nil {
					if referralSvc.IsBusinessRejection(err) {
						return fiber.NewError(fiber.StatusBadRequest,
							fmt.Sprintf("peserta %q: %s", in.Name, err.Error()))
					}
					return err
				}
				discount = d
			}

			participant := model.Participant{
				ParticipantRegistrationID: reg.RegistrationID,
				ParticipantName:           in.Name,
				ParticipantEmail:          in.Email,
				ParticipantPhone:          in.Phone,
				ParticipantCity:           in.City,
				ParticipantReferralCode:   in.ReferralCode,
				ParticipantDiscountIDR:    discount,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
			discounts = append(discounts, discount)
		}

		// 6) Total dikunci di registrasi
		subtotal, tax, total := ComputeTotals(unitPrice, discounts)
		reg.RegistrationSubtotalIDR = subtotal
		reg.RegistrationTaxIDR = tax
		reg.RegistrationTotalIDR = total

		// 7) Sesi pembayaran (hanya metode gateway)
		if req.PaymentMethod == model.PaymentMethodGateway {
			orderID := GenerateOrderID(reg.RegistrationID, now)
			expiresAt := now.Add(SessionExpiryMinutes * time.Minute)

			paymentURL, token, err := s.Gateway.CreateSession(SessionInput{
				OrderID:          orderID,
				GrossAmountIDR:   total,
				Items:            buildSessionItems(&program, &reg, req.Participants, unitPrice, discounts, tax),
				CustomerName:     req.ContactName,
				CustomerEmail:    req.ContactEmail,
				CustomerPhone:    req.ContactPhone,
				FinishURL:        s.FrontendURL + "/payment/status/" + reg.RegistrationCode,
				ExpiryMinutes:    SessionExpiryMinutes,
				RegistrationCode: reg.RegistrationCode,
			})
			if err != nil {
				return fiber.NewError(fiber.StatusBadGateway, "payment gateway error: "+err.Error())
			}

			reg.RegistrationOrderID = &orderID
			reg.RegistrationPaymentURL = &paymentURL
			reg.RegistrationPaymentToken = &token
			reg.RegistrationExpiresAt = &expiresAt

			resp.OrderID = orderID
			resp.PaymentURL = paymentURL
			resp.PaymentToken = token
			resp.ExpiresAt = &expiresAt
		}

		if err := tx.Save(&reg).Error; err != nil {
			return err
		}

		// 8) Payment log awal
		if err := s.appendLog(tx, &reg, "created", nil, strPtr(model.PaymentStatusPending), nil, nil); err != nil {
			return err
		}

		resp.RegistrationCode = reg.RegistrationCode
		resp.PaymentMethod = reg.RegistrationPaymentMethod
		resp.SubtotalIDR = subtotal
		resp.TaxIDR = tax
		resp.TotalIDR = total
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// buildSessionItems menyusun line item Snap: satu baris harga per peserta,
// baris negatif per diskon, satu baris PPN.
func buildSessionItems(program *programModel.Program, reg *model.Registration, participants []dto.ParticipantInput, unitPrice int, discounts []int, tax int) []SessionItem {
	items := make([]SessionItem, 0, len(participants)*2+1)
	for i := range participants {
		items = append(items, SessionItem{
			ID:       fmt.Sprintf("ITEM-%d", i+1),
			Name:     fmt.Sprintf("%s - %s", program.ProgramTitle, participants[i].Name),
			PriceIDR: unitPrice,
			Qty:      1,
		})
		if discounts[i] > 0 {
			items = append(items, SessionItem{
				ID:       fmt.Sprintf("DISC-%d", i+1),
				Name:     fmt.Sprintf("Diskon - %s", participants[i].Name),
				PriceIDR: -discounts[i],
				Qty:      1,
			})
		}
	}
	items = append(items, SessionItem{
		ID:       "TAX",
		Name:     fmt.Sprintf("PPN %d%%", TaxRatePercent),
		PriceIDR: tax,
		Qty:      1,
	})
	return items
}

/* =======================================================================
   Reads
======================================================================= */

func (s *RegistrationService) GetByCode(ctx context.Context, code string) (*dto.RegistrationDetailResponse, error) {
	var reg model.Registration
	if err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "registrasi tidak ditemukan")
		}
		return nil, err
	}

	var program programModel.Program
	if err := s.DB.WithContext(ctx).First(&program, "program_id = ?", reg.RegistrationProgramID).Error; err != nil {
		return nil, err
	}

	totalDiscount := 0
	for _, p := range reg.Participants {
		totalDiscount += p.ParticipantDiscountIDR
	}

	return &dto.RegistrationDetailResponse{
		Registration:     reg,
		ProgramTitle:     program.ProgramTitle,
		TotalDiscountIDR: totalDiscount,
	}, nil
}

func (s *RegistrationService) List(ctx context.Context, f *dto.RegistrationListFilter, offset, limit int) ([]model.Registration, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.Registration{})

	if f.PaymentStatus != "" {
		q = q.Where("registration_payment_status = ?", f.PaymentStatus)
	}
	if f.PaymentMethod != "" {
		q = q.Where("registration_payment_method = ?", f.PaymentMethod)
	}
	if f.ProgramID != nil {
		q = q.Where("registration_program_id = ?", *f.ProgramID)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("registration_code ILIKE ? OR registration_contact_name ILIKE ? OR registration_contact_email ILIKE ?",
			like, like, like)
	}
	if f.DateFrom != nil {
		q = q.Where("registration_created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("registration_created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var regs []model.Registration
	if err := q.Preload("Participants").
		Order("registration_created_at DESC").
		Offset(offset).Limit(limit).
		Find(&regs).Error; err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (s *RegistrationService) Stats(ctx context.Context) (*dto.RegistrationStats, error) {
	stats := &dto.RegistrationStats{ByStatus: map[string]int64{}}
	db := s.DB.WithContext(ctx)

	if err := db.Model(&model.Registration{}).Count(&stats.TotalRegistrations).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Participant{}).Count(&stats.TotalParticipants).Error; err != nil {
		return nil, err
	}

	type statusRow struct {
		Status string
		N      int64
	}
	var rows []statusRow
	if err := db.Model(&model.Registration{}).
		Select("registration_payment_status AS status, COUNT(*) AS n").
		Group("registration_payment_status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.N
	}

	if err := db.Model(&model.Registration{}).
		Where("registration_payment_status = ?", model.PaymentStatusPaid).
		Select("COALESCE(SUM(registration_total_idr), 0)").
		Scan(&stats.TotalRevenueIDR).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Registration{}).
		Where("registration_payment_status = ?", model.PaymentStatusPending).
		Select("COALESCE(SUM(registration_total_idr), 0)").
		Scan(&stats.PendingRevenueIDR).Error; err != nil {
		return nil, err
	}

	// program terpopuler: 5 besar berdasarkan jumlah registrasi paid
	if err := db.Table("registrations").
		Select(`programs.program_id, programs.program_title,
			COUNT(*) AS registration_count,
			COALESCE(SUM(registration_total_idr), 0) AS revenue_idr`).
		Joins("JOIN programs ON programs.program_id = registrations.registration_program_id").
		Where("registration_payment_status = ? AND registration_deleted_at IS NULL", model.PaymentStatusPaid).
		Group("programs.program_id, programs.program_title").
		Order("registration_count DESC").
		Limit(5).
		Scan(&stats.TopPrograms).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

/* =======================================================================
   Cancel — hanya pending; kompensasi ledger referral + hapus baris
======================================================================= */

func (s *RegistrationService) CancelRegistration(ctx context.Context, code string) error {
	var reg model.Registration
	if err := s.DB.WithContext(ctx).First(&reg, "registration_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "registrasi tidak ditemukan")
		}
		return err
	}

	if reg.IsPaid() {
		return fiber.NewError(fiber.StatusBadRequest, "registrasi yang sudah dibayar tidak bisa dibatalkan")
	}
	if !reg.IsPending() {
		return fiber.NewError(fiber.StatusBadRequest, "hanya registrasi pending yang bisa dibatalkan")
	}

	// Batalkan sesi di gateway dulu. Kegagalan di sini tidak menghentikan
	// pembatalan lokal: sesi akan kedaluwarsa sendiri di sisi gateway.
	if reg.RegistrationOrderID != nil {
		if err := s.Gateway.CancelSession(*reg.RegistrationOrderID); err != nil {
			log.Printf("[WARN] cancel gateway session %s: %v", *reg.RegistrationOrderID, err)
		}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Kompensasi: kembalikan kuota referral + hapus riwayat
		if err := s.Referrals.ReverseTx(tx, reg.RegistrationID); err != nil {
			return err
		}

		// Jejak audit sebelum barisnya hilang; log menyimpan registration_id
		// tanpa FK sehingga tetap utuh setelah delete
		from := reg.RegistrationPaymentStatus
		if err := s.appendLog(tx, &reg, "cancel", &from, strPtr(model.PaymentStatusCancelled), nil, nil); err != nil {
			return err
		}

		if err := tx.Unscoped().
			Where("participant_registration_id = ?", reg.RegistrationID).
			Delete(&model.Participant{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&reg).Error
	})
}

/* =======================================================================
   Bank transfer — verifikasi manual oleh admin
======================================================================= */

func (s *RegistrationService) AttachTransferProof(ctx context.Context, code, proofURL string) (*model.Registration, error) {
	var reg model.Registration
	if err := s.DB.WithContext(ctx).First(&reg, "registration_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "registrasi tidak ditemukan")
		}
		return nil, err
	}
	if reg.RegistrationPaymentMethod != model.PaymentMethodBankTransfer {
		return nil, fiber.NewError(fiber.StatusBadRequest, "registrasi ini tidak memakai metode transfer bank")
	}
	if !reg.IsPending() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "bukti transfer hanya bisa diunggah saat status pending")
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reg.RegistrationTransferProofURL = &proofURL
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}
		note := "bukti transfer diunggah"
		return s.appendLog(tx, &reg, "proof_uploaded", nil, nil, nil, &note)
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// VerifyBankTransfer: approve → paid (+paid_at, email konfirmasi);
// reject → failed. Status terminal tidak bisa diverifikasi ulang.
func (s *RegistrationService) VerifyBankTransfer(ctx context.Context, code string, approve bool) (*model.Registration, error) {
	var reg model.Registration
	if err := s.DB.WithContext(ctx).
		Preload("Participants").
		First(&reg, "registration_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "registrasi tidak ditemukan")
		}
		return nil, err
	}
	if reg.RegistrationPaymentMethod != model.PaymentMethodBankTransfer {
		return nil, fiber.NewError(fiber.StatusBadRequest, "registrasi ini tidak memakai metode transfer bank")
	}
	if model.IsTerminalStatus(reg.RegistrationPaymentStatus) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "status pembayaran sudah final")
	}

	newStatus := model.PaymentStatusFailed
	if approve {
		newStatus = model.PaymentStatusPaid
	}

	now := time.Now()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		from := reg.RegistrationPaymentStatus
		reg.RegistrationPaymentStatus = newStatus
		if approve {
			reg.RegistrationPaidAt = &now
		}
		if err := tx.Save(&reg).Error; err != nil {
			return err
		}
		note := "verifikasi transfer manual oleh admin"
		return s.appendLog(tx, &reg, "verified", &from, &newStatus, nil, &note)
	})
	if err != nil {
		return nil, err
	}

	if approve {
		go s.sendConfirmationEmails(&reg)
	}
	return &reg, nil
}

/* =======================================================================
   Shared helpers
======================================================================= */

// appendLog menulis satu baris audit payment log. Payload opsional.
func (s *RegistrationService) appendLog(tx *gorm.DB, reg *model.Registration, event string, from, to *string, payload any, note *string) error {
	orderID := reg.RegistrationCode
	if reg.RegistrationOrderID != nil {
		orderID = *reg.RegistrationOrderID
	}

	entry := model.PaymentLog{
		PaymentLogRegistrationID: &reg.RegistrationID,
		PaymentLogOrderID:        orderID,
		PaymentLogEvent:          event,
		PaymentLogFromStatus:     from,
		PaymentLogToStatus:       to,
		PaymentLogNote:           note,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err == nil {
			entry.PaymentLogPayload = datatypes.JSON(raw)
		}
	}
	return tx.Create(&entry).Error
}

// sendConfirmationEmails mengirim email ke SEMUA peserta; kegagalan satu
// peserta dicatat dan tidak menghentikan peserta lain.
func (s *RegistrationService) sendConfirmationEmails(reg *model.Registration) {
	var program programModel.Program
	title := ""
	if err := s.DB.First(&program, "program_id = ?", reg.RegistrationProgramID).Error; err == nil {
		title = program.ProgramTitle
	}

	for _, p := range reg.Participants {
		if err := s.Mailer.SendPaymentConfirmation(
			p.ParticipantEmail, p.ParticipantName, title,
			reg.RegistrationCode, reg.RegistrationTotalIDR,
		); err != nil {
			log.Printf("[WARN] email konfirmasi ke %s gagal: %v", p.ParticipantEmail, err)
		}
	}
}

func strPtr(s string) *string { return &s }
