// file: internals/features/registrations/dto/registration_dto.go
package dto

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	model "legacy_backend/internals/features/registrations/model"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

/* ===================== Requests ===================== */

type ParticipantInput struct {
	Name         string  `json:"name" validate:"required,min=2,max=100"`
	Email        string  `json:"email" validate:"required,max=255"`
	Phone        string  `json:"phone" validate:"required,min=6,max=30"`
	City         *string `json:"city" validate:"omitempty,max=100"`
	ReferralCode *string `json:"referral_code" validate:"omitempty,max=50"`

	// Override diskon eksplisit (admin/import); menang atas kode referral
	DiscountIDR *int `json:"discount_idr" validate:"omitempty,gte=0"`
}

type CreateRegistrationRequest struct {
	ProgramID    uuid.UUID `json:"program_id" validate:"required"`
	ContactName  string    `json:"contact_name" validate:"required,min=2,max=100"`
	ContactEmail string    `json:"contact_email" validate:"required,max=255"`
	ContactPhone string    `json:"contact_phone" validate:"required,min=6,max=30"`

	// gateway (default) atau bank_transfer
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=gateway bank_transfer"`

	Participants []ParticipantInput `json:"participants" validate:"required,min=1,max=50,dive"`
}

// Normalize merapikan input sebelum validasi bisnis:
// email lowercase, kode referral uppercase, trim whitespace.
func (r *CreateRegistrationRequest) Normalize() {
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.ContactEmail = strings.ToLower(strings.TrimSpace(r.ContactEmail))
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
	if r.PaymentMethod == "" {
		r.PaymentMethod = model.PaymentMethodGateway
	}
	for i := range r.Participants {
		p := &r.Participants[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Email = strings.ToLower(strings.TrimSpace(p.Email))
		p.Phone = strings.TrimSpace(p.Phone)
		if p.ReferralCode != nil {
			code := strings.ToUpper(strings.TrimSpace(*p.ReferralCode))
			if code == "" {
				p.ReferralCode = nil
			} else {
				p.ReferralCode = &code
			}
		}
	}
}

// FieldErrors validasi format yang tidak tertangkap tag validator
// (pola alamat email). Return nil bila bersih.
func (r *CreateRegistrationRequest) FieldErrors() map[string][]string {
	errs := map[string][]string{}
	if !emailRe.MatchString(r.ContactEmail) {
		errs["contact_email"] = append(errs["contact_email"], "format email tidak valid")
	}
	for i := range r.Participants {
		if !emailRe.MatchString(r.Participants[i].Email) {
			errs["participants.email"] = append(errs["participants.email"],
				"format email peserta ke-"+strconv.Itoa(i+1)+" tidak valid")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

/* ===================== Responses ===================== */

// Bentuk respons sukses pembuatan registrasi (kontrak frontend lama).
type CreateRegistrationResponse struct {
	RegistrationCode string     `json:"registration_code"`
	OrderID          string     `json:"order_id,omitempty"`
	PaymentURL       string     `json:"payment_url,omitempty"`
	PaymentToken     string     `json:"payment_token,omitempty"`
	PaymentMethod    string     `json:"payment_method"`
	SubtotalIDR      int        `json:"subtotal_idr"`
	TaxIDR           int        `json:"tax_idr"`
	TotalIDR         int        `json:"total_idr"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"` // ISO-8601 via JSON marshal
}

type RegistrationDetailResponse struct {
	model.Registration
	ProgramTitle     string `json:"program_title"`
	TotalDiscountIDR int    `json:"total_discount_idr"`
}

/* ===================== Admin filters ===================== */

// Filter list registrasi: struct eksplisit dengan default, bukan map dinamis.
type RegistrationListFilter struct {
	PaymentStatus string     `query:"payment_status"`
	PaymentMethod string     `query:"payment_method"`
	ProgramID     *uuid.UUID `query:"program_id"`
	Search        string     `query:"search"` // nama/email kontak atau kode registrasi
	DateFrom      *time.Time `query:"date_from"`
	DateTo        *time.Time `query:"date_to"`
}

type RegistrationStats struct {
	TotalRegistrations int64            `json:"total_registrations"`
	TotalParticipants  int64            `json:"total_participants"`
	TotalRevenueIDR    int64            `json:"total_revenue_idr"`
	PendingRevenueIDR  int64            `json:"pending_revenue_idr"`
	ByStatus           map[string]int64 `json:"by_status"`
	TopPrograms        []ProgramCount   `json:"top_programs"`
}

type ProgramCount struct {
	ProgramID         uuid.UUID `json:"program_id"`
	ProgramTitle      string    `json:"program_title"`
	RegistrationCount int64     `json:"registration_count"`
	RevenueIDR        int64     `json:"revenue_idr"`
}
