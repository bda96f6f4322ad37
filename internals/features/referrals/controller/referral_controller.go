// file: internals/features/referrals/controller/referral_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	programModel "legacy_backend/internals/features/programs/model"
	dto "legacy_backend/internals/features/referrals/dto"
	model "legacy_backend/internals/features/referrals/model"
	service "legacy_backend/internals/features/referrals/service"
	helper "legacy_backend/internals/helpers"
)

type ReferralController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *service.ReferralService
}

func NewReferralController(db *gorm.DB, v *validator.Validate) *ReferralController {
	return &ReferralController{
		DB:        db,
		Validator: v,
		Service:   service.NewReferralService(db),
	}
}

/* =======================================================================
   Public
======================================================================= */

// POST /api/referral/check — cek kelayakan kode untuk program tertentu
func (h *ReferralController) CheckReferral(c *fiber.Ctx) error {
	var req dto.CheckReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	now := time.Now()

	var program programModel.Program
	if err := h.DB.WithContext(c.Context()).
		First(&program, "program_id = ? AND program_is_active = ?", req.ProgramID, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	unitPrice := program.EffectivePrice(now)
	rc, discount, err := h.Service.Validate(h.DB.WithContext(c.Context()), req.ReferralCode, program.ProgramID, unitPrice, now)
	if err != nil {
		if service.IsBusinessRejection(err) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "kode referral valid", dto.CheckReferralResponse{
		ReferralCodeCode: rc.ReferralCodeCode,
		DiscountType:     rc.ReferralCodeDiscountType,
		DiscountIDR:      discount,
		UnitPriceIDR:     unitPrice,
		NetPriceIDR:      unitPrice - discount,
	})
}

// GET /api/referral/usage/:referral_code — info pemakaian satu kode
func (h *ReferralController) GetReferralUsage(c *fiber.Ctx) error {
	code := strings.ToUpper(strings.TrimSpace(c.Params("referral_code")))
	if code == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "kode referral wajib diisi")
	}

	var rc model.ReferralCode
	if err := h.DB.WithContext(c.Context()).
		First(&rc, "referral_code_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "kode referral tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var actual int64
	if err := h.DB.WithContext(c.Context()).
		Model(&model.ReferralUsageHistory{}).
		Where("referral_usage_code_id = ?", rc.ReferralCodeID).
		Count(&actual).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp := dto.ReferralCodeWithUsage{ReferralCode: rc, ActualUsageCount: actual}
	if rc.ReferralCodeUsageLimit != nil {
		remaining := *rc.ReferralCodeUsageLimit - rc.ReferralCodeUsedCount
		if remaining < 0 {
			remaining = 0
		}
		resp.RemainingQuota = &remaining
	}

	return helper.JsonOK(c, "info pemakaian kode referral", resp)
}

/* =======================================================================
   Admin
======================================================================= */

// GET /api/admin/referral-codes
func (h *ReferralController) ListReferralCodes(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).Model(&model.ReferralCode{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		q = q.Where("referral_code_code ILIKE ?", "%"+strings.ToUpper(search)+"%")
	}
	if c.Query("active_only") == "true" {
		q = q.Where("referral_code_is_active = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var codes []model.ReferralCode
	if err := q.Order("referral_code_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&codes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	// lengkapi dengan hitungan riwayat aktual per kode
	out := make([]dto.ReferralCodeWithUsage, 0, len(codes))
	for i := range codes {
		var actual int64
		h.DB.WithContext(c.Context()).
			Model(&model.ReferralUsageHistory{}).
			Where("referral_usage_code_id = ?", codes[i].ReferralCodeID).
			Count(&actual)

		item := dto.ReferralCodeWithUsage{ReferralCode: codes[i], ActualUsageCount: actual}
		if codes[i].ReferralCodeUsageLimit != nil {
			remaining := *codes[i].ReferralCodeUsageLimit - codes[i].ReferralCodeUsedCount
			if remaining < 0 {
				remaining = 0
			}
			item.RemainingQuota = &remaining
		}
		out = append(out, item)
	}

	return helper.JsonList(c, "daftar kode referral", out,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/admin/referral-codes/discrepancies — audit drift counter vs riwayat
func (h *ReferralController) GetUsageDiscrepancies(c *fiber.Ctx) error {
	rows, err := h.Service.UsageDiscrepancies(h.DB.WithContext(c.Context()))
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	drifted := 0
	for _, r := range rows {
		if r.Drift != 0 {
			drifted++
		}
	}

	return helper.JsonOK(c, "laporan selisih pemakaian referral", fiber.Map{
		"codes":         rows,
		"total_codes":   len(rows),
		"drifted_codes": drifted,
	})
}

// POST /api/admin/referral-codes
func (h *ReferralController) CreateReferralCode(c *fiber.Ctx) error {
	var req dto.CreateReferralCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return helper.JsonError(c, fiber.StatusConflict, "kode referral sudah terdaftar")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "kode referral berhasil dibuat", m)
}

// GET /api/admin/referral-codes/:id
func (h *ReferralController) GetReferralCode(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var m model.ReferralCode
	if err := h.DB.WithContext(c.Context()).First(&m, "referral_code_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "kode referral tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "detail kode referral", m)
}

// PATCH /api/admin/referral-codes/:id
func (h *ReferralController) UpdateReferralCode(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var m model.ReferralCode
	if err := h.DB.WithContext(c.Context()).First(&m, "referral_code_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "kode referral tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateReferralCodeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Apply(&m); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonUpdated(c, "kode referral berhasil diperbarui", m)
}

// DELETE /api/admin/referral-codes/:id
// Kode yang pernah dipakai tidak dihapus (riwayat menunjuk ke sana),
// hanya dinonaktifkan.
func (h *ReferralController) DeleteReferralCode(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "id tidak valid")
	}

	var m model.ReferralCode
	if err := h.DB.WithContext(c.Context()).First(&m, "referral_code_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "kode referral tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if m.ReferralCodeUsedCount > 0 {
		if err := h.DB.WithContext(c.Context()).Model(&m).
			Update("referral_code_is_active", false).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonDeleted(c, "kode referral dinonaktifkan (sudah pernah dipakai)", fiber.Map{
			"referral_code_id": m.ReferralCodeID,
			"deactivated":      true,
		})
	}

	if err := h.DB.WithContext(c.Context()).Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "kode referral berhasil dihapus", fiber.Map{
		"referral_code_id": m.ReferralCodeID,
		"deleted":          true,
	})
}
