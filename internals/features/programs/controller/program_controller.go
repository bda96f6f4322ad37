// file: internals/features/programs/controller/program_controller.go
package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "legacy_backend/internals/features/programs/dto"
	model "legacy_backend/internals/features/programs/model"
	helper "legacy_backend/internals/helpers"
)

type ProgramController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewProgramController(db *gorm.DB, v *validator.Validate) *ProgramController {
	return &ProgramController{DB: db, Validator: v}
}

/* =======================================================================
   Public
======================================================================= */

// GET /api/programs
func (h *ProgramController) ListPrograms(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	search := strings.TrimSpace(c.Query("search"))

	q := h.DB.WithContext(c.Context()).Model(&model.Program{})

	// endpoint publik hanya menampilkan program aktif
	if c.Query("include_inactive") != "true" || c.Locals("userRole") != "admin" {
		q = q.Where("program_is_active = ?", true)
	}
	if search != "" {
		q = q.Where("program_title ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var programs []model.Program
	if err := q.Order("program_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&programs).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	now := time.Now()
	return helper.JsonList(c, "daftar program", dto.FromModels(programs, now),
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/programs/:id
func (h *ProgramController) GetProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "program id tidak valid")
	}

	var m model.Program
	if err := h.DB.WithContext(c.Context()).
		First(&m, "program_id = ? AND program_is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "detail program", dto.FromModel(&m, time.Now()))
}

// GET /api/programs/:id/price — harga efektif saat ini (pricing engine)
func (h *ProgramController) GetProgramPrice(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "program id tidak valid")
	}

	var m model.Program
	if err := h.DB.WithContext(c.Context()).
		First(&m, "program_id = ? AND program_is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "harga program saat ini", m.Pricing(time.Now()))
}

/* =======================================================================
   Admin
======================================================================= */

// POST /api/admin/programs
func (h *ProgramController) CreateProgram(c *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Validate(time.Now()); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	m := req.ToModel()
	if err := h.DB.WithContext(c.Context()).Create(m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal membuat program: "+err.Error())
	}

	return helper.JsonCreated(c, "program berhasil dibuat", dto.FromModel(m, time.Now()))
}

// PATCH /api/admin/programs/:id
func (h *ProgramController) UpdateProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "program id tidak valid")
	}

	var m model.Program
	if err := h.DB.WithContext(c.Context()).First(&m, "program_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	if err := req.Apply(&m, time.Now()); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.DB.WithContext(c.Context()).Save(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal update program: "+err.Error())
	}

	return helper.JsonUpdated(c, "program berhasil diperbarui", dto.FromModel(&m, time.Now()))
}

// DELETE /api/admin/programs/:id
// Program yang sudah punya registrasi tidak dihapus, hanya dinonaktifkan.
func (h *ProgramController) DeleteProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "program id tidak valid")
	}

	var m model.Program
	if err := h.DB.WithContext(c.Context()).First(&m, "program_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var regCount int64
	if err := h.DB.WithContext(c.Context()).
		Table("registrations").
		Where("registration_program_id = ? AND registration_deleted_at IS NULL", id).
		Count(&regCount).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if regCount > 0 {
		if err := h.DB.WithContext(c.Context()).Model(&m).
			Update("program_is_active", false).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		return helper.JsonDeleted(c, "program dinonaktifkan (sudah memiliki registrasi)", fiber.Map{
			"program_id":  m.ProgramID,
			"deactivated": true,
		})
	}

	if err := h.DB.WithContext(c.Context()).Delete(&m).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "program berhasil dihapus", fiber.Map{
		"program_id": m.ProgramID,
		"deleted":    true,
	})
}

// POST /api/admin/programs/:id/duplicate
func (h *ProgramController) DuplicateProgram(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "program id tidak valid")
	}

	var src model.Program
	if err := h.DB.WithContext(c.Context()).First(&src, "program_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "program tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	dup := src
	dup.ProgramID = uuid.Nil // biar DB generate baru
	dup.ProgramTitle = src.ProgramTitle + " (Copy)"
	dup.ProgramIsActive = false
	dup.CreatedAt = time.Time{}
	dup.UpdatedAt = time.Time{}

	if err := h.DB.WithContext(c.Context()).Create(&dup).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "gagal duplikasi program: "+err.Error())
	}

	return helper.JsonCreated(c, "program berhasil diduplikasi", dto.FromModel(&dup, time.Now()))
}

// GET /api/admin/programs/stats
func (h *ProgramController) GetProgramStats(c *fiber.Ctx) error {
	var stats []dto.ProgramStats
	err := h.DB.WithContext(c.Context()).Raw(`
		SELECT p.program_id::text AS program_id,
		       p.program_title,
		       COUNT(DISTINCT r.registration_id) AS registration_count,
		       COUNT(DISTINCT r.registration_id) FILTER (WHERE r.registration_payment_status = 'paid') AS paid_count,
		       COALESCE(SUM(r.registration_participant_count), 0) AS participant_count,
		       COALESCE(SUM(r.registration_total_idr) FILTER (WHERE r.registration_payment_status = 'paid'), 0) AS total_revenue_idr,
		       COALESCE(SUM(r.registration_total_idr) FILTER (WHERE r.registration_payment_status = 'pending'), 0) AS pending_revenue_idr
		FROM programs p
		LEFT JOIN registrations r
		       ON r.registration_program_id = p.program_id
		      AND r.registration_deleted_at IS NULL
		WHERE p.program_deleted_at IS NULL
		GROUP BY p.program_id, p.program_title
		ORDER BY registration_count DESC
	`).Scan(&stats).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "statistik program", stats)
}
