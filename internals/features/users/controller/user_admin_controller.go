// file: internals/features/users/controller/user_admin_controller.go
package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userDTO "legacy_backend/internals/features/users/dto"
	userModel "legacy_backend/internals/features/users/model"
	helper "legacy_backend/internals/helpers"
)

// Manajemen user untuk back-office
type UserAdminController struct {
	DB *gorm.DB
}

func NewUserAdminController(db *gorm.DB) *UserAdminController {
	return &UserAdminController{DB: db}
}

// GET /api/admin/users?search=&role=
func (h *UserAdminController) ListUsers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := h.DB.WithContext(c.Context()).Model(&userModel.User{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		q = q.Where("user_name ILIKE ? OR user_email ILIKE ?", like, like)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("user_role = ?", role)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var users []userModel.User
	if err := q.Order("user_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]userDTO.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userDTO.FromUserModel(&users[i]))
	}
	return helper.JsonList(c, "daftar user", out,
		helper.BuildPaginationFromPage(total, paging.Page, paging.PerPage))
}

// GET /api/admin/users/:id
func (h *UserAdminController) GetUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user id tidak valid")
	}

	var user userModel.User
	if err := h.DB.WithContext(c.Context()).First(&user, "user_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "user tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "detail user", userDTO.FromUserModel(&user))
}

// PATCH /api/admin/users/:id/active — toggle aktif/nonaktif
func (h *UserAdminController) SetUserActive(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user id tidak valid")
	}

	var body struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "format request tidak valid")
	}

	res := h.DB.WithContext(c.Context()).Model(&userModel.User{}).
		Where("user_id = ?", id).
		Update("user_is_active", body.IsActive)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "user tidak ditemukan")
	}
	return helper.JsonUpdated(c, "status user diperbarui", fiber.Map{
		"user_id":   id,
		"is_active": body.IsActive,
	})
}

// DELETE /api/admin/users/:id — soft delete
func (h *UserAdminController) DeleteUser(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "user id tidak valid")
	}

	res := h.DB.WithContext(c.Context()).Delete(&userModel.User{}, "user_id = ?", id)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "user tidak ditemukan")
	}
	return helper.JsonDeleted(c, "user dihapus", fiber.Map{"user_id": id})
}
