package controllers

import (
	"github.com/gofiber/fiber/v2"

	"jabuspark/backend/utils"
)

func Health(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, fiber.Map{"ok": true})
}
