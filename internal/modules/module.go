// Package modules defines the contract every feature module implements.
package modules

import "github.com/gofiber/fiber/v2"

// Module is a self-contained feature: its tables and its routes. Modules are
// built with their services already wired, so RegisterRoutes only mounts.
type Module interface {
	// ID names the module in logs and metrics.
	ID() string

	// Models returns the GORM model pointers for AutoMigrate. Every model
	// returned carries a user_id column and is wiped on account deletion.
	Models() []interface{}

	// RegisterRoutes mounts the module on a group that is already prefixed
	// with /api/p and guarded by the JWT middleware.
	RegisterRoutes(router fiber.Router)
}

// Models flattens the models of every module, in order.
func Models(mods ...Module) []interface{} {
	var all []interface{}
	for _, m := range mods {
		all = append(all, m.Models()...)
	}
	return all
}
