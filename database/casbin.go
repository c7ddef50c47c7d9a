package database

import (
	"log"
	"sync"

	"direct-messenger/model"

	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v3"
)

const adminPath = "/v1/admin*"
const adminMethods = "(GET)|(POST)|(PUT)|(DELETE)"

var (
	enforcer     *casbin.SyncedEnforcer
	enforcerOnce sync.Once
)

// Casbin returns the process-wide enforcer backed by the casbin_rule table.
// The admin role always owns every /v1/admin route.
func Casbin() *casbin.SyncedEnforcer {
	enforcerOnce.Do(func() {
		adapter, err := gormadapter.NewAdapterByDB(Postgres)
		if err != nil {
			log.Fatalf("failed to initialize casbin adapter: %v", err)
		}

		enforcer, err = casbin.NewSyncedEnforcer("config/restful_rbac_model.conf", adapter)
		if err != nil {
			log.Fatalf("failed to create casbin enforcer: %v", err)
		}

		// AddPolicy is a no-op when the rule is already stored.
		if _, err := enforcer.AddPolicy(model.RoleAdmin, adminPath, adminMethods); err != nil {
			log.Fatalf("failed to add admin policy: %v", err)
		}
	})

	return enforcer
}
