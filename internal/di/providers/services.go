package providers

import (
	"github.com/samber/do/v2"

	"github.com/rememberthis/remember-server/internal/logger"
	"github.com/rememberthis/remember-server/internal/service"
	"github.com/rememberthis/remember-server/internal/validation"
)

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideIdentityService provides the identity mirroring service.
func ProvideIdentityService(i do.Injector) (*service.IdentityService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewIdentityService(storeHandle.Store, log.Logger), nil
}

// ProvideMemoryService provides the memory submission and browsing service.
func ProvideMemoryService(i do.Injector) (*service.MemoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	identityService := do.MustInvoke[*service.IdentityService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMemoryService(storeHandle.Store, identityService, v, log.Logger), nil
}
