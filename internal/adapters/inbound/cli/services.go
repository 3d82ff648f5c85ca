package cli

import (
	configloader "github.com/allyaudit/ally/internal/adapters/outbound/config"
	"github.com/allyaudit/ally/internal/adapters/outbound/engine"
	"github.com/allyaudit/ally/internal/adapters/outbound/gitinfo"
	"github.com/allyaudit/ally/internal/adapters/outbound/history"
	"github.com/allyaudit/ally/internal/adapters/outbound/store"
	"github.com/allyaudit/ally/internal/application"
)

// newAuditService wires the standard set of outbound adapters.
func newAuditService(projectPath string) (*application.AuditService, error) {
	cfg, err := configloader.New().Load(projectPath)
	if err != nil {
		return nil, err
	}

	return application.NewAuditService(
		engine.New(engine.Options{AxePath: cfg.AxePath}),
		store.New(),
		history.New(),
		gitinfo.New(),
		cfg,
	), nil
}
