package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/gorm"
)

// InstrumentGorm adds a span per statement. Bound query variables are left
// out of spans unless withVariables is set, since they carry customer data.
func InstrumentGorm(db *gorm.DB, dbSystem string, withVariables bool) error {
	opts := []otelgorm.Option{otelgorm.WithDBName(dbSystem)}
	if !withVariables {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	return db.Use(otelgorm.NewPlugin(opts...))
}
