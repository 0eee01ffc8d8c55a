package staffing

import (
	"context"

	"github.com/google/uuid"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/application"
	"github.com/Twosulucoes/idjuv-governa-hub-sub002/pkg/composables"
)

// SeedDevFixtures loads a small catalog of units, positions, compatibility
// rules and servants for local development. Idempotent: existing rows are
// left alone.
func SeedDevFixtures(ctx context.Context, app application.Application) error {
	return composables.InTx(ctx, 0, func(txCtx context.Context) error {
		tx, err := composables.UseTx(txCtx)
		if err != nil {
			return err
		}

		secretariat := uuid.MustParse("0d3c1a52-55a3-4a16-9f6c-1a1e6a1f0001")
		regional := uuid.MustParse("0d3c1a52-55a3-4a16-9f6c-1a1e6a1f0002")
		units := []struct {
			id       uuid.UUID
			name     string
			unitType string
		}{
			{secretariat, "Secretaria Executiva", "secretariat"},
			{regional, "Escritório Regional Norte", "regional-office"},
		}
		for _, u := range units {
			if _, err := tx.Exec(txCtx, `
INSERT INTO org_units (id, name, type) VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`, u.id, u.name, u.unitType); err != nil {
				return err
			}
		}

		director := uuid.MustParse("4b1f12aa-6a68-49be-842c-2b6f4f9e0001")
		analyst := uuid.MustParse("4b1f12aa-6a68-49be-842c-2b6f4f9e0002")
		positions := []struct {
			id     uuid.UUID
			name   string
			nature string
			quota  int
		}{
			{director, "Diretor de Programas", "appointed", 1},
			{analyst, "Analista de Políticas Públicas", "career", 10},
		}
		for _, p := range positions {
			if _, err := tx.Exec(txCtx, `
INSERT INTO positions (id, name, nature, quota) VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING
`, p.id, p.name, p.nature, p.quota); err != nil {
				return err
			}
		}

		// The director position is restricted to the secretariat; the analyst
		// position is open to any regional office.
		if _, err := tx.Exec(txCtx, `
INSERT INTO compatibility_rules (id, position_id, unit_id, unit_type)
VALUES ($1, $2, $3, NULL)
ON CONFLICT (id) DO NOTHING
`, uuid.MustParse("7c0e9a31-93e4-4f30-8f28-3d9d5c7e0001"), director, secretariat); err != nil {
			return err
		}
		if _, err := tx.Exec(txCtx, `
INSERT INTO compatibility_rules (id, position_id, unit_id, unit_type)
VALUES ($1, $2, NULL, $3)
ON CONFLICT (id) DO NOTHING
`, uuid.MustParse("7c0e9a31-93e4-4f30-8f28-3d9d5c7e0002"), analyst, "regional-office"); err != nil {
			return err
		}

		servants := []struct {
			id       uuid.UUID
			name     string
			category string
		}{
			{uuid.MustParse("9e2d8c11-42cf-4a04-9d52-57f1b2aa0001"), "Maria das Graças Souza", "career"},
			{uuid.MustParse("9e2d8c11-42cf-4a04-9d52-57f1b2aa0002"), "João Pereira", "appointed"},
		}
		for _, s := range servants {
			if _, err := tx.Exec(txCtx, `
INSERT INTO servants (id, display_name, category) VALUES ($1, $2, $3)
ON CONFLICT (id) DO NOTHING
`, s.id, s.name, s.category); err != nil {
				return err
			}
		}

		app.Logger().Info("staffing dev fixtures seeded")
		return nil
	})
}
