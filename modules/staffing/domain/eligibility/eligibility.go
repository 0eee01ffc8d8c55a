// Package eligibility loads the administrative policy tables that say which
// bond and placement types are legal per servant type and which closing
// reasons exist. These are data, deliberately not compiled branches, so
// policy changes ship as a file edit rather than a redeploy.
package eligibility

import (
	_ "embed"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/go-faster/errors"

	"github.com/Twosulucoes/idjuv-governa-hub-sub002/modules/staffing/domain/servant"
)

//go:embed defaults.toml
var defaultsTOML []byte

type AppointmentRules struct {
	// Bond types whose holders may not receive a position appointment.
	ForbiddenBondTypes []string `toml:"forbidden_bond_types"`
}

type ClosingRules struct {
	Reasons []string `toml:"reasons"`
}

type PlacementRules struct {
	// Allowed placement kinds ("internal"/"external") per servant category.
	Kinds map[string][]string `toml:"kinds"`
}

type BondRules struct {
	// Allowed bond types per servant category.
	Types map[string][]string `toml:"types"`
}

type Table struct {
	Appointment AppointmentRules `toml:"appointment"`
	Closing     ClosingRules     `toml:"closing"`
	Placement   PlacementRules   `toml:"placement"`
	Bond        BondRules        `toml:"bond"`
}

// Default returns the embedded tables.
func Default() *Table {
	t := &Table{}
	if err := toml.Unmarshal(defaultsTOML, t); err != nil {
		panic(err)
	}
	return t
}

// Load reads the tables from path, falling back to the embedded defaults when
// path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read eligibility tables")
	}
	t := &Table{}
	if err := toml.Unmarshal(raw, t); err != nil {
		return nil, errors.Wrap(err, "parse eligibility tables")
	}
	return t, nil
}

func (t *Table) BondTypeBlocksAppointment(bondType string) bool {
	return slices.Contains(t.Appointment.ForbiddenBondTypes, bondType)
}

func (t *Table) ClosingReasonValid(reason string) bool {
	return slices.Contains(t.Closing.Reasons, reason)
}

func (t *Table) PlacementKindAllowed(category servant.Category, kind string) bool {
	return slices.Contains(t.Placement.Kinds[string(category)], kind)
}

func (t *Table) BondTypeAllowed(category servant.Category, bondType string) bool {
	return slices.Contains(t.Bond.Types[string(category)], bondType)
}
