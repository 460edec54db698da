package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/vendor"

	"gopkg.in/yaml.v3"
)

// Seed is the bootstrap directory of carriers and vendor sessions.
type Seed struct {
	Carriers []SeedCarrier `yaml:"carriers"`
	Vendors  []SeedVendor  `yaml:"vendors"`
}

type SeedCarrier struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`
	Status   string `yaml:"status"`
}

type SeedVendor struct {
	WarehouseID string `yaml:"warehouse_id"`
	Name        string `yaml:"name"`
	Token       string `yaml:"token"`
	Admin       bool   `yaml:"admin"`
	Inactive    bool   `yaml:"inactive"`
}

type carrierUpserter interface {
	Upsert(ctx context.Context, c *carrier.Carrier) error
}

type vendorRegistrar interface {
	Register(ctx context.Context, v *vendor.Vendor, token string, active bool) error
}

// ParseSeed decodes a seed document. An unset carrier status means active.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if len(bytes.TrimSpace(data)) == 0 {
		return seed, nil
	}
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("seed: decode: %w", err)
	}
	for i := range seed.Carriers {
		if seed.Carriers[i].Status == "" {
			seed.Carriers[i].Status = carrier.Active.String()
		}
	}
	return seed, nil
}

// LoadSeed reads the seed file at path. An empty path is an empty seed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return Seed{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return ParseSeed(data)
}

// Apply writes the seed. Existing rows are overwritten.
func (s Seed) Apply(ctx context.Context, carriers carrierUpserter, vendors vendorRegistrar) error {
	for _, sc := range s.Carriers {
		status, err := carrier.ParseStatus(sc.Status)
		if err != nil {
			return fmt.Errorf("seed: carrier %s: %w", sc.ID, err)
		}
		c, err := carrier.NewCarrier(sc.ID, sc.Name, sc.Priority, status)
		if err != nil {
			return fmt.Errorf("seed: carrier %s: %w", sc.ID, err)
		}
		if err = carriers.Upsert(ctx, c); err != nil {
			return fmt.Errorf("seed: carrier %s: %w", sc.ID, err)
		}
	}
	for _, sv := range s.Vendors {
		v, err := vendor.NewVendor(sv.WarehouseID, sv.Name, !sv.Inactive, sv.Admin)
		if err != nil {
			return fmt.Errorf("seed: vendor: %w", err)
		}
		if sv.Token == "" {
			return fmt.Errorf("seed: vendor %s has no token", sv.WarehouseID)
		}
		if err = vendors.Register(ctx, v, sv.Token, !sv.Inactive); err != nil {
			return fmt.Errorf("seed: vendor %s: %w", sv.WarehouseID, err)
		}
	}
	return nil
}
